package shared

import "context"

// Credentials identify the caller towards the freight provider.
type Credentials struct {
	Token    string
	Username string
}

// Valid reports whether both the token and the username are present.
func (c Credentials) Valid() bool {
	return c.Token != "" && c.Username != ""
}

type credentialsContextKey struct{}

// ContextWithCredentials stores provider credentials in context.
func ContextWithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsContextKey{}, creds)
}

// CredentialsFromContext extracts provider credentials from context.
func CredentialsFromContext(ctx context.Context) Credentials {
	creds, _ := ctx.Value(credentialsContextKey{}).(Credentials)
	return creds
}
