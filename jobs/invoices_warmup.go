package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/andescargo/cargoview/internal/invoices"
	"github.com/andescargo/cargoview/internal/shared"
)

// InvoiceWarmupJob refreshes invoice caches outside the request path so the
// first dashboard hit after an expiry does not pay the fetch latency.
type InvoiceWarmupJob struct {
	Invoices *invoices.Service
	// Creds authenticate the worker towards the provider; background runs
	// have no user request to borrow a token from.
	Creds  shared.Credentials
	Logger *slog.Logger
	clock  func() time.Time
}

// NewInvoiceWarmupJob wires dependencies for the warmup handlers.
func NewInvoiceWarmupJob(svc *invoices.Service, creds shared.Credentials, logger *slog.Logger) *InvoiceWarmupJob {
	return &InvoiceWarmupJob{
		Invoices: svc,
		Creds:    creds,
		Logger:   logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// HandleAdminWarmup processes TaskAdminWarmup tasks.
func (j *InvoiceWarmupJob) HandleAdminWarmup(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Invoices == nil {
		return errors.New("invoice warmup: handler not configured")
	}
	var payload AdminWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if !j.Creds.Valid() {
		j.Logger.Warn("invoice warmup skipped, no service credentials")
		return asynq.SkipRetry
	}
	started := j.clock()
	records, _, err := j.Invoices.Refresh(ctx, j.Creds, invoices.Scope{Admin: true})
	if err != nil {
		if errors.Is(err, shared.ErrTokenInvalid) {
			// Re-authentication happens out of band; retrying cannot help.
			j.Logger.Error("invoice warmup rejected", slog.Any("error", err))
			return asynq.SkipRetry
		}
		return err
	}
	j.Logger.Info("admin invoice cache warmed",
		slog.Int("records", len(records)),
		slog.String("reason", payload.Reason),
		slog.Duration("took", j.clock().Sub(started)))
	return nil
}

// HandleUserRefresh processes TaskUserRefresh tasks.
func (j *InvoiceWarmupJob) HandleUserRefresh(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Invoices == nil {
		return errors.New("invoice refresh: handler not configured")
	}
	var payload UserRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Username == "" {
		return asynq.SkipRetry
	}
	if !j.Creds.Valid() {
		return asynq.SkipRetry
	}
	scope := invoices.Scope{Username: payload.Username, Consignee: payload.Username}
	records, _, err := j.Invoices.Refresh(ctx, j.Creds, scope)
	if err != nil {
		if errors.Is(err, shared.ErrTokenInvalid) {
			return asynq.SkipRetry
		}
		return err
	}
	j.Logger.Info("user invoice cache refreshed",
		slog.String("username", payload.Username),
		slog.Int("records", len(records)))
	return nil
}
