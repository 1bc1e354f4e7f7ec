package provider

import "time"

// Money pairs a numeric amount with the provider's preformatted display
// string. Amounts are expressed in the owning record's currency.
type Money struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// Currency identifies the currency of an invoice or quote.
type Currency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Charge is one priced line item on an invoice. The raw feed can repeat a
// charge verbatim; consumers deduplicate on the
// (description, quantity, rate, amount) tuple.
type Charge struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// ShipmentSummary is the denormalized shipment block embedded in an invoice.
type ShipmentSummary struct {
	Number      string    `json:"number"`
	Consignee   string    `json:"consignee"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Carrier     string    `json:"carrier"`
	Mode        string    `json:"mode"`
	Pieces      int       `json:"pieces"`
	Departure   time.Time `json:"departure"`
	Arrival     time.Time `json:"arrival"`
}

// Invoice is a provider invoice after boundary normalization: absent numeric
// fields are zero, absent currency is USD, absent names are the "N/A"
// sentinel, absent dates are the zero time.
type Invoice struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	IssueDate time.Time       `json:"issueDate"`
	DueDate   time.Time       `json:"dueDate"`
	Currency  Currency        `json:"currency"`
	Amount    Money           `json:"amount"`
	Tax       Money           `json:"taxAmount"`
	Total     Money           `json:"totalAmount"`
	Balance   Money           `json:"balanceDue"`
	Charges   []Charge        `json:"charges"`
	Shipment  ShipmentSummary `json:"shipment"`
	Notes     string          `json:"notes"`
}

// Shipment is one ground or ocean shipment record.
type Shipment struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	Consignee   string    `json:"consignee"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Carrier     string    `json:"carrier"`
	Mode        string    `json:"mode"`
	Pieces      int       `json:"pieces"`
	Departure   time.Time `json:"departure"`
	Arrival     time.Time `json:"arrival"`
	Status      string    `json:"status"`
}

// Quote is a provider freight quote. The provider only exposes a list-all
// endpoint; lookups by number happen client-side.
type Quote struct {
	Number      string    `json:"number"`
	Customer    string    `json:"customer"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Currency    Currency  `json:"currency"`
	Total       Money     `json:"total"`
	CreatedOn   time.Time `json:"createdOn"`
	Status      string    `json:"status"`
}

// Document describes a file attached to a shipment. Content is base64 encoded
// and only populated on download.
type Document struct {
	ID          string    `json:"id"`
	ShipmentID  string    `json:"shipmentId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Content     string    `json:"content,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// DocumentUpload is the payload for attaching a file to a shipment.
type DocumentUpload struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}
