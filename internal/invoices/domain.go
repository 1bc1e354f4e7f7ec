// Package invoices implements the invoice reporting engine: cached paginated
// retrieval from the freight provider, status classification, per-currency
// aggregation, implied exchange-rate derivation and display filtering.
package invoices

import (
	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/shared"
)

// Status is the derived payment state of an invoice. It is recomputed on
// every read and never persisted.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
)

// CurrencyMetrics is the per-currency roll-up over one filtered invoice set.
// It is rebuilt from scratch whenever the set changes.
type CurrencyMetrics struct {
	Currency     string  `json:"currency"`
	TotalBilled  float64 `json:"totalBilled"`
	TotalPaid    float64 `json:"totalPaid"`
	TotalPending float64 `json:"totalPending"`
	Count        int     `json:"count"`
	OverdueCount int     `json:"overdueCount"`
}

// Row is one invoice prepared for display: the record itself plus its
// derived status and, for foreign-currency invoices, the implied exchange
// rate and the balance converted into the report currency.
type Row struct {
	provider.Invoice
	Status           Status  `json:"status"`
	ImpliedRate      float64 `json:"impliedRate,omitempty"`
	ConvertedBalance float64 `json:"convertedBalance,omitempty"`
	Converted        bool    `json:"converted"`
}

// Report is one page of filtered rows with the aggregate metrics for the
// whole filtered set.
type Report struct {
	Rows       []Row             `json:"rows"`
	Metrics    []CurrencyMetrics `json:"metrics"`
	Pagination shared.Pagination `json:"pagination"`
	HasMore    bool              `json:"hasMore"`
}
