package invoices

import (
	"time"

	"github.com/andescargo/cargoview/internal/provider"
)

// Aggregate rebuilds the per-currency metrics for a filtered invoice set.
// totalPaid is derived as billed minus pending rather than computed
// independently, so billed == paid + pending holds per currency by
// construction. Currencies appear in first-encountered order.
func Aggregate(invs []provider.Invoice, now time.Time) []CurrencyMetrics {
	byCode := make(map[string]*CurrencyMetrics)
	order := make([]string, 0, 4)
	for _, inv := range invs {
		code := inv.Currency.Code
		if code == "" {
			code = provider.DefaultCurrency
		}
		m, ok := byCode[code]
		if !ok {
			m = &CurrencyMetrics{Currency: code}
			byCode[code] = m
			order = append(order, code)
		}
		m.TotalBilled += inv.Total.Value
		m.TotalPending += inv.Balance.Value
		m.TotalPaid += inv.Total.Value - inv.Balance.Value
		m.Count++
		if Classify(inv, now) == StatusOverdue {
			m.OverdueCount++
		}
	}
	metrics := make([]CurrencyMetrics, 0, len(order))
	for _, code := range order {
		metrics = append(metrics, *byCode[code])
	}
	return metrics
}
