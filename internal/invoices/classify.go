package invoices

import (
	"time"

	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/shared"
)

// Classify maps one invoice to exactly one Status.
//
// A zero balance wins over any due date. The feed cannot distinguish a
// missing balance from a settled one (normalization maps both to zero), so
// an absent balance also reads as paid even when the due date has passed.
// An invoice is overdue only when its due date is strictly before the start
// of the current calendar day in local time.
func Classify(inv provider.Invoice, now time.Time) Status {
	if inv.Balance.Value == 0 {
		return StatusPaid
	}
	if !inv.DueDate.IsZero() && inv.DueDate.Before(shared.StartOfDay(now)) {
		return StatusOverdue
	}
	return StatusPending
}
