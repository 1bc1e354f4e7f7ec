package invoices

import (
	"strconv"
	"time"

	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/shared"
)

// Period is a sliding time window measured backwards from "now" using
// calendar month/year arithmetic, not fixed day counts.
type Period string

const (
	PeriodMonth   Period = "month"
	Period3Months Period = "3months"
	Period6Months Period = "6months"
	PeriodYear    Period = "year"
	PeriodAll     Period = "all"
)

// StatusAll disables status filtering.
const StatusAll = "all"

// periodStart returns the inclusive lower bound of the window, or the zero
// time when the period is unbounded.
func periodStart(p Period, now time.Time) time.Time {
	switch p {
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	case Period3Months:
		return now.AddDate(0, -3, 0)
	case Period6Months:
		return now.AddDate(0, -6, 0)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

// ShipmentQuery carries the administrative free-text filters over the
// shipment attributes embedded in each invoice. Text fields match as
// case-insensitive substrings; Departure matches an exact calendar day.
type ShipmentQuery struct {
	Number      string
	Origin      string
	Destination string
	Carrier     string
	Mode        string
	Pieces      string
	Departure   time.Time
}

func (q ShipmentQuery) matches(s provider.ShipmentSummary) bool {
	if !shared.FoldContains(s.Number, q.Number) {
		return false
	}
	if !shared.FoldContains(s.Origin, q.Origin) {
		return false
	}
	if !shared.FoldContains(s.Destination, q.Destination) {
		return false
	}
	if !shared.FoldContains(s.Carrier, q.Carrier) {
		return false
	}
	if !shared.FoldContains(s.Mode, q.Mode) {
		return false
	}
	if q.Pieces != "" && !shared.FoldContains(strconv.Itoa(s.Pieces), q.Pieces) {
		return false
	}
	if !q.Departure.IsZero() {
		if s.Departure.IsZero() || !shared.SameDay(q.Departure, s.Departure) {
			return false
		}
	}
	return true
}

// Filter selects the invoice subset to display. All criteria compose with
// logical AND; an unset field excludes nothing.
type Filter struct {
	Period    Period
	Status    string
	Consignee string
	// Compare holds exactly two consignee names for the pairwise
	// administrative comparison view; invoices of either consignee pass.
	Compare  [2]string
	Shipment ShipmentQuery
}

func (f Filter) matchesConsignee(inv provider.Invoice) bool {
	if f.Compare[0] != "" && f.Compare[1] != "" {
		return shared.FoldEqual(inv.Shipment.Consignee, f.Compare[0]) ||
			shared.FoldEqual(inv.Shipment.Consignee, f.Compare[1])
	}
	if f.Consignee == "" {
		return true
	}
	return shared.FoldEqual(inv.Shipment.Consignee, f.Consignee)
}

// Apply returns the invoices passing every criterion of f, evaluated at now.
// Invoices without an issue date only appear in the unbounded period.
func Apply(invs []provider.Invoice, f Filter, now time.Time) []provider.Invoice {
	start := periodStart(f.Period, now)
	out := make([]provider.Invoice, 0, len(invs))
	for _, inv := range invs {
		if !start.IsZero() && inv.IssueDate.Before(start) {
			continue
		}
		if f.Status != "" && f.Status != StatusAll && string(Classify(inv, now)) != f.Status {
			continue
		}
		if !f.matchesConsignee(inv) {
			continue
		}
		if !f.Shipment.matches(inv.Shipment) {
			continue
		}
		out = append(out, inv)
	}
	return out
}
