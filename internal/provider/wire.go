package provider

import "time"

// Wire shapes mirror the provider feed, where nearly every field is optional.
// Normalization happens once, here, so consumers never see nil amounts or
// empty currency codes.

const (
	// DefaultCurrency substitutes a missing currency code.
	DefaultCurrency = "USD"
	// NotAvailable substitutes missing display strings.
	NotAvailable = "N/A"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type wireMoney struct {
	Value   *float64 `json:"Value"`
	Display *string  `json:"Display"`
}

type wireCurrency struct {
	Abbreviation *string `json:"Abbreviation"`
	Name         *string `json:"Name"`
}

type wireCharge struct {
	Description *string  `json:"Description"`
	Quantity    *float64 `json:"Quantity"`
	Unit        *string  `json:"Unit"`
	Rate        *float64 `json:"Rate"`
	Amount      *float64 `json:"Amount"`
}

type wireShipment struct {
	GUID          *string `json:"GUID"`
	Number        *string `json:"Number"`
	ConsigneeName *string `json:"ConsigneeName"`
	Origin        *string `json:"Origin"`
	Destination   *string `json:"Destination"`
	CarrierName   *string `json:"CarrierName"`
	Mode          *string `json:"Mode"`
	Pieces        *int    `json:"Pieces"`
	DepartureDate *string `json:"DepartureDate"`
	ArrivalDate   *string `json:"ArrivalDate"`
	Status        *string `json:"Status"`
}

type wireInvoice struct {
	GUID        *string       `json:"GUID"`
	Number      *string       `json:"Number"`
	CreatedOn   *string       `json:"CreatedOn"`
	DueDate     *string       `json:"DueDate"`
	Currency    *wireCurrency `json:"Currency"`
	Amount      *wireMoney    `json:"Amount"`
	TaxAmount   *wireMoney    `json:"TaxAmount"`
	TotalAmount *wireMoney    `json:"TotalAmount"`
	BalanceDue  *wireMoney    `json:"BalanceDue"`
	Charges     []wireCharge  `json:"Charges"`
	Shipment    *wireShipment `json:"Shipment"`
	Notes       *string       `json:"Notes"`
}

type wireQuote struct {
	Number       *string       `json:"Number"`
	CustomerName *string       `json:"CustomerName"`
	Origin       *string       `json:"Origin"`
	Destination  *string       `json:"Destination"`
	Currency     *wireCurrency `json:"Currency"`
	TotalAmount  *wireMoney    `json:"TotalAmount"`
	CreatedOn    *string       `json:"CreatedOn"`
	Status       *string       `json:"Status"`
}

type wireDocument struct {
	GUID        *string `json:"GUID"`
	ShipmentID  *string `json:"ShipmentGUID"`
	FileName    *string `json:"FileName"`
	ContentType *string `json:"ContentType"`
	Size        *int64  `json:"Size"`
	Content     *string `json:"Content"`
	UploadedOn  *string `json:"UploadedOn"`
}

func strOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

func floatOr(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func intOr(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func int64Or(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func parseDate(p *string) time.Time {
	if p == nil || *p == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *p); err == nil {
			return t
		}
	}
	return time.Time{}
}

func moneyOr(p *wireMoney) Money {
	if p == nil {
		return Money{Value: 0, Display: NotAvailable}
	}
	return Money{Value: floatOr(p.Value), Display: strOr(p.Display, NotAvailable)}
}

func currencyOr(p *wireCurrency) Currency {
	if p == nil {
		return Currency{Code: DefaultCurrency, Name: NotAvailable}
	}
	return Currency{
		Code: strOr(p.Abbreviation, DefaultCurrency),
		Name: strOr(p.Name, NotAvailable),
	}
}

func (w wireInvoice) normalize() Invoice {
	inv := Invoice{
		ID:        strOr(w.GUID, ""),
		Number:    strOr(w.Number, NotAvailable),
		IssueDate: parseDate(w.CreatedOn),
		DueDate:   parseDate(w.DueDate),
		Currency:  currencyOr(w.Currency),
		Amount:    moneyOr(w.Amount),
		Tax:       moneyOr(w.TaxAmount),
		Total:     moneyOr(w.TotalAmount),
		Balance:   moneyOr(w.BalanceDue),
		Notes:     strOr(w.Notes, ""),
	}
	if len(w.Charges) > 0 {
		inv.Charges = make([]Charge, 0, len(w.Charges))
		for _, c := range w.Charges {
			inv.Charges = append(inv.Charges, Charge{
				Description: strOr(c.Description, NotAvailable),
				Quantity:    floatOr(c.Quantity),
				Unit:        strOr(c.Unit, ""),
				Rate:        floatOr(c.Rate),
				Amount:      floatOr(c.Amount),
			})
		}
	}
	if w.Shipment != nil {
		inv.Shipment = ShipmentSummary{
			Number:      strOr(w.Shipment.Number, NotAvailable),
			Consignee:   strOr(w.Shipment.ConsigneeName, NotAvailable),
			Origin:      strOr(w.Shipment.Origin, ""),
			Destination: strOr(w.Shipment.Destination, ""),
			Carrier:     strOr(w.Shipment.CarrierName, ""),
			Mode:        strOr(w.Shipment.Mode, ""),
			Pieces:      intOr(w.Shipment.Pieces),
			Departure:   parseDate(w.Shipment.DepartureDate),
			Arrival:     parseDate(w.Shipment.ArrivalDate),
		}
	} else {
		inv.Shipment = ShipmentSummary{Number: NotAvailable, Consignee: NotAvailable}
	}
	return inv
}

func (w wireShipment) normalize() Shipment {
	return Shipment{
		ID:          strOr(w.GUID, ""),
		Number:      strOr(w.Number, NotAvailable),
		Consignee:   strOr(w.ConsigneeName, NotAvailable),
		Origin:      strOr(w.Origin, ""),
		Destination: strOr(w.Destination, ""),
		Carrier:     strOr(w.CarrierName, ""),
		Mode:        strOr(w.Mode, ""),
		Pieces:      intOr(w.Pieces),
		Departure:   parseDate(w.DepartureDate),
		Arrival:     parseDate(w.ArrivalDate),
		Status:      strOr(w.Status, ""),
	}
}

func (w wireQuote) normalize() Quote {
	return Quote{
		Number:      strOr(w.Number, NotAvailable),
		Customer:    strOr(w.CustomerName, NotAvailable),
		Origin:      strOr(w.Origin, ""),
		Destination: strOr(w.Destination, ""),
		Currency:    currencyOr(w.Currency),
		Total:       moneyOr(w.TotalAmount),
		CreatedOn:   parseDate(w.CreatedOn),
		Status:      strOr(w.Status, ""),
	}
}

func (w wireDocument) normalize() Document {
	return Document{
		ID:          strOr(w.GUID, ""),
		ShipmentID:  strOr(w.ShipmentID, ""),
		FileName:    strOr(w.FileName, NotAvailable),
		ContentType: strOr(w.ContentType, ""),
		Size:        int64Or(w.Size),
		Content:     strOr(w.Content, ""),
		UploadedAt:  parseDate(w.UploadedOn),
	}
}
