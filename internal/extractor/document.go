// Package extractor turns the linearized text of a purchase-order PDF into a
// structured Document. It is a pure function of (text, filename): no I/O, no
// logging, no shared state, so callers may run it concurrently.
package extractor

// Document is the structured result of one extraction call.
// Absent header values are empty strings.
type Document struct {
	Order     string     `json:"order"`
	Date      string     `json:"date"`
	To        string     `json:"to"`
	InvoiceTo string     `json:"invoice_to"`
	Items     []LineItem `json:"items"`
}

// LineItem is one row of the order's detail table plus the loosely labeled
// fields that follow it. Empty string means "not found" for every field.
type LineItem struct {
	ItemNumber   string `json:"item_number"`
	Code         string `json:"code"` // never populated; kept for the export layout
	Description  string `json:"description"`
	DeliveryDate string `json:"delivery_date"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit"`
	UnitPrice    string `json:"unit_price"`
	TotalPrice   string `json:"total_price"`
	Tax          string `json:"tax"`
	TotalWithTax string `json:"total_with_tax"`

	Consultant     string `json:"consultant"`
	RepseFolio     string `json:"repse_folio"`
	Period         string `json:"period"`
	Provider       string `json:"provider"`
	Project        string `json:"project"`
	Discount       string `json:"discount"`
	ConsultantType string `json:"consultant_type"`
}

// HasOrder reports whether an order number was resolved.
func (d Document) HasOrder() bool { return d.Order != "" }
