package extractor

import (
	"reflect"
	"testing"
)

const sampleOrder = `ORDEN DE COMPRA 4517984961
Fecha: 15.01.2024
A:
(To)
Acme Corp
No. Prov: 123
Facturar a:
(Invoice to)
Globex SA de CV
Av. Siempre Viva 742
CFDI: G03
Partida  Descripción
10  Consulting services
01.02.2024  11.000 DIA  5,221.82  57,439.00  2,750.00  60,190.00
Consultoria: Jane Doe
Total`

func TestExtract(t *testing.T) {
	doc := Extract(sampleOrder, "OC_4517984961.pdf")

	if doc.Order != "4517984961" {
		t.Errorf("Order = %q", doc.Order)
	}
	if doc.Date != "15.01.2024" {
		t.Errorf("Date = %q", doc.Date)
	}
	if doc.To != "Acme Corp" {
		t.Errorf("To = %q", doc.To)
	}
	if doc.InvoiceTo != "Globex SA de CV Av. Siempre Viva 742" {
		t.Errorf("InvoiceTo = %q", doc.InvoiceTo)
	}
	if len(doc.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(doc.Items))
	}

	want := LineItem{
		ItemNumber:   "10",
		Description:  "Consulting services",
		DeliveryDate: "01.02.2024",
		Quantity:     "11.000",
		Unit:         "DIA",
		UnitPrice:    "5,221.82",
		TotalPrice:   "57,439.00",
		Tax:          "2,750.00",
		TotalWithTax: "60,190.00",
		Consultant:   "Jane Doe",
	}
	if doc.Items[0] != want {
		t.Errorf("item\n got  %+v\n want %+v", doc.Items[0], want)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	a := Extract(sampleOrder, "OC_4517984961.pdf")
	b := Extract(sampleOrder, "OC_4517984961.pdf")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("extractions differ:\n%+v\n%+v", a, b)
	}
}

func TestExtractEmpty(t *testing.T) {
	doc := Extract("", "")
	if doc.HasOrder() || doc.To != "" || len(doc.Items) != 0 {
		t.Errorf("Extract(\"\") = %+v", doc)
	}
}
