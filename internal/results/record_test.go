package results

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/joseph-ayodele/po-extractor/internal/extractor"
)

func sampleDoc(order string, items ...string) extractor.Document {
	doc := extractor.Document{Order: order, Date: "15.01.2024", To: "Acme Corp", InvoiceTo: "Globex"}
	for _, n := range items {
		doc.Items = append(doc.Items, extractor.LineItem{ItemNumber: n, Description: "item " + n, UnitPrice: "1,000.00"})
	}
	return doc
}

func TestFromDocument(t *testing.T) {
	if recs := FromDocument(extractor.Document{}); recs != nil {
		t.Errorf("no order: got %v", recs)
	}
	recs := FromDocument(sampleDoc("45"))
	if len(recs) != 1 || recs[0].Key != "45" || recs[0].HasDetail() {
		t.Errorf("no items: got %+v", recs)
	}
	recs = FromDocument(sampleDoc("45", "10", "20"))
	if len(recs) != 2 || recs[0].Key != "45-10" || recs[1].Key != "45-20" {
		t.Fatalf("items: got %+v", recs)
	}
	if recs[1].Detail.Description != "item 20" || recs[1].To != "Acme Corp" {
		t.Errorf("record = %+v", recs[1])
	}
}

func TestSetKeepsFirstPositionLastValue(t *testing.T) {
	s := NewSet()
	s.AddDocument(sampleDoc("45", "10"))
	s.AddDocument(sampleDoc("46"))
	updated := sampleDoc("45", "10")
	updated.To = "Acme Updated"
	if n := s.AddDocument(updated); n != 1 {
		t.Errorf("AddDocument() = %d", n)
	}

	recs := s.Records()
	if len(recs) != 2 || recs[0].Key != "45-10" || recs[1].Key != "46" {
		t.Fatalf("order = %+v", recs)
	}
	if recs[0].To != "Acme Updated" {
		t.Errorf("To = %q, want last write", recs[0].To)
	}
	if s.Len() != 2 || s.WithDetails() != 1 {
		t.Errorf("Len = %d WithDetails = %d", s.Len(), s.WithDetails())
	}
}

func TestDocumentShape(t *testing.T) {
	s := NewSet()
	s.AddDocument(sampleDoc("46"))
	s.AddDocument(sampleDoc("45", "10"))

	body, err := s.Document()
	if err != nil {
		t.Fatal(err)
	}
	text := string(body)
	if strings.Index(text, `"46"`) > strings.Index(text, `"45-10"`) {
		t.Errorf("keys not in insertion order:\n%s", text)
	}
	for _, want := range []string{`"Detalle": {}`, `"Descripción": "item 10"`, `"Código": ""`, `"FacturarA": "Globex"`} {
		if !strings.Contains(text, want) {
			t.Errorf("document missing %s:\n%s", want, text)
		}
	}

	var parsed map[string]map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
	if err := Validate(body); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"number value", `{"45":{"Fecha":1,"A":"","FacturarA":"","Detalle":{}}}`},
		{"missing Detalle", `{"45":{"Fecha":"","A":"","FacturarA":""}}`},
		{"unknown detail key", `{"45-1":{"Fecha":"","A":"","FacturarA":"","Detalle":{"Foo":"x"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate([]byte(tt.body)); err == nil {
				t.Error("Validate() accepted invalid document")
			}
		})
	}
	if err := Validate([]byte(`{}`)); err != nil {
		t.Errorf("empty document rejected: %v", err)
	}
}
