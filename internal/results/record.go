// Package results accumulates the rows produced by one processing batch.
// Rows are keyed "<order>-<item>" (or "<order>" for an order without items);
// a later row with the same key replaces the earlier one in place.
package results

import (
	"github.com/joseph-ayodele/po-extractor/internal/extractor"
)

// Detail is one line item as stored and exported.
type Detail struct {
	ItemNumber     string
	Code           string
	Description    string
	DeliveryDate   string
	Quantity       string
	Unit           string
	UnitPrice      string
	TotalPrice     string
	Tax            string
	TotalWithTax   string
	Consultant     string
	RepseFolio     string
	Period         string
	Provider       string
	Project        string
	Discount       string
	ConsultantType string
	// RateType has an export column but no extraction rule; always empty.
	RateType string
}

type Record struct {
	Key       string
	Order     string
	Date      string
	To        string
	InvoiceTo string
	// Detail is nil for an order whose document had no line items.
	Detail *Detail
}

// HasDetail reports whether the record carries a line item.
func (r Record) HasDetail() bool { return r.Detail != nil }

func detailFrom(it extractor.LineItem) *Detail {
	return &Detail{
		ItemNumber:     it.ItemNumber,
		Code:           it.Code,
		Description:    it.Description,
		DeliveryDate:   it.DeliveryDate,
		Quantity:       it.Quantity,
		Unit:           it.Unit,
		UnitPrice:      it.UnitPrice,
		TotalPrice:     it.TotalPrice,
		Tax:            it.Tax,
		TotalWithTax:   it.TotalWithTax,
		Consultant:     it.Consultant,
		RepseFolio:     it.RepseFolio,
		Period:         it.Period,
		Provider:       it.Provider,
		Project:        it.Project,
		Discount:       it.Discount,
		ConsultantType: it.ConsultantType,
	}
}

// FromDocument converts an extracted document into records. A document
// without an order number yields none.
func FromDocument(doc extractor.Document) []Record {
	if !doc.HasOrder() {
		return nil
	}
	base := Record{Order: doc.Order, Date: doc.Date, To: doc.To, InvoiceTo: doc.InvoiceTo}
	if len(doc.Items) == 0 {
		base.Key = doc.Order
		return []Record{base}
	}
	out := make([]Record, 0, len(doc.Items))
	for _, it := range doc.Items {
		r := base
		r.Key = doc.Order + "-" + it.ItemNumber
		r.Detail = detailFrom(it)
		out = append(out, r)
	}
	return out
}

// Set is an insertion-ordered collection of records keyed by Record.Key.
type Set struct {
	keys  []string
	byKey map[string]Record
}

func NewSet() *Set {
	return &Set{byKey: make(map[string]Record)}
}

// Put stores r, replacing any record with the same key but keeping the
// key's original position.
func (s *Set) Put(r Record) {
	if _, ok := s.byKey[r.Key]; !ok {
		s.keys = append(s.keys, r.Key)
	}
	s.byKey[r.Key] = r
}

// AddDocument stores every record of doc and returns how many were produced.
func (s *Set) AddDocument(doc extractor.Document) int {
	recs := FromDocument(doc)
	for _, r := range recs {
		s.Put(r)
	}
	return len(recs)
}

func (s *Set) Get(key string) (Record, bool) {
	r, ok := s.byKey[key]
	return r, ok
}

func (s *Set) Len() int { return len(s.keys) }

// WithDetails counts records that carry a line item.
func (s *Set) WithDetails() int {
	n := 0
	for _, k := range s.keys {
		if s.byKey[k].HasDetail() {
			n++
		}
	}
	return n
}

// Records returns the records in first-insertion order.
func (s *Set) Records() []Record {
	out := make([]Record, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.byKey[k])
	}
	return out
}
