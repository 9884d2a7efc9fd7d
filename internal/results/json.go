package results

import (
	"bytes"
	"encoding/json"
)

// detalle and entry are the DataOCS.json shape consumed by the frontend and
// spreadsheets built on earlier exports.
type detalle struct {
	Ptda           string `json:"Ptda"`
	Codigo         string `json:"Código"`
	Descripcion    string `json:"Descripción"`
	FEntrega       string `json:"FEntrega"`
	Cantidad       string `json:"Cantidad"`
	Unidad         string `json:"Unidad"`
	PrecioUnitario string `json:"PrecioUnitario"`
	PrecioTotal    string `json:"PrecioTotal"`
	IVA            string `json:"IVA"`
	TotalIVAIncl   string `json:"TotalIVAIncl"`
	Consultoria    string `json:"CONSULTORIA"`
	Repse          string `json:"REPSE"`
	Periodo        string `json:"PERIODO"`
	Proveedor      string `json:"PROVEEDOR"`
	Proyecto       string `json:"PROYECTO"`
	Descuento      string `json:"DESCUENTO"`
	Tipo           string `json:"TIPO"`
}

type entry struct {
	Fecha     string `json:"Fecha"`
	A         string `json:"A"`
	FacturarA string `json:"FacturarA"`
	Detalle   any    `json:"Detalle"`
}

func toEntry(r Record) entry {
	e := entry{Fecha: r.Date, A: r.To, FacturarA: r.InvoiceTo, Detalle: struct{}{}}
	if d := r.Detail; d != nil {
		e.Detalle = &detalle{
			Ptda:           d.ItemNumber,
			Codigo:         d.Code,
			Descripcion:    d.Description,
			FEntrega:       d.DeliveryDate,
			Cantidad:       d.Quantity,
			Unidad:         d.Unit,
			PrecioUnitario: d.UnitPrice,
			PrecioTotal:    d.TotalPrice,
			IVA:            d.Tax,
			TotalIVAIncl:   d.TotalWithTax,
			Consultoria:    d.Consultant,
			Repse:          d.RepseFolio,
			Periodo:        d.Period,
			Proveedor:      d.Provider,
			Proyecto:       d.Project,
			Descuento:      d.Discount,
			Tipo:           d.ConsultantType,
		}
	}
	return e
}

// MarshalJSON renders the set as one object keyed by record key, in
// insertion order. An item-less record has an empty Detalle object.
func (s *Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := json.Marshal(toEntry(s.byKey[k]))
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Document returns the indented DataOCS.json body for s.
func (s *Set) Document() ([]byte, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
