package extractor

import "testing"

func TestAssignAmounts(t *testing.T) {
	tests := []struct {
		name                            string
		buf                             string
		unit, total, tax, totalWithTax string
	}{
		{
			name: "three amounts skip tax",
			buf:  "1,000.00 2,000.00 2,320.00",
			unit: "1,000.00", total: "2,000.00", totalWithTax: "2,320.00",
		},
		{
			name: "four amounts",
			buf:  "1,000.00 2,000.00 320.00 2,320.00",
			unit: "1,000.00", total: "2,000.00", tax: "320.00", totalWithTax: "2,320.00",
		},
		{
			name: "extra amounts ignored",
			buf:  "1,000.00 2,000.00 320.00 2,320.00 9,999.00",
			unit: "1,000.00", total: "2,000.00", tax: "320.00", totalWithTax: "2,320.00",
		},
		{
			name: "small numbers filtered",
			buf:  "5.00 1,000.00 2,000.00",
			unit: "1,000.00", total: "2,000.00",
		},
		{
			name: "per-unit notation",
			buf:  "3,000.00 1,500.00 / 1 480.00 3,480.00",
			unit: "1,500.00", total: "1,500.00", tax: "480.00", totalWithTax: "3,480.00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var it LineItem
			assignAmounts(tt.buf, &it)
			if it.UnitPrice != tt.unit || it.TotalPrice != tt.total || it.Tax != tt.tax || it.TotalWithTax != tt.totalWithTax {
				t.Errorf("got unit=%q total=%q tax=%q totalWithTax=%q", it.UnitPrice, it.TotalPrice, it.Tax, it.TotalWithTax)
			}
		})
	}
}

func TestQuantityAndUnit(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		qty  string
		unit string
	}{
		{name: "combined", buf: "01.02.2024  11.000 DIA  5,221.82", qty: "11.000", unit: "DIA"},
		{name: "comma decimal", buf: "3,500 hrs", qty: "3.500", unit: "HRS"},
		{name: "accented unit", buf: "1.000 AÑO", qty: "1.000", unit: "AÑO"},
		{name: "unknown unit dropped", buf: "1.000 LOTE", qty: "1.000", unit: ""},
		{name: "day and month before rejected", buf: "12.05.3,500 x 8.000", qty: "8.000"},
		{name: "year digits after rejected", buf: "lote 5.1232024 x 8.000", qty: "8.000"},
		{name: "date digits never a quantity", buf: "15.03.2024 HRS", qty: "", unit: "HRS"},
		{name: "price fragment accepted", buf: "01.02.2024 5,221.82 servicio", qty: "5.221"},
		{name: "digit neighbour kept", buf: "ref 1.02.150 x 8.000", qty: "02.150"},
		{name: "too large", buf: "1500.000 x 2.000", qty: "2.000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, unit := quantityAndUnit(tt.buf)
			if qty != tt.qty || unit != tt.unit {
				t.Errorf("quantityAndUnit(%q) = (%q, %q), want (%q, %q)", tt.buf, qty, unit, tt.qty, tt.unit)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name: "wrapped lines joined",
			lines: []string{
				"10  Servicio de consultoría",
				"especializada   en SAP",
				"01.02.2024 11.000 DIA 5,221.82 57,439.00",
			},
			want: "Servicio de consultoría especializada en SAP",
		},
		{
			name:  "fallback before the date",
			lines: []string{"7 Licencia 01.02.2024 1.000 UNI 1,000.00 2,000.00"},
			want:  "Licencia",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := description(segment{lines: tt.lines}); got != tt.want {
				t.Errorf("description() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAccepted(t *testing.T) {
	if (LineItem{ItemNumber: "1"}).accepted() {
		t.Error("item without date, quantity or price accepted")
	}
	if !(LineItem{ItemNumber: "1", Quantity: "1.000"}).accepted() {
		t.Error("item with quantity rejected")
	}
	if (LineItem{UnitPrice: "100.00"}).accepted() {
		t.Error("item without number accepted")
	}
}
