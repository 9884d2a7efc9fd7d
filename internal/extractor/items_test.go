package extractor

import "testing"

func TestAccumulateStopsWhenBothFlagsSeen(t *testing.T) {
	lines := []string{
		"10 Servicio",
		"01.02.2024 1.000 DIA 1,000.00 2,000.00",
		"Consultoria: X",
	}
	seg, ok := accumulate(lines, 0)
	if !ok {
		t.Fatal("line 0 should be an anchor")
	}
	if seg.number != "10" || len(seg.lines) != 2 || seg.next != 2 {
		t.Errorf("segment = %+v", seg)
	}
	if _, ok := accumulate(lines, 2); ok {
		t.Error("label line treated as anchor")
	}
}

func TestAccumulateStopsAtOtherAnchor(t *testing.T) {
	lines := []string{"3 de 5", "20 Soporte"}
	seg, _ := accumulate(lines, 0)
	if seg.next != 1 || len(seg.lines) != 1 {
		t.Errorf("segment = %+v", seg)
	}
}

func TestSegmentItems(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		numbers []string
	}{
		{
			name:    "date without prices is dropped",
			lines:   []string{"1 Pagina", "01.02.2024", "Sin precio"},
			numbers: nil,
		},
		{
			name: "page number anchor skipped",
			lines: []string{
				"3 de 5",
				"20 Soporte",
				"05.03.2024 2.000 HRS 1,200.00 2,400.00",
			},
			numbers: []string{"20"},
		},
		{
			name: "subtotal followed by item keeps going",
			lines: []string{
				"10 A item",
				"01.02.2024 1.000 UNI 1,000.00 2,000.00",
				"Subtotal",
				"11 Otro",
				"02.02.2024 1.000 UNI 3,000.00 6,000.00",
				"Total",
				"",
				"99 Pie 01.01.2024 1,000.00 2,000.00",
			},
			numbers: []string{"10", "11"},
		},
		{
			name: "description starting with total is kept",
			lines: []string{
				"10 Servicio",
				"01.02.2024",
				"Totalmente administrado",
				"1,000.00 2,000.00",
			},
			numbers: []string{"10"},
		},
		{
			name:    "total before any item does not stop",
			lines:   []string{"Total", "", "5 Renta", "01.02.2024 1.000 MES 9,000.00 9,000.00"},
			numbers: []string{"5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := SegmentItems(tt.lines)
			if len(items) != len(tt.numbers) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.numbers))
			}
			for i, n := range tt.numbers {
				if items[i].ItemNumber != n {
					t.Errorf("item %d number = %q, want %q", i, items[i].ItemNumber, n)
				}
			}
		})
	}
}

func TestSegmentItemsQuantityAndUnit(t *testing.T) {
	items := SegmentItems([]string{
		"20 Soporte",
		"05.03.2024 2.000 HRS 1,200.00 2,400.00",
	})
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	it := items[0]
	if it.Quantity != "2.000" || it.Unit != "HRS" || it.UnitPrice != "1,200.00" || it.TotalPrice != "2,400.00" {
		t.Errorf("item = %+v", it)
	}
	if it.Tax != "" || it.TotalWithTax != "" {
		t.Errorf("unexpected tax fields: %+v", it)
	}
}

func TestSegmentItemsQuantityBesidePrice(t *testing.T) {
	items := SegmentItems([]string{
		"10 Servicio mensual",
		"01.02.2024 5,221.82 57,439.00",
	})
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].Quantity != "5.221" {
		t.Errorf("quantity = %q, want %q", items[0].Quantity, "5.221")
	}
}
