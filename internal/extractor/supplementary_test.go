package extractor

import "testing"

func TestScanSupplementary(t *testing.T) {
	lines := []string{
		"Consultoría: Ana Pérez",
		"Folio REPSE: AR1234/2022",
		"Periodo de consultoría: Enero 2024",
		"Proveedor: Tech SA",
		"Proyecto: ERP",
		"Proyecto: ERP fase 2",
		"Descuento: 0%",
		"Tipo de consultor: Senior",
		"11 otra partida",
		"Proveedor: No debe",
	}
	it := LineItem{ItemNumber: "10"}
	scanSupplementary(lines, 0, "10", &it)

	want := LineItem{
		ItemNumber:     "10",
		Consultant:     "Ana Pérez",
		RepseFolio:     "AR1234/2022",
		Period:         "Enero 2024",
		Provider:       "Tech SA",
		Project:        "ERP fase 2",
		Discount:       "0%",
		ConsultantType: "Senior",
	}
	if it != want {
		t.Errorf("got  %+v\nwant %+v", it, want)
	}
}

func TestScanSupplementaryStops(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{name: "bare total", lines: []string{"Total", "Consultoria: Tarde"}},
		{name: "beyond window", lines: append(make([]string, supplementaryLookahead), "Consultoria: Tarde")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var it LineItem
			scanSupplementary(tt.lines, 0, "1", &it)
			if it.Consultant != "" {
				t.Errorf("Consultant = %q, want empty", it.Consultant)
			}
		})
	}
}
