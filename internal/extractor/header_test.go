package extractor

import "testing"

func TestResolveOrder(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		text     string
		want     string
	}{
		{name: "filename digits win", filename: "OC_4517984961.pdf", text: "Orden 111", want: "4517984961"},
		{name: "first digits anywhere in filename", filename: "/data/2024/OC-77.pdf", want: "2024"},
		{name: "digits after extension", filename: "orden.pdf.1", text: "Orden 111", want: "1"},
		{name: "order label in text", filename: "orden.pdf", text: "Orden de compra: 1234", want: "1234"},
		{name: "generic number label", filename: "scan.pdf", text: "No. 5678", want: "5678"},
		{name: "absent", filename: "scan.pdf", text: "sin datos", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveOrder(tt.filename, tt.text); got != tt.want {
				t.Errorf("ResolveOrder(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "labeled wins over earlier dotted", text: "Entrega 01.02.2024\nFecha: 15/03/2024", want: "15/03/2024"},
		{name: "dotted", text: "Entrega 01.02.2024", want: "01.02.2024"},
		{name: "dashed day first", text: "emitida 5-3-24", want: "5-3-24"},
		{name: "year first", text: "emitida 2024-03-15", want: "2024-03-15"},
		{name: "absent", text: "sin fecha", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveDate(tt.text); got != tt.want {
				t.Errorf("ResolveDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSequence(t *testing.T) {
	got := Sequence("a\r\nb\rc\n\n  d  ")
	want := []string{"a", "b", "c", "", "d"}
	if len(got) != len(want) {
		t.Fatalf("Sequence() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
