package extractor

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractTo(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "annotation on its own line",
			lines: []string{"Proveedor X", "A:", "(To)", "Acme Corp", "Av. Reforma 100", "No. Prov: 123"},
			want:  "Acme Corp Av. Reforma 100",
		},
		{
			name:  "inline value",
			lines: []string{"A: (TO) Acme Corp", "No. Prov 1"},
			want:  "Acme Corp",
		},
		{
			name:  "spaced annotation and blank terminator",
			lines: []string{"A:  ( to )", "Beta SA de CV", "", "otro"},
			want:  "Beta SA de CV",
		},
		{
			name:  "whole-text fallback",
			lines: []string{"Enviar a: Acme Corp No. Prov 55"},
			want:  "Acme Corp",
		},
		{
			name:  "absent",
			lines: []string{"Hola", "Mundo"},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTo(tt.lines)
			if got != tt.want {
				t.Errorf("ExtractTo() = %q, want %q", got, tt.want)
			}
			if strings.Contains(strings.ToLower(got), "(to") {
				t.Errorf("annotation leaked into %q", got)
			}
		})
	}
}

func TestExtractInvoiceTo(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "multi-line block",
			lines: []string{"Facturar a: (Invoice to)", "Acme Holdings", "RFC ACM010101", "Incoterms: DAP"},
			want:  "Acme Holdings RFC ACM010101",
		},
		{
			name:  "annotation inside value",
			lines: []string{"Invoice: Foo (INVOICE TO) Bar", "CFDI G03"},
			want:  "Foo Bar",
		},
		{
			name:  "empty block resumes after its window",
			lines: []string{"Facturar a:", "(Invoice to)", "", "Orden 45", "Factura a: Acme Holdings", "CFDI G03"},
			want:  "Acme Holdings",
		},
		{
			name:  "absent",
			lines: []string{"Hola", "Mundo"},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractInvoiceTo(tt.lines); got != tt.want {
				t.Errorf("ExtractInvoiceTo() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlockScanCursor(t *testing.T) {
	lines := []string{"hdr", "A:", "(To)", "Acme", "No. Prov 1"}
	frags, next := toBlock.scan(lines, 1)
	if len(frags) != 1 || frags[0] != "Acme" {
		t.Errorf("frags = %q, want [Acme]", frags)
	}
	if next != 4 {
		t.Errorf("next = %d, want 4", next)
	}
}

func TestBlockWindowIsBounded(t *testing.T) {
	lines := []string{"A:"}
	for i := 0; i < 20; i++ {
		lines = append(lines, "linea")
	}
	frags, next := toBlock.scan(lines, 0)
	if len(frags) != maxBlockLines {
		t.Errorf("got %d fragments, want %d", len(frags), maxBlockLines)
	}
	if next != maxBlockLines+1 {
		t.Errorf("next = %d, want %d", next, maxBlockLines+1)
	}
}

func TestBlockTruncates(t *testing.T) {
	got := ExtractTo([]string{"A: " + strings.Repeat("x ", 400)})
	if n := utf8.RuneCountInString(got); n != maxBlockRunes {
		t.Errorf("len = %d, want %d", n, maxBlockRunes)
	}
}
