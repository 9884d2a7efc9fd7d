package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxBlockLines = 10
	maxBlockRunes = 300
)

var (
	reWhitespaceRun = regexp.MustCompile(`\s+`)
	reOnlyParens    = regexp.MustCompile(`^[()\s]*$`)
)

// blockSpec parameterizes the labeled block scan for one header field.
type blockSpec struct {
	// anchor selects the line that opens the block.
	anchor *regexp.Regexp
	// label is removed (first occurrence) from the anchor line; what remains
	// is the first fragment.
	label *regexp.Regexp
	// annotation is the bilingual hint, e.g. "(To)", stripped everywhere.
	annotation     *regexp.Regexp
	annotationOnly *regexp.Regexp
	terminator     func(line string) bool

	// fallback scans the whole text when no anchor line yields a value.
	fallbackLabel *regexp.Regexp
	fallbackEnd   *regexp.Regexp
	fallbackToEOF bool
}

var reProvLine = regexp.MustCompile(`(?i)^no\.?\s*prov|no\.?\s*prov[\s:]`)

var toBlock = blockSpec{
	anchor:         regexp.MustCompile(`(?i)^a[\s:]+`),
	label:          regexp.MustCompile(`(?i)^a[\s:]+(?:\(\s*to\s*\))?\s*`),
	annotation:     regexp.MustCompile(`(?i)\s*\(\s*to\s*\)\s*`),
	annotationOnly: regexp.MustCompile(`(?i)^\(\s*to\s*\)$`),
	terminator:     reProvLine.MatchString,
	fallbackLabel:  regexp.MustCompile(`(?i)\ba[\s:]+(?:\(\s*to\s*\))?`),
	fallbackEnd:    regexp.MustCompile(`(?i)no\.?\s*prov`),
}

var reInvoiceNextField = regexp.MustCompile(`(?i)^(?:incoterms|cfdi|condiciones|fecha|orden|oc|detalle|partida|f\.?\s*entrega|entregar|moneda|planta)`)

var invoiceBlock = blockSpec{
	anchor:         regexp.MustCompile(`(?i)(?:facturar\s+a|facturar|invoice|factura\s+a)[\s:]+`),
	label:          regexp.MustCompile(`(?i)(?:facturar\s+a|facturar|invoice|factura\s+a)[\s:]+(?:\(\s*invoice\s+to\s*\))?\s*`),
	annotation:     regexp.MustCompile(`(?i)\s*\(\s*invoice\s+to\s*\)\s*`),
	annotationOnly: regexp.MustCompile(`(?i)^\(\s*invoice\s+to\s*\)$`),
	terminator:     reInvoiceNextField.MatchString,
	fallbackLabel:  regexp.MustCompile(`(?i)(?:facturar\s+a|facturar|invoice|factura\s+a)[\s:]+(?:\(\s*invoice\s+to\s*\))?`),
	fallbackEnd:    regexp.MustCompile(`(?i)\n\s*(?:incoterms|cfdi|condiciones|fecha|orden|oc|detalle|partida|f\.?\s*entrega)`),
	fallbackToEOF:  true,
}

// ExtractTo returns the recipient block ("A:" / "(To)").
func ExtractTo(lines []string) string { return extractBlock(lines, toBlock) }

// ExtractInvoiceTo returns the billing block ("Facturar a:" / "(Invoice to)").
func ExtractInvoiceTo(lines []string) string { return extractBlock(lines, invoiceBlock) }

func extractBlock(lines []string, spec blockSpec) string {
	for i := 0; i < len(lines); i++ {
		if !spec.anchor.MatchString(lines[i]) {
			continue
		}
		frags, next := spec.scan(lines, i)
		if len(frags) > 0 {
			return spec.clean(strings.Join(frags, " "))
		}
		// lines up to next held only blanks and annotations
		i = next - 1
	}
	return spec.fallback(strings.Join(lines, "\n"))
}

// scan collects the fragments of the block anchored at line anchor and
// returns them with the index of the first line not consumed.
func (s blockSpec) scan(lines []string, anchor int) ([]string, int) {
	var frags []string

	line := lines[anchor]
	if loc := s.label.FindStringIndex(line); loc != nil {
		rest := strings.TrimSpace(line[:loc[0]] + line[loc[1]:])
		if rest != "" && !s.annotationOnly.MatchString(rest) {
			frags = append(frags, rest)
		}
	}

	j := anchor + 1
	if j < len(lines) && s.annotationOnly.MatchString(lines[j]) {
		j++
	}
	for ; j < len(lines) && j <= anchor+maxBlockLines; j++ {
		next := lines[j]
		if s.terminator(next) {
			break
		}
		if next == "" {
			if len(frags) > 0 {
				break
			}
			continue
		}
		if reOnlyParens.MatchString(next) || s.annotationOnly.MatchString(next) {
			continue
		}
		frags = append(frags, next)
	}
	return frags, j
}

func (s blockSpec) fallback(text string) string {
	loc := s.fallbackLabel.FindStringIndex(text)
	for loc != nil {
		body := text[loc[1]:]
		if end := s.fallbackEnd.FindStringIndex(body); end != nil && strings.TrimSpace(body[:end[0]]) != "" {
			return s.clean(body[:end[0]])
		}
		if s.fallbackToEOF && strings.TrimSpace(body) != "" {
			return s.clean(body)
		}
		next := s.fallbackLabel.FindStringIndex(body)
		if next == nil {
			break
		}
		loc = []int{loc[1] + next[0], loc[1] + next[1]}
	}
	return ""
}

func (s blockSpec) clean(v string) string {
	v = s.annotation.ReplaceAllString(v, " ")
	v = strings.TrimSpace(reWhitespaceRun.ReplaceAllString(v, " "))
	return truncateRunes(v, maxBlockRunes)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
