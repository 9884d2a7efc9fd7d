package extractor

import (
	"regexp"
	"strings"
)

// labeledField assigns the value following a loose label to one item field.
type labeledField struct {
	label  *regexp.Regexp
	assign func(it *LineItem, v string)
}

var supplementaryFields = []labeledField{
	{regexp.MustCompile(`(?i)^consultor[ií]a\b[\s:]*(.*)$`), func(it *LineItem, v string) { it.Consultant = v }},
	{regexp.MustCompile(`(?i)(?:folio\s+)?repse\b[\s:]*(.*)$`), func(it *LineItem, v string) { it.RepseFolio = v }},
	{regexp.MustCompile(`(?i)periodo\s+de\s+consultor[ií]a\b[\s:]*(.*)$`), func(it *LineItem, v string) { it.Period = v }},
	{regexp.MustCompile(`(?i)^proveedor\b[\s:]*(.*)$`), func(it *LineItem, v string) { it.Provider = v }},
	{regexp.MustCompile(`(?i)^proyecto\b[\s:]*(.*)$`), func(it *LineItem, v string) { it.Project = v }},
	{regexp.MustCompile(`(?i)^descuento\b[\s:]*(.*)$`), func(it *LineItem, v string) { it.Discount = v }},
	{regexp.MustCompile(`(?i)tipo\s+(?:de\s+)?consultor\b[\s:]*(.*)$`), func(it *LineItem, v string) { it.ConsultantType = v }},
}

// scanSupplementary fills the loosely labeled fields of item from the lines
// that follow its segment. A later match overwrites an earlier one.
func scanSupplementary(lines []string, from int, number string, item *LineItem) {
	end := from + supplementaryLookahead
	for k := from; k < len(lines) && k < end; k++ {
		line := lines[k]
		if n := anchorNumber(line); n != "" && n != number {
			return
		}
		if reBareTotal.MatchString(line) {
			return
		}
		for _, f := range supplementaryFields {
			m := f.label.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if v := strings.TrimSpace(m[1]); v != "" {
				f.assign(item, v)
			}
		}
	}
}
