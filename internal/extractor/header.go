package extractor

import "regexp"

// rule is one entry of a priority-ordered pattern table. The first rule whose
// pattern matches wins; group selects the submatch returned.
type rule struct {
	name    string
	pattern *regexp.Regexp
	group   int
}

func (r rule) apply(s string) (string, bool) {
	m := r.pattern.FindStringSubmatch(s)
	if m == nil || m[r.group] == "" {
		return "", false
	}
	return m[r.group], true
}

func firstMatch(rules []rule, s string) string {
	for _, r := range rules {
		if v, ok := r.apply(s); ok {
			return v
		}
	}
	return ""
}

var reFilenameDigits = regexp.MustCompile(`[0-9]+`)

var orderRules = []rule{
	{name: "order-label", pattern: regexp.MustCompile(`(?i)(?:orden\s+de\s+compra|oc|order|orden)[\s:]*([0-9]+)`), group: 1},
	{name: "number-label", pattern: regexp.MustCompile(`(?i)(?:no\.?|número|numero|#)[\s:]*([0-9]+)`), group: 1},
}

var dateRules = []rule{
	{name: "labeled", pattern: regexp.MustCompile(`(?i)(?:fecha|date)[\s:]*(\d{1,2}[./\-]\d{1,2}[./\-]\d{2,4})`), group: 1},
	{name: "dotted", pattern: regexp.MustCompile(`(\d{1,2}\.\d{1,2}\.\d{4})`), group: 1},
	{name: "day-first", pattern: regexp.MustCompile(`\b(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})\b`), group: 1},
	{name: "year-first", pattern: regexp.MustCompile(`(\d{4}[/\-]\d{1,2}[/\-]\d{1,2})`), group: 1},
}

// ResolveOrder returns the purchase-order number: the first run of digits in
// filename, otherwise the first labeled number in the text.
func ResolveOrder(filename, text string) string {
	if d := reFilenameDigits.FindString(filename); d != "" {
		return d
	}
	return firstMatch(orderRules, text)
}

// ResolveDate returns the header date exactly as written in the text.
func ResolveDate(text string) string {
	return firstMatch(dateRules, text)
}
