package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var unitWhitelist = map[string]struct{}{
	"DIA": {}, "DÍAS": {}, "HRS": {}, "HR": {}, "HORAS": {},
	"MES": {}, "AÑO": {}, "UNI": {}, "PZA": {},
}

var (
	reQuantityUnit  = regexp.MustCompile(`(\d+[.,]\d{3})\s+(\p{L}{2,5})(?:\P{L}|$)`)
	reQuantity      = regexp.MustCompile(`\d+[.,]\d{3}`)
	reLetterRun     = regexp.MustCompile(`\p{L}+`)
	reHasLetter     = regexp.MustCompile(`\p{L}`)
	reDigitsOnly    = regexp.MustCompile(`^\d+$`)
	reBareAmount    = regexp.MustCompile(`^\d{1,3}(?:,\d{3})*\.\d{2}$`)
	reLeadingNumber = regexp.MustCompile(`^\d+\s+`)
	rePerUnitAmount = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*\.\d{2})\s*/\s*\d+`)

	// date-shaped neighbours of a quantity candidate
	reDateBefore = regexp.MustCompile(`\d{1,2}\.\d{1,2}\.$`)
	reDateAfter  = regexp.MustCompile(`^\d{4}`)
)

var (
	minAmount      = decimal.NewFromInt(100)
	maxQuantityExc = decimal.NewFromInt(1000)
)

// accepted is the fine gate applied after field assignment.
func (it LineItem) accepted() bool {
	return it.ItemNumber != "" && (it.DeliveryDate != "" || it.Quantity != "" || it.UnitPrice != "")
}

func disambiguate(seg segment) LineItem {
	buf := seg.text()
	item := LineItem{
		ItemNumber:   seg.number,
		DeliveryDate: reItemDate.FindString(buf),
	}
	item.Quantity, item.Unit = quantityAndUnit(buf)
	item.Description = description(seg)
	assignAmounts(buf, &item)
	return item
}

func normalizeUnit(u string) string {
	u = strings.ToUpper(u)
	if _, ok := unitWhitelist[u]; ok {
		return u
	}
	return ""
}

func quantityAndUnit(buf string) (qty, unit string) {
	if m := reQuantityUnit.FindStringSubmatch(buf); m != nil {
		return strings.Replace(m[1], ",", ".", 1), normalizeUnit(m[2])
	}
	return looseQuantity(buf), looseUnit(buf)
}

func looseQuantity(buf string) string {
	dates := reItemDate.FindAllStringIndex(buf, -1)
	for _, loc := range reQuantity.FindAllStringIndex(buf, -1) {
		if overlapsAny(loc, dates) {
			continue
		}
		if reDateBefore.MatchString(buf[:loc[0]]) || reDateAfter.MatchString(buf[loc[1]:]) {
			continue
		}
		tok := strings.Replace(buf[loc[0]:loc[1]], ",", ".", 1)
		v, err := decimal.NewFromString(tok)
		if err != nil {
			continue
		}
		if v.IsPositive() && v.LessThan(maxQuantityExc) {
			return tok
		}
	}
	return ""
}

func overlapsAny(loc []int, spans [][]int) bool {
	for _, s := range spans {
		if loc[0] < s[1] && s[0] < loc[1] {
			return true
		}
	}
	return false
}

func looseUnit(buf string) string {
	for _, w := range reLetterRun.FindAllString(buf, -1) {
		n := utf8.RuneCountInString(w)
		if n < 2 || n > 5 || !isUpper(w) {
			continue
		}
		if u := normalizeUnit(w); u != "" {
			return u
		}
	}
	return ""
}

func isUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func description(seg segment) string {
	var parts []string
	for _, line := range seg.lines {
		if !reHasLetter.MatchString(line) || reDigitsOnly.MatchString(line) ||
			reBareItemNumber.MatchString(line) || reItemDate.MatchString(line) ||
			reBareAmount.MatchString(line) {
			continue
		}
		line = strings.TrimSpace(reLeadingNumber.ReplaceAllString(line, ""))
		if utf8.RuneCountInString(line) > 3 {
			parts = append(parts, line)
		}
	}
	if len(parts) > 0 {
		return collapse(strings.Join(parts, " "))
	}

	buf := seg.text()
	if loc := reItemDate.FindStringIndex(buf); loc != nil {
		buf = buf[:loc[0]]
	}
	return collapse(reLeadingNumber.ReplaceAllString(buf, ""))
}

func collapse(s string) string {
	return strings.TrimSpace(reWhitespaceRun.ReplaceAllString(s, " "))
}

func amountValue(tok string) (decimal.Decimal, bool) {
	v, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", ""))
	return v, err == nil
}

// assignAmounts maps the monetary tokens of buf onto the price fields by
// position. Tokens under 100 are incidental numbers, not amounts.
func assignAmounts(buf string, item *LineItem) {
	var amounts []string
	for _, tok := range reAmount.FindAllString(buf, -1) {
		if v, ok := amountValue(tok); ok && v.GreaterThanOrEqual(minAmount) {
			amounts = append(amounts, tok)
		}
	}

	if m := rePerUnitAmount.FindStringSubmatch(buf); m != nil {
		item.UnitPrice = m[1]
	} else if len(amounts) > 0 {
		item.UnitPrice = amounts[0]
	}
	if len(amounts) > 1 {
		item.TotalPrice = amounts[1]
	}
	switch {
	case len(amounts) == 3:
		item.TotalWithTax = amounts[2]
	case len(amounts) >= 4:
		item.Tax = amounts[2]
		item.TotalWithTax = amounts[3]
	}
}
