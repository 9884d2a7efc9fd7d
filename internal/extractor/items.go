package extractor

import (
	"regexp"
	"strings"
)

const (
	itemLookahead          = 5
	supplementaryLookahead = 15
)

var (
	reItemAnchor     = regexp.MustCompile(`^(\d{1,3})\s+`)
	reItemDate       = regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{4}`)
	reAmount         = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}`)
	reBareTotal      = regexp.MustCompile(`(?i)^(?:total|subtotal|suma|grand\s+total)\s*$`)
	reBareItemNumber = regexp.MustCompile(`^\d{1,3}\s*$`)
)

// segment is the buffer accumulated for one item anchor.
type segment struct {
	number string
	lines  []string
	// next is the first line index the lookahead did not consume.
	next int
}

func (s segment) text() string { return strings.Join(s.lines, "\n") }

func (s segment) flags() (dated, priced bool) {
	t := s.text()
	return reItemDate.MatchString(t), len(reAmount.FindAllString(t, 2)) >= 2
}

// complete is the coarse gate: a delivery date and at least two amounts.
func (s segment) complete() bool {
	dated, priced := s.flags()
	return dated && priced
}

func anchorNumber(line string) string {
	if m := reItemAnchor.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// accumulate builds the segment anchored at line i. ok is false when line i
// is not an item anchor.
func accumulate(lines []string, i int) (seg segment, ok bool) {
	number := anchorNumber(lines[i])
	if number == "" {
		return segment{}, false
	}
	seg = segment{number: number, lines: []string{lines[i]}}

	dated, priced := seg.flags()
	j := i + 1
	for ; j < len(lines) && j <= i+itemLookahead && !(dated && priced); j++ {
		line := lines[j]
		if n := anchorNumber(line); n != "" && n != number {
			break
		}
		if (dated || priced) && reBareTotal.MatchString(line) {
			break
		}
		if line == "" || reBareItemNumber.MatchString(line) {
			continue
		}
		seg.lines = append(seg.lines, line)
		dated, priced = seg.flags()
	}
	seg.next = j
	return seg, true
}

// tableEnds reports a bare total line that is not followed by another item.
func tableEnds(lines []string, i int) bool {
	if !reBareTotal.MatchString(lines[i]) {
		return false
	}
	return i+1 >= len(lines) || anchorNumber(lines[i+1]) == ""
}

// SegmentItems walks the lines once and returns every accepted line item in
// document order.
func SegmentItems(lines []string) []LineItem {
	items := make([]LineItem, 0)
	for i := 0; i < len(lines); {
		if len(items) > 0 && tableEnds(lines, i) {
			break
		}
		seg, ok := accumulate(lines, i)
		if !ok {
			i++
			continue
		}
		i = seg.next
		if !seg.complete() {
			continue
		}
		item := disambiguate(seg)
		if !item.accepted() {
			continue
		}
		scanSupplementary(lines, seg.next, seg.number, &item)
		items = append(items, item)
	}
	return items
}
