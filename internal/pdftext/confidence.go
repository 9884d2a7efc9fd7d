package pdftext

import (
	"regexp"
	"strings"
)

var (
	reDottedDate = regexp.MustCompile(`\b\d{1,2}\.\d{1,2}\.\d{4}\b`)
	reAmount     = regexp.MustCompile(`\d{1,3}(,\d{3})*\.\d{2}`)
	reOrderLabel = regexp.MustCompile(`(?i)\b(orden\s+de\s+compra|purchase\s+order|oc)\b`)
	reBlockLabel = regexp.MustCompile(`(?im)^\s*(a|facturar\s+a|invoice)[\s:]`)
)

// heuristicConfidence scores decoded text by the purchase-order artifacts it
// carries. Text that kept its line structure scores higher than text that was
// flattened into a few long lines.
func heuristicConfidence(txt string) float32 {
	score := float32(0.1) // base
	if reDottedDate.MatchString(txt) {
		score += 0.2
	}
	if len(reAmount.FindAllString(txt, 2)) == 2 {
		score += 0.2
	}
	if reOrderLabel.MatchString(txt) {
		score += 0.15
	}
	if reBlockLabel.MatchString(txt) {
		score += 0.15
	}
	if lines := strings.Count(txt, "\n"); lines >= 10 {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
