package constants

import (
	"strings"
)

// Area is one of the three storage locations a purchase order moves through.
type Area string

const (
	Inbox     Area = "inbox"
	Processed Area = "processed"
	Results   Area = "results"
)

var allAreas = []Area{
	Inbox,
	Processed,
	Results,
}

// Areas returns every storage area in pipeline order.
func Areas() []Area {
	out := make([]Area, len(allAreas))
	copy(out, allAreas)
	return out
}

func AsStringSlice() []string {
	result := make([]string, len(allAreas))
	for i, a := range allAreas {
		result[i] = string(a)
	}
	return result
}

// LocalDir is the folder name used for an area on the local filesystem.
func (a Area) LocalDir() string {
	switch a {
	case Inbox:
		return "OCs"
	case Processed:
		return "OCSProcesadas"
	case Results:
		return "OCSResult"
	}
	return ""
}

func CanonicalArea(input string) (Area, bool) {
	if input == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// folder and bucket names used by earlier deployments
	synonyms := map[string]Area{
		"ocs":                      Inbox,
		"pending":                  Inbox,
		"extractor-ocr-ocs":        Inbox,
		"ocsprocesadas":            Processed,
		"procesadas":               Processed,
		"extractor-ocr-procesadas": Processed,
		"ocsresult":                Results,
		"result":                   Results,
		"extractor-ocr-results":    Results,
	}

	if a, ok := synonyms[normalized]; ok {
		return a, true
	}

	for _, a := range allAreas {
		if normalized == string(a) {
			return a, true
		}
	}

	return "", false
}
