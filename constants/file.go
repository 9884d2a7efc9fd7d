package constants

import "strings"

// FileTypes holds the document formats the extractor CLI accepts.
var FileTypes = []string{"PDF", "TXT"}

// AllowedExtensions holds the file extensions accepted into the inbox.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// Result file extensions.
const (
	ExtPDF  = "pdf"
	ExtCSV  = "csv"
	ExtXLSX = "xlsx"
	ExtJSON = "json"
	ExtTXT  = "txt"
)

// ResultsJSONName is the accumulated result document in the results area.
const ResultsJSONName = "DataOCS.json"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ContentType returns the MIME type stored alongside an object with the given extension.
func ContentType(ext string) string {
	switch NormalizeExt(ext) {
	case ExtPDF:
		return "application/pdf"
	case ExtCSV:
		return "text/csv; charset=utf-8"
	case ExtXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExtJSON:
		return "application/json"
	case ExtTXT:
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}
