package extractor

// Extract parses the text of one purchase order. filename is only used to
// resolve the order number. Missing fields are left empty; Extract never
// fails.
func Extract(text, filename string) Document {
	lines := Sequence(text)
	return Document{
		Order:     ResolveOrder(filename, text),
		Date:      ResolveDate(text),
		To:        ExtractTo(lines),
		InvoiceTo: ExtractInvoiceTo(lines),
		Items:     SegmentItems(lines),
	}
}
