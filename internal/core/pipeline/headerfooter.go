package pipeline

// RemoveHeadersFooters drops every page-footer block and collapses repeated
// page-header blocks to the first one seen.
//
// The seen-header flag spans the whole call, not a single page: once a header
// has been kept, all later headers are dropped regardless of page. Documents
// whose header text differs per page (chapter titles) therefore lose every
// header after the first. Known characteristic, pending product clarification.
func RemoveHeadersFooters(blocks []Block) []Block {
	seenHeader := false
	cleaned := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		switch b.Type {
		case BlockPageFooter:
			continue
		case BlockPageHeader:
			if seenHeader {
				continue
			}
			seenHeader = true
		}
		cleaned = append(cleaned, b)
	}
	return cleaned
}
