package pipeline

import (
	"strings"

	"ragdocs/pkg/logger"
)

// normalizeText collapses whitespace runs to a single space, trims, and
// lowercases, so that OCR artifacts don't defeat exact comparison.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// RemoveNearDuplicates drops blocks whose normalized text exactly matches one
// of the last window kept blocks. The history of kept texts grows unbounded
// across the call while each comparison only inspects its trailing window, so
// two identical blocks further apart than the window are both retained. This
// is a local deduplicator (repeated OCR headers and captions), not a global
// one.
func RemoveNearDuplicates(blocks []Block, window int) []Block {
	seen := make([]string, 0, len(blocks))
	cleaned := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		txt := normalizeText(b.Text)
		if containsTail(seen, txt, window) {
			logger.Debug("duplicate removed (local window): %.50s", txt)
			continue
		}
		cleaned = append(cleaned, b)
		seen = append(seen, txt)
	}
	return cleaned
}

func containsTail(history []string, txt string, window int) bool {
	start := len(history) - window
	if start < 0 {
		start = 0
	}
	for _, h := range history[start:] {
		if h == txt {
			return true
		}
	}
	return false
}
