package pipeline

import "strings"

// MergeSmallBlocks coalesces undersized blocks (fewer than minWords
// whitespace-split words) into neighboring blocks on the same page, unioning
// their entity sets. Merging never crosses a page boundary; that would
// corrupt page provenance. The accumulation state is a single pending buffer
// owned by this function: nil means empty, non-nil means accumulating.
func MergeSmallBlocks(blocks []Block, minWords int) []Block {
	merged := make([]Block, 0, len(blocks))
	var pending *Block

	for _, b := range blocks {
		txt := strings.TrimSpace(b.Text)
		wordCount := len(strings.Fields(txt))

		if wordCount < minWords {
			switch {
			case pending == nil:
				pending = copyBlock(b)
			case pending.Page == b.Page:
				pending.Text += " " + txt
				pending.Entities = unionEntities(pending.Entities, b.Entities)
			default:
				merged = append(merged, *pending)
				pending = copyBlock(b)
			}
			continue
		}

		switch {
		case pending == nil:
			merged = append(merged, b)
		case pending.Page == b.Page:
			// The combined block keeps the buffer's type, page and filename;
			// only the text and entity set absorb the larger neighbor.
			pending.Text += " " + txt
			pending.Entities = unionEntities(pending.Entities, b.Entities)
			merged = append(merged, *pending)
			pending = nil
		default:
			merged = append(merged, *pending)
			merged = append(merged, b)
			pending = nil
		}
	}

	// A trailing buffer never found a qualifying neighbor; emit it even if
	// still under minWords.
	if pending != nil {
		merged = append(merged, *pending)
	}
	return merged
}

func copyBlock(b Block) *Block {
	c := b
	c.Entities = append([]Entity(nil), b.Entities...)
	return &c
}

// unionEntities appends the entities from src that are not already present in
// dst, comparing by the (text, label) pair. First-seen order is preserved and
// dst never ends up with two equal pairs.
func unionEntities(dst, src []Entity) []Entity {
	existing := make(map[Entity]struct{}, len(dst))
	for _, e := range dst {
		existing[e] = struct{}{}
	}
	for _, e := range src {
		if _, ok := existing[e]; ok {
			continue
		}
		existing[e] = struct{}{}
		dst = append(dst, e)
	}
	return dst
}
