// Package annotate is the named-entity boundary: it attaches entities to
// blocks without reordering or dropping any of them.
package annotate

import (
	"context"

	"ragdocs/internal/core/pipeline"
)

// Noop leaves every block unannotated. Used in raw mode and in tests.
type Noop struct{}

func (Noop) Annotate(_ context.Context, blocks []pipeline.Block) ([]pipeline.Block, error) {
	return blocks, nil
}

// dedupEntities drops repeated (text, label) pairs, keeping first-seen order.
func dedupEntities(entities []pipeline.Entity) []pipeline.Entity {
	if len(entities) < 2 {
		return entities
	}
	seen := make(map[pipeline.Entity]struct{}, len(entities))
	out := entities[:0]
	for _, e := range entities {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
