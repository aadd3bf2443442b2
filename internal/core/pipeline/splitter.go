package pipeline

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

// Splitter turns one block's text into one or more bounded-size pieces. The
// assembler fans each piece out into its own chunk; it never re-merges or
// re-deduplicates after splitting.
type Splitter interface {
	Split(text string) ([]string, error)
}

// TokenSplitter packs sentences into pieces of at most chunkTokens BPE tokens
// for the configured tokenizer vocabulary. A single sentence longer than the
// budget is hard-split on token boundaries.
type TokenSplitter struct {
	enc         *tiktoken.Tiktoken
	chunkTokens int
}

// NewTokenSplitter resolves the tokenizer vocabulary for the given model name
// (e.g. "gpt-3.5-turbo" -> cl100k_base).
func NewTokenSplitter(tokenizerModel string, chunkTokens int) (*TokenSplitter, error) {
	if chunkTokens <= 0 {
		return nil, fmt.Errorf("chunk token budget must be positive, got %d", chunkTokens)
	}
	enc, err := tiktoken.EncodingForModel(tokenizerModel)
	if err != nil {
		return nil, fmt.Errorf("resolve tokenizer for %q: %w", tokenizerModel, err)
	}
	return &TokenSplitter{enc: enc, chunkTokens: chunkTokens}, nil
}

func (s *TokenSplitter) Split(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var pieces []string
	var cur []string
	curTokens := 0

	flush := func() {
		if len(cur) > 0 {
			pieces = append(pieces, strings.Join(cur, " "))
			cur = cur[:0]
			curTokens = 0
		}
	}

	for _, sentence := range splitSentences(text) {
		tokens := s.enc.Encode(sentence, nil, nil)
		n := len(tokens)

		if n > s.chunkTokens {
			flush()
			// Oversized sentence: slice its token stream directly.
			for start := 0; start < n; start += s.chunkTokens {
				end := start + s.chunkTokens
				if end > n {
					end = n
				}
				piece := strings.TrimSpace(s.enc.Decode(tokens[start:end]))
				if piece != "" {
					pieces = append(pieces, piece)
				}
			}
			continue
		}

		// The joining space costs roughly one extra token per sentence.
		if len(cur) > 0 && curTokens+n+1 > s.chunkTokens {
			flush()
		}
		cur = append(cur, sentence)
		curTokens += n + 1
	}
	flush()

	return pieces, nil
}

// splitSentences breaks text on sentence-ending punctuation followed by
// whitespace, and on paragraph breaks. Good enough for packing; the token
// budget, not the sentence boundary, is the real invariant.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder

	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			out = append(out, s)
		}
		b.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		switch r {
		case '.', '!', '?':
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				flush()
			}
		case '\n':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				flush()
			}
		}
	}
	flush()
	return out
}
