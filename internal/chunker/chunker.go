package chunker

import (
	"fmt"
	"strings"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// Split cuts text into fixed-stride overlapping windows of at most size
// runes, advancing by size-overlap each step. The final chunk may be
// shorter. Empty or whitespace-only input yields no chunks.
//
// The splitter is deliberately unaware of word or sentence boundaries;
// chunks may cut tokens mid-word.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunker: invalid parameters: size=%d overlap=%d (need size > overlap >= 0)", size, overlap)
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil, nil
	}

	stride := size - overlap
	var chunks []string
	for i := 0; i < len(runes); i += stride {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks, nil
}
