// Package chunker splits text into overlapping token windows.
package chunker

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE used to count tokens.
const DefaultEncoding = "cl100k_base"

// Encoder converts between text and tokens. *tiktoken.Tiktoken satisfies it.
type Encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
	Decode(tokens []int) string
}

// Chunker splits text into windows of at most size tokens, consecutive
// windows sharing overlap tokens.
type Chunker struct {
	enc     Encoder
	size    int
	overlap int
}

// New creates a Chunker over the cl100k_base encoding.
// tiktoken fetches the BPE ranks on first use unless TIKTOKEN_CACHE_DIR holds them.
func New(size, overlap int) (*Chunker, error) {
	enc, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("chunker: load %s: %w", DefaultEncoding, err)
	}
	return NewWithEncoder(enc, size, overlap)
}

// NewWithEncoder creates a Chunker over enc.
func NewWithEncoder(enc Encoder, size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunker: size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunker: overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Chunker{enc: enc, size: size, overlap: overlap}, nil
}

// Split returns the token windows of text. Empty text yields no chunks.
func (c *Chunker) Split(text string) []string {
	tokens := c.enc.Encode(text, nil, nil)
	if len(tokens) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := start + c.size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, c.enc.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}
	return chunks
}

// Count returns the number of tokens in text.
func (c *Chunker) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// RuneEncoder treats every rune as one token. It is the offline fallback
// when the BPE ranks cannot be loaded.
type RuneEncoder struct{}

func (RuneEncoder) Encode(text string, _ []string, _ []string) []int {
	out := make([]int, 0, len(text))
	for _, r := range text {
		out = append(out, int(r))
	}
	return out
}

func (RuneEncoder) Decode(tokens []int) string {
	rs := make([]rune, len(tokens))
	for i, t := range tokens {
		rs[i] = rune(t)
	}
	return string(rs)
}
