// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunker

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE vocabulary used for token counting.
// It matches the tokenizer family of the embedding models the worker targets.
const DefaultEncoding = "cl100k_base"

// defaultSeparators lists split boundaries in preference order: paragraph
// breaks, line breaks, sentence ends, words, and finally raw token windows.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter splits text into chunks of at most chunkSize tokens, with
// adjacent chunks overlapping by roughly chunkOverlap tokens.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
	enc          *tiktoken.Tiktoken
}

// Option configures a Splitter.
type Option func(*Splitter) error

// WithSeparators overrides the boundary preference list. The empty string,
// if present, must be last; it stands for the raw token-window fallback.
func WithSeparators(separators []string) Option {
	return func(s *Splitter) error {
		if len(separators) > 0 {
			s.separators = separators
		}
		return nil
	}
}

// WithEncoding selects a different tiktoken vocabulary for token counting.
func WithEncoding(name string) Option {
	return func(s *Splitter) error {
		enc, err := tiktoken.GetEncoding(name)
		if err != nil {
			return err
		}
		s.enc = enc
		return nil
	}
}

// NewSplitter creates a Splitter with the given token budget and overlap.
// chunkSize must be positive and chunkOverlap must be in [0, chunkSize).
func NewSplitter(chunkSize, chunkOverlap int, opts ...Option) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, ErrInvalidOverlap
	}

	enc, err := tiktoken.GetEncoding(DefaultEncoding)
	if err != nil {
		return nil, err
	}

	s := &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
		enc:          enc,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Split breaks text into ordered chunks. Every chunk's token count is at
// most the configured chunk size. Whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []string
	for _, chunk := range s.splitRecursive(text, s.separators) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// tokenLen measures text in BPE tokens.
func (s *Splitter) tokenLen(text string) int {
	return len(s.enc.Encode(text, nil, nil))
}

// splitRecursive splits text on the first separator that occurs in it,
// merges the pieces back up to the token budget, and recurses with the
// remaining separators on any piece that is still too large.
func (s *Splitter) splitRecursive(text string, separators []string) []string {
	// Pick the first separator present in the text. The empty-string entry
	// always matches and triggers the token-window fallback.
	sep := separators[len(separators)-1]
	var rest []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return s.splitByTokens(text)
	}

	var final []string
	var good []string
	for _, piece := range strings.Split(text, sep) {
		if s.tokenLen(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}

		// Flush what fits before descending into the oversized piece.
		if len(good) > 0 {
			final = append(final, s.mergeSplits(good, sep)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, s.splitByTokens(piece)...)
		} else {
			final = append(final, s.splitRecursive(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.mergeSplits(good, sep)...)
	}
	return final
}

// mergeSplits greedily joins pieces up to the chunk budget. When a chunk is
// emitted, pieces are dropped from the front until at most chunkOverlap
// tokens remain; those carry over into the next chunk.
func (s *Splitter) mergeSplits(splits []string, sep string) []string {
	sepLen := s.tokenLen(sep)

	var chunks []string
	var current []string
	total := 0

	for _, piece := range splits {
		pieceLen := s.tokenLen(piece)

		if len(current) > 0 && total+pieceLen+sepLen > s.chunkSize {
			chunks = append(chunks, s.emit(current, sep)...)

			// Back up so the next chunk starts inside the overlap window.
			for len(current) > 0 && (total > s.chunkOverlap ||
				total+pieceLen+sepLen > s.chunkSize) {
				total -= s.tokenLen(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}

		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, piece)
		total += pieceLen
	}

	if len(current) > 0 {
		chunks = append(chunks, s.emit(current, sep)...)
	}
	return chunks
}

// emit joins accumulated pieces into one chunk. Token counts are not exactly
// additive across BPE boundaries, so if the joined text lands over budget it
// is re-cut on token windows to keep the size guarantee.
func (s *Splitter) emit(pieces []string, sep string) []string {
	joined := strings.Join(pieces, sep)
	if s.tokenLen(joined) <= s.chunkSize {
		return []string{joined}
	}
	return s.splitByTokens(joined)
}

// splitByTokens is the last-resort splitter: it cuts text into windows of
// chunkSize tokens advancing by chunkSize-chunkOverlap per step.
func (s *Splitter) splitByTokens(text string) []string {
	ids := s.enc.Encode(text, nil, nil)
	if len(ids) <= s.chunkSize {
		return []string{text}
	}

	stride := s.chunkSize - s.chunkOverlap
	var out []string
	for start := 0; start < len(ids); start += stride {
		end := start + s.chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, s.enc.Decode(ids[start:end]))
		if end == len(ids) {
			break
		}
	}
	return out
}
