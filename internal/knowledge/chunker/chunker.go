// Package chunker splits source documents into overlapping text windows for
// indexing. Splitting prefers the strongest boundary available: paragraph
// breaks first, then line breaks, then sentence ends, then words, and falls
// back to raw character cuts only when a single run of text has no boundary
// at all. The overlap between consecutive windows keeps facts that straddle
// a boundary retrievable from at least one chunk.
package chunker

import "strings"

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
)

var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter produces chunks of at most chunkSize characters with chunkOverlap
// characters shared between consecutive chunks.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// Split cuts text into chunks. Whitespace-only input yields no chunks.
func (s *Splitter) Split(text string) []string {
	return s.splitText(text, s.separators)
}

func (s *Splitter) splitText(text string, separators []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{strings.TrimSpace(text)}
	}

	// Pick the strongest separator that actually occurs in this text.
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	if separator == "" {
		return s.hardCut(text)
	}

	splits := splitAfter(text, separator)

	var chunks []string
	var pending []string
	for _, piece := range splits {
		if len(piece) <= s.chunkSize {
			pending = append(pending, piece)
			continue
		}
		// An oversized piece interrupts the merge window; recurse into it
		// with the weaker separators.
		if len(pending) > 0 {
			chunks = append(chunks, s.merge(pending)...)
			pending = nil
		}
		chunks = append(chunks, s.splitText(piece, remaining)...)
	}
	if len(pending) > 0 {
		chunks = append(chunks, s.merge(pending)...)
	}

	return chunks
}

// merge packs consecutive small splits into windows of at most chunkSize,
// carrying the last splits within the overlap budget into the next window.
func (s *Splitter) merge(splits []string) []string {
	var chunks []string
	var window []string
	total := 0

	emit := func() {
		if c := strings.TrimSpace(strings.Join(window, "")); c != "" {
			chunks = append(chunks, c)
		}
	}

	for _, piece := range splits {
		if total+len(piece) > s.chunkSize && len(window) > 0 {
			emit()
			for len(window) > 0 && (total > s.chunkOverlap || total+len(piece) > s.chunkSize) {
				total -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += len(piece)
	}
	emit()

	return chunks
}

// hardCut slices text that contains no usable boundary into fixed windows.
func (s *Splitter) hardCut(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.chunkOverlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if c := strings.TrimSpace(string(runes[start:end])); c != "" {
			chunks = append(chunks, c)
		}
		if end == len(runes) {
			break
		}
	}

	return chunks
}

// splitAfter splits text keeping the separator attached to the preceding
// piece, so rejoining pieces reproduces the original text.
func splitAfter(text, separator string) []string {
	parts := strings.SplitAfter(text, separator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
