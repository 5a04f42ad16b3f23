package chunker

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	s := NewSplitter(500, 100)

	chunks := s.Split("Um texto curto sobre crédito.")
	if len(chunks) != 1 || chunks[0] != "Um texto curto sobre crédito." {
		t.Errorf("chunks = %v", chunks)
	}
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(500, 100)

	if chunks := s.Split(""); chunks != nil {
		t.Errorf("chunks = %v, want nil", chunks)
	}
	if chunks := s.Split("   \n\n  "); chunks != nil {
		t.Errorf("chunks = %v, want nil", chunks)
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	s := NewSplitter(100, 20)

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Frase sobre finanças empresariais. ")
	}

	chunks := s.Split(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("chunk %d exceeds size: %d chars", i, len(c))
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	s := NewSplitter(60, 10)

	text := "Primeiro parágrafo curto.\n\nSegundo parágrafo também curto.\n\nTerceiro parágrafo encerrando o documento."
	chunks := s.Split(text)

	for i, c := range chunks {
		if len(c) > 60 {
			t.Errorf("chunk %d exceeds size: %q", i, c)
		}
	}
	// Every paragraph must survive somewhere.
	joined := strings.Join(chunks, " ")
	for _, want := range []string{"Primeiro parágrafo", "Segundo parágrafo", "Terceiro parágrafo"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in chunks %v", want, chunks)
		}
	}
}

func TestSplitOverlapCarriesContext(t *testing.T) {
	s := NewSplitter(50, 20)

	text := "aaaa bbbb cccc dddd eeee ffff gggg hhhh iiii jjjj kkkk llll mmmm nnnn"
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}

	// Consecutive chunks share at least one word.
	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1])
		tail := prev[len(prev)-1]
		if !strings.Contains(chunks[i], tail) {
			t.Errorf("chunk %d does not overlap with its predecessor: %q -> %q", i, chunks[i-1], chunks[i])
		}
	}
}

func TestSplitUnbrokenRun(t *testing.T) {
	s := NewSplitter(100, 20)

	text := strings.Repeat("x", 350)
	chunks := s.Split(text)

	if len(chunks) < 3 {
		t.Fatalf("expected several chunks for unbroken run, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 100 {
			t.Errorf("chunk %d exceeds size: %d", i, len(c))
		}
	}
}

func TestNewSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, -1)
	if s.chunkSize != DefaultChunkSize || s.chunkOverlap != DefaultChunkOverlap {
		t.Errorf("defaults = (%d, %d)", s.chunkSize, s.chunkOverlap)
	}

	// Overlap must stay below the chunk size.
	s = NewSplitter(50, 80)
	if s.chunkOverlap >= s.chunkSize {
		t.Errorf("overlap %d not below chunk size %d", s.chunkOverlap, s.chunkSize)
	}
}
