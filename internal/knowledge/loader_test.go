package knowledge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDirMissingDirectory(t *testing.T) {
	docs, err := LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatal(err)
	}
	if docs != nil {
		t.Errorf("docs = %v, want nil", docs)
	}
}

func TestLoadDirReadsSupportedFiles(t *testing.T) {
	dir := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("b_taxas.txt", "Taxas de juros.")
	write("a_credito.md", "Linhas de crédito.")
	write("sub/nested.md", "Documento aninhado.")
	write("ignored.pdf", "binário")

	docs, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(docs) != 3 {
		t.Fatalf("docs = %d, want 3", len(docs))
	}

	// Sorted by name, unsupported extensions skipped.
	if docs[0].Name != "a_credito.md" || docs[1].Name != "b_taxas.txt" {
		t.Errorf("order = %q, %q", docs[0].Name, docs[1].Name)
	}
	if docs[2].Name != filepath.Join("sub", "nested.md") {
		t.Errorf("nested name = %q", docs[2].Name)
	}
	if docs[0].Content != "Linhas de crédito." {
		t.Errorf("content = %q", docs[0].Content)
	}
}
