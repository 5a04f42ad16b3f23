package knowledge

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unidoc/unioffice/document"
)

// SourceDocument is one knowledge base file, named by its path relative to
// the base directory.
type SourceDocument struct {
	Name    string
	Content string
}

// LoadDir reads every .md, .txt and .docx file under baseDir. A missing
// directory yields an empty corpus, not an error, so a fresh deployment can
// boot without a knowledge base on disk.
func LoadDir(baseDir string) ([]SourceDocument, error) {
	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		return nil, nil
	}

	var docs []SourceDocument
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		var content string
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".txt":
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			content = string(raw)
		case ".docx":
			content, err = readDocx(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
		default:
			return nil
		}

		name, err := filepath.Rel(baseDir, path)
		if err != nil {
			name = filepath.Base(path)
		}

		docs = append(docs, SourceDocument{Name: name, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func readDocx(path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var b strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			b.WriteString(run.Text())
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
