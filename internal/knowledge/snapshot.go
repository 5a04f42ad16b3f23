package knowledge

import (
	"crypto/sha256"
	"encoding/hex"
)

// SnapshotHash fingerprints a corpus so the seeder can tell whether the store
// already holds the current documents. The hash covers names and contents in
// order; LoadDir sorts by name, so the same files always hash the same.
func SnapshotHash(docs []SourceDocument) string {
	if len(docs) == 0 {
		return "empty"
	}

	h := sha256.New()
	for _, doc := range docs {
		h.Write([]byte(doc.Name))
		h.Write([]byte(doc.Content))
	}

	return hex.EncodeToString(h.Sum(nil))[:16]
}
