package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// LocalProvider is a deterministic feature-hashing embedder. It needs no
// network or model files, which makes it the fallback when no embeddings
// service is configured and the provider of choice for tests and mocks.
// Vectors are L2-normalized so dot product equals cosine similarity.
type LocalProvider struct {
	dimension int
}

func NewLocalProvider(dimension int) *LocalProvider {
	if dimension <= 0 {
		dimension = 384
	}
	return &LocalProvider{dimension: dimension}
}

func (p *LocalProvider) EmbedQuery(_ context.Context, text string) ([]float64, error) {
	return p.embed(text), nil
}

func (p *LocalProvider) EmbedDocuments(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, t := range texts {
		vectors[i] = p.embed(t)
	}
	return vectors, nil
}

func (p *LocalProvider) Dimension() int {
	return p.dimension
}

func (p *LocalProvider) embed(text string) []float64 {
	vector := make([]float64, p.dimension)

	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		bucket := int(h.Sum32()) % p.dimension
		if bucket < 0 {
			bucket += p.dimension
		}
		// Sign from a second hash bit keeps buckets from only accumulating,
		// which would make every long text look similar.
		if h.Sum32()&1 == 0 {
			vector[bucket]++
		} else {
			vector[bucket]--
		}
	}

	var norm float64
	for _, v := range vector {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] /= norm
		}
	}

	return vector
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
