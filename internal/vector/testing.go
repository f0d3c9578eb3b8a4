// ABOUTME: Deterministic fake embedder for tests
// ABOUTME: Hashes words into a small vector so similar texts get similar vectors
package vector

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// FakeEmbedder produces deterministic small vectors without any network
// access. Texts sharing words land in nearby directions, which is
// enough to test ranking.
type FakeEmbedder struct {
	Dim  int
	Fail bool
}

// NewFakeEmbedder returns an embedder producing Dim-sized vectors.
func NewFakeEmbedder(dim int) *FakeEmbedder {
	return &FakeEmbedder{Dim: dim}
}

// GenerateEmbedding hashes each word into one bucket of the vector.
func (f *FakeEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float64, error) {
	if f.Fail {
		return nil, fmt.Errorf("embedding backend unavailable")
	}

	vec := make([]float64, f.Dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vec[int(h.Sum32())%f.Dim] += 1.0
	}
	return vec, nil
}
