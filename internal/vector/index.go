// ABOUTME: In-memory vector index with cosine similarity search
// ABOUTME: Persists entries as a JSON snapshot next to the relational database
package vector

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ExpectedDimension is the embedding size of OpenAI text-embedding-3-small
const ExpectedDimension = 1536

// SkipDimensionValidation can be set to true in tests to allow small vectors
var SkipDimensionValidation = false

// Entry is one indexed profile: its embedding plus the summary text the
// embedding was computed from.
type Entry struct {
	ProfileID int64     `json:"profile_id"`
	Summary   string    `json:"summary"`
	Vector    []float64 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResult is a profile matched by similarity search.
type SearchResult struct {
	ProfileID int64   `json:"profile_id"`
	Score     float64 `json:"score"`
	Summary   string  `json:"summary"`
}

// Index holds all entries in memory and snapshots them to disk. The
// corpus is small enough (one entry per profile) that a linear scan
// beats the bookkeeping of an approximate index.
type Index struct {
	mu      sync.RWMutex
	path    string
	entries map[int64]Entry
}

// OpenIndex loads the snapshot at path, or starts empty if none exists.
func OpenIndex(path string) (*Index, error) {
	idx := &Index{
		path:    path,
		entries: make(map[int64]Entry),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read vector index: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse vector index: %w", err)
	}
	for _, e := range entries {
		idx.entries[e.ProfileID] = e
	}
	return idx, nil
}

// NewIndexInMemory creates an index with no backing snapshot (for testing)
func NewIndexInMemory() *Index {
	return &Index{entries: make(map[int64]Entry)}
}

// Add indexes a profile's embedding, replacing any previous entry for
// the same profile id.
func (idx *Index) Add(profileID int64, summary string, vec []float64) error {
	if !SkipDimensionValidation && len(vec) != ExpectedDimension {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", ExpectedDimension, len(vec))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries[profileID] = Entry{
		ProfileID: profileID,
		Summary:   summary,
		Vector:    vec,
		CreatedAt: time.Now(),
	}
	return idx.save()
}

// Remove drops a profile's entry. Removing an unknown id is a no-op.
func (idx *Index) Remove(profileID int64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.entries[profileID]; !ok {
		return nil
	}
	delete(idx.entries, profileID)
	return idx.save()
}

// Clear drops every entry. Used before a full reindex pass.
func (idx *Index) Clear() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = make(map[int64]Entry)
	return idx.save()
}

// Search returns up to maxResults entries ranked by cosine similarity
// to the query vector, best first. An empty index yields no results.
func (idx *Index) Search(queryVector []float64, maxResults int) []SearchResult {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]SearchResult, 0, len(idx.entries))
	for _, e := range idx.entries {
		results = append(results, SearchResult{
			ProfileID: e.ProfileID,
			Score:     cosineSimilarity(queryVector, e.Vector),
			Summary:   e.Summary,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// Len returns the number of indexed profiles.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Has reports whether a profile is indexed.
func (idx *Index) Has(profileID int64) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.entries[profileID]
	return ok
}

// save writes the snapshot via a temp file and rename so a crash never
// leaves a truncated index. Callers hold the write lock.
func (idx *Index) save() error {
	if idx.path == "" {
		return nil
	}

	entries := make([]Entry, 0, len(idx.entries))
	for _, e := range idx.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProfileID < entries[j].ProfileID
	})

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode vector index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(idx.path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	tmp := idx.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write vector index: %w", err)
	}
	if err := os.Rename(tmp, idx.path); err != nil {
		return fmt.Errorf("failed to replace vector index: %w", err)
	}
	return nil
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
