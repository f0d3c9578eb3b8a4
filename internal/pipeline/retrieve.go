// ABOUTME: Free-text retrieval joining vector search hits to stored profiles
// ABOUTME: Rank order comes from the index; record truth comes from the store
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/oceanloop/argonaut/internal/models"
)

// maxCandidates caps how many vector hits are joined to the store.
const maxCandidates = 10

// QueryMatch is one retrieval result: the authoritative stored profile
// with its similarity score and the summary text that was matched.
type QueryMatch struct {
	Profile models.Profile `json:"profile"`
	Score   float64        `json:"score"`
	Summary string         `json:"summary"`
}

// Query retrieves the stored profiles most similar to a free-text
// question, best first. An empty index or no surviving candidates
// yields an empty result, not an error.
func (pl *Pipeline) Query(ctx context.Context, text string, limit int) ([]QueryMatch, error) {
	if pl.embedder == nil || pl.index == nil {
		return nil, fmt.Errorf("vector search is not configured")
	}
	if limit <= 0 || limit > maxCandidates {
		limit = maxCandidates
	}

	// A search that cannot run is "no matches", not an error: callers
	// treat the empty set as a valid terminal state.
	queryVec, err := pl.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		log.Printf("[pipeline] query embedding failed: %v", err)
		return []QueryMatch{}, nil
	}

	hits := pl.index.Search(queryVec, limit)
	if len(hits) == 0 {
		return []QueryMatch{}, nil
	}

	ids := make([]int64, len(hits))
	for i, h := range hits {
		ids[i] = h.ProfileID
	}
	profiles, err := pl.storage.GetProfilesByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to join candidates: %w", err)
	}

	// Join in hit order; ids the store no longer has are stale index
	// entries and drop out silently.
	matches := make([]QueryMatch, 0, len(hits))
	for _, h := range hits {
		p, ok := profiles[h.ProfileID]
		if !ok {
			log.Printf("[pipeline] stale index entry for profile %d", h.ProfileID)
			continue
		}
		matches = append(matches, QueryMatch{Profile: p, Score: h.Score, Summary: h.Summary})
	}
	return matches, nil
}

// MeasurementMatch extends a query match with the profile's
// depth-ordered measurements.
type MeasurementMatch struct {
	QueryMatch
	Measurements []models.Measurement `json:"measurements"`
}

// QueryWithMeasurements is Query plus each match's measurement records.
func (pl *Pipeline) QueryWithMeasurements(ctx context.Context, text string, limit int) ([]MeasurementMatch, error) {
	matches, err := pl.Query(ctx, text, limit)
	if err != nil {
		return nil, err
	}

	out := make([]MeasurementMatch, 0, len(matches))
	for _, m := range matches {
		ms, err := pl.storage.MeasurementsForProfile(m.Profile.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load measurements for profile %d: %w", m.Profile.ID, err)
		}
		out = append(out, MeasurementMatch{QueryMatch: m, Measurements: ms})
	}
	return out, nil
}
