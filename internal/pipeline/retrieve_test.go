// ABOUTME: Tests for free-text retrieval and the index-to-store join
// ABOUTME: Covers ranking, empty index, candidate cap, and stale entries
package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/oceanloop/argonaut/internal/netcdf"
	"github.com/oceanloop/argonaut/internal/storage/sqlite"
	"github.com/oceanloop/argonaut/internal/vector"
)

func ingestN(t *testing.T, pl *Pipeline, datasets map[string]*netcdf.FakeDataset) map[string]int64 {
	t.Helper()
	dir := t.TempDir()
	ids := make(map[string]int64)
	for name := range datasets {
		path := writeProfileFile(t, dir, name, []byte("content-"+name))
		r := pl.IngestFile(context.Background(), path)
		if r.Status != StatusStored {
			t.Fatalf("ingest %s: %q (%s)", name, r.Status, r.Message)
		}
		ids[name] = r.ProfileID
	}
	return ids
}

func TestQuery_RanksAndJoins(t *testing.T) {
	warm := standardDataset()
	cold := netcdf.NewFakeDataset(map[string]any{
		"PLATFORM_NUMBER": "5904321",
		"LATITUDE":        []float64{60.0},
		"LONGITUDE":       []float64{-10.0},
		"PRES":            []float64{5, 500},
		"TEMP":            []float64{4.0, 2.1},
		"PSAL":            []float64{34.0, 34.9},
	})
	pl, _, _ := testPipeline(t, map[string]*netcdf.FakeDataset{
		"warm.nc": warm,
		"cold.nc": cold,
	})
	ids := ingestN(t, pl, map[string]*netcdf.FakeDataset{"warm.nc": warm, "cold.nc": cold})

	// The fake embedder matches on shared words; a query echoing one
	// profile's summary words lands on that profile first.
	matches, err := pl.Query(context.Background(), "float 2902746 cycle 12", 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Profile.ID != ids["warm.nc"] {
		t.Errorf("best match profile = %d, want %d", matches[0].Profile.ID, ids["warm.nc"])
	}
	if matches[0].Score < matches[1].Score {
		t.Error("matches not ranked best first")
	}
	if matches[0].Profile.FloatID != "2902746" {
		t.Errorf("joined FloatID = %q, want 2902746", matches[0].Profile.FloatID)
	}
	if matches[0].Summary == "" {
		t.Error("match should carry the indexed summary text")
	}
}

func TestQuery_EmptyIndexYieldsEmptyResult(t *testing.T) {
	pl, _, _ := testPipeline(t, nil)
	matches, err := pl.Query(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches from empty index, want 0", len(matches))
	}
}

func TestQuery_CapsCandidates(t *testing.T) {
	datasets := make(map[string]*netcdf.FakeDataset)
	for i := 0; i < 15; i++ {
		datasets[fmt.Sprintf("p%02d.nc", i)] = standardDataset()
	}
	pl, _, _ := testPipeline(t, datasets)
	ingestN(t, pl, datasets)

	// Asking for more than the cap still returns at most the cap.
	matches, err := pl.Query(context.Background(), "ocean profile", 100)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) != maxCandidates {
		t.Errorf("got %d matches, want cap %d", len(matches), maxCandidates)
	}

	matches, err = pl.Query(context.Background(), "ocean profile", 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("got %d matches, want 3", len(matches))
	}
}

func TestQuery_StaleIndexEntriesDropOut(t *testing.T) {
	ds := standardDataset()
	pl, storage, index := testPipeline(t, map[string]*netcdf.FakeDataset{"a.nc": ds})
	ids := ingestN(t, pl, map[string]*netcdf.FakeDataset{"a.nc": ds})

	// Delete from the store but not the index: the join must skip the
	// stale hit instead of surfacing a phantom profile.
	if err := storage.DeleteProfile(ids["a.nc"]); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}
	if !index.Has(ids["a.nc"]) {
		t.Fatal("test setup: index entry should still exist")
	}

	matches, err := pl.Query(context.Background(), "ocean profile", 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0 after store deletion", len(matches))
	}
}

func TestQuery_WithoutEmbedderErrors(t *testing.T) {
	pl := New(nil, nil, nil)
	if _, err := pl.Query(context.Background(), "anything", 5); err == nil {
		t.Error("expected error when vector search is not configured")
	}
}

func TestQuery_EmbedFailureYieldsEmptyResult(t *testing.T) {
	storage, err := sqlite.NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })

	pl := New(storage, vector.NewIndexInMemory(), &vector.FakeEmbedder{Dim: 16, Fail: true})
	matches, err := pl.Query(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Query() error = %v, want degraded empty result", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
}

func TestQueryWithMeasurements(t *testing.T) {
	ds := standardDataset()
	pl, _, _ := testPipeline(t, map[string]*netcdf.FakeDataset{"a.nc": ds})
	ingestN(t, pl, map[string]*netcdf.FakeDataset{"a.nc": ds})

	matches, err := pl.QueryWithMeasurements(context.Background(), "ocean profile", 5)
	if err != nil {
		t.Fatalf("QueryWithMeasurements() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if len(matches[0].Measurements) != 3 {
		t.Errorf("got %d measurements, want 3", len(matches[0].Measurements))
	}
	// Depth-ordered, shallowest first.
	if *matches[0].Measurements[0].Depth != 5 {
		t.Errorf("first depth = %v, want 5", *matches[0].Measurements[0].Depth)
	}
}
