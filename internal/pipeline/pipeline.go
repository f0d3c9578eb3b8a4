// ABOUTME: Ingestion pipeline wiring the processor, relational store, and vector index
// ABOUTME: Digest-first dedup, store as source of truth, index failures degrade
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/oceanloop/argonaut/internal/models"
	"github.com/oceanloop/argonaut/internal/netcdf"
	"github.com/oceanloop/argonaut/internal/vector"
)

// Ingestion outcome statuses.
const (
	StatusStored    = "stored"
	StatusDuplicate = "duplicate"
	StatusFailed    = "failed"
)

// Result reports the outcome of ingesting one file.
type Result struct {
	Path             string `json:"path"`
	Status           string `json:"status"`
	ProfileID        int64  `json:"profile_id,omitempty"`
	MeasurementCount int    `json:"measurement_count,omitempty"`
	Message          string `json:"message,omitempty"`
}

// BatchResult aggregates the outcomes of one ingestion batch.
type BatchResult struct {
	BatchID    string   `json:"batch_id"`
	Stored     int      `json:"stored"`
	Duplicates int      `json:"duplicates"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// Store is the relational surface the pipeline works against,
// satisfied by *sqlite.Storage.
type Store interface {
	InsertProfile(p *models.Profile) (int64, bool, error)
	GetProfile(id int64) (*models.Profile, error)
	GetProfileIDByDigest(digest string) (int64, bool, error)
	GetProfilesByIDs(ids []int64) (map[int64]models.Profile, error)
	ListProfileIDs() ([]int64, error)
	InsertMeasurements(profileID int64, ms []models.Measurement) error
	MeasurementsForProfile(profileID int64) ([]models.Measurement, error)
	SaveMetadata(profileID int64, entries []models.MetadataEntry) error
}

// Pipeline coordinates file processing, relational persistence, and
// vector indexing. The relational store is the source of truth; the
// index is derived and rebuildable, so indexing failures degrade
// instead of failing ingestion.
type Pipeline struct {
	storage   Store
	index     *vector.Index
	embedder  vector.Embedder
	processor *netcdf.Processor
}

// New creates a pipeline. embedder may be nil, which disables vector
// indexing; everything else still works.
func New(storage Store, index *vector.Index, embedder vector.Embedder) *Pipeline {
	return &Pipeline{
		storage:   storage,
		index:     index,
		embedder:  embedder,
		processor: netcdf.NewProcessor(),
	}
}

// Processor exposes the file processor for validation-only commands.
func (pl *Pipeline) Processor() *netcdf.Processor {
	return pl.processor
}

// IngestFile runs one file through the full pipeline: digest, dedup
// check, extraction, persistence, then indexing. A failed result
// carries the reason in Message. There is no compensating rollback:
// rows committed before a failure remain, and the digest lookup makes
// a retry of the same bytes report duplicate.
func (pl *Pipeline) IngestFile(ctx context.Context, path string) Result {
	digest, err := FileDigest(path)
	if err != nil {
		return Result{Path: path, Status: StatusFailed, Message: err.Error()}
	}

	// Digest check before any parsing: re-ingesting a known file should
	// cost one hash and one lookup.
	if id, found, err := pl.storage.GetProfileIDByDigest(digest); err != nil {
		return Result{Path: path, Status: StatusFailed, Message: err.Error()}
	} else if found {
		return Result{Path: path, Status: StatusDuplicate, ProfileID: id,
			Message: "content already ingested"}
	}

	profile, measurements, params, err := pl.processor.ProcessFile(path)
	if err != nil {
		return Result{Path: path, Status: StatusFailed, Message: err.Error()}
	}
	profile.ContentDigest = digest

	id, existed, err := pl.storage.InsertProfile(&profile)
	if err != nil {
		return Result{Path: path, Status: StatusFailed, Message: err.Error()}
	}
	if existed {
		// Lost the insert race to a concurrent ingest of the same bytes.
		return Result{Path: path, Status: StatusDuplicate, ProfileID: id,
			Message: "content already ingested"}
	}

	if len(measurements) > 0 {
		if err := pl.storage.InsertMeasurements(id, measurements); err != nil {
			// The profile row stays committed; the digest lookup turns a
			// retry of the same bytes into a duplicate.
			return Result{Path: path, Status: StatusFailed, ProfileID: id,
				Message: fmt.Sprintf("measurements not persisted: %v", err)}
		}
	}
	if err := pl.storage.SaveMetadata(id, params); err != nil {
		log.Printf("[pipeline] profile %d: failed to save metadata: %v", id, err)
	}

	result := Result{Path: path, Status: StatusStored, ProfileID: id,
		MeasurementCount: len(measurements)}

	// A profile whose levels all failed validation is still stored; there
	// is nothing to index for it.
	if len(measurements) == 0 {
		result.Message = "no measurement levels passed validation"
		return result
	}

	profile.ID = id
	if msg := pl.indexProfile(ctx, &profile, measurements); msg != "" {
		result.Message = msg
	}
	return result
}

// IngestBatch ingests every path, tagging the run with a batch id for
// log correlation. Individual failures never stop the batch.
func (pl *Pipeline) IngestBatch(ctx context.Context, paths []string) BatchResult {
	batch := BatchResult{BatchID: uuid.New().String()}
	log.Printf("[pipeline] batch %s: ingesting %d files", batch.BatchID, len(paths))

	for _, path := range paths {
		r := pl.IngestFile(ctx, path)
		batch.Results = append(batch.Results, r)
		switch r.Status {
		case StatusStored:
			batch.Stored++
		case StatusDuplicate:
			batch.Duplicates++
		default:
			batch.Failed++
		}
	}

	log.Printf("[pipeline] batch %s: %d stored, %d duplicates, %d failed",
		batch.BatchID, batch.Stored, batch.Duplicates, batch.Failed)
	return batch
}

// Reindex rebuilds the vector index from the relational store. The
// index is cleared first so deleted profiles disappear from search.
// Returns the number of profiles indexed.
func (pl *Pipeline) Reindex(ctx context.Context) (int, error) {
	if pl.embedder == nil || pl.index == nil {
		return 0, fmt.Errorf("vector indexing is not configured")
	}

	ids, err := pl.storage.ListProfileIDs()
	if err != nil {
		return 0, fmt.Errorf("failed to list profiles: %w", err)
	}
	if err := pl.index.Clear(); err != nil {
		return 0, fmt.Errorf("failed to clear index: %w", err)
	}

	indexed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}

		profile, err := pl.storage.GetProfile(id)
		if err != nil || profile == nil {
			log.Printf("[pipeline] reindex: skipping profile %d: %v", id, err)
			continue
		}
		measurements, err := pl.storage.MeasurementsForProfile(id)
		if err != nil {
			log.Printf("[pipeline] reindex: skipping profile %d: %v", id, err)
			continue
		}
		// Profiles with no accepted levels are never indexed.
		if len(measurements) == 0 {
			continue
		}

		if msg := pl.indexProfile(ctx, profile, measurements); msg != "" {
			log.Printf("[pipeline] reindex: profile %d: %s", id, msg)
			continue
		}
		indexed++
	}
	return indexed, nil
}

// indexProfile embeds the profile summary and adds it to the index.
// Returns a warning message on failure, empty on success or when
// indexing is disabled.
func (pl *Pipeline) indexProfile(ctx context.Context, p *models.Profile, ms []models.Measurement) string {
	if pl.embedder == nil || pl.index == nil {
		return ""
	}

	summary := BuildProfileSummary(p, ms)
	vec, err := pl.embedder.GenerateEmbedding(ctx, summary)
	if err != nil {
		return fmt.Sprintf("stored but not indexed: %v", err)
	}
	if err := pl.index.Add(p.ID, summary, vec); err != nil {
		return fmt.Sprintf("stored but not indexed: %v", err)
	}
	return ""
}
