// ABOUTME: Unified storage facade over the profile, measurement, and metadata stores
// ABOUTME: Single entry point the pipeline and CLI use for all relational access
package sqlite

import (
	"github.com/oceanloop/argonaut/internal/models"
)

// Storage combines all stores with a shared database connection
type Storage struct {
	db           *DB
	Profiles     *ProfileStore
	Measurements *MeasurementStore
	Metadata     *MetadataStore
}

// NewStorage creates a complete storage system at the given path
func NewStorage(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage system (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:           db,
		Profiles:     NewProfileStore(db),
		Measurements: NewMeasurementStore(db),
		Metadata:     NewMetadataStore(db),
	}
}

// Close closes the underlying database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Storage) Path() string {
	return s.db.Path()
}

// InsertProfile persists a profile, returning its id and whether a
// profile with the same content digest already existed.
func (s *Storage) InsertProfile(p *models.Profile) (int64, bool, error) {
	return s.Profiles.Insert(p)
}

// GetProfile retrieves a profile by id, nil if not found.
func (s *Storage) GetProfile(id int64) (*models.Profile, error) {
	return s.Profiles.GetByID(id)
}

// GetProfileIDByDigest looks up the profile owning a content digest.
func (s *Storage) GetProfileIDByDigest(digest string) (int64, bool, error) {
	return s.Profiles.GetIDByDigest(digest)
}

// GetProfilesByIDs batch-fetches profiles keyed by id.
func (s *Storage) GetProfilesByIDs(ids []int64) (map[int64]models.Profile, error) {
	return s.Profiles.GetByIDs(ids)
}

// FilterProfiles retrieves profiles matching the filter, newest first.
func (s *Storage) FilterProfiles(f ProfileFilter) ([]models.Profile, error) {
	return s.Profiles.Filter(f)
}

// NearestProfiles finds located profiles within radiusKm of a point.
func (s *Storage) NearestProfiles(lat, lon, radiusKm float64) ([]NearestProfile, error) {
	return s.Profiles.Nearest(lat, lon, radiusKm)
}

// ListProfileIDs returns every stored profile id, ascending.
func (s *Storage) ListProfileIDs() ([]int64, error) {
	return s.Profiles.ListIDs()
}

// DeleteProfile removes a profile and its dependent rows.
func (s *Storage) DeleteProfile(id int64) error {
	return s.Profiles.Delete(id)
}

// InsertMeasurements stores all measurements for a profile.
func (s *Storage) InsertMeasurements(profileID int64, ms []models.Measurement) error {
	return s.Measurements.InsertBatch(profileID, ms)
}

// MeasurementsForProfile returns a profile's measurements by depth.
func (s *Storage) MeasurementsForProfile(profileID int64) ([]models.Measurement, error) {
	return s.Measurements.GetByProfile(profileID)
}

// SaveMetadata stores metadata entries for a profile.
func (s *Storage) SaveMetadata(profileID int64, entries []models.MetadataEntry) error {
	return s.Metadata.Save(profileID, entries)
}

// MetadataForProfile returns a profile's metadata entries.
func (s *Storage) MetadataForProfile(profileID int64) ([]models.MetadataEntry, error) {
	return s.Metadata.GetByProfile(profileID)
}

// Summary computes aggregate statistics over the store.
func (s *Storage) Summary() (*SummaryStats, error) {
	return s.Profiles.Summary()
}
