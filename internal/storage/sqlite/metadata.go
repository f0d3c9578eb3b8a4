// ABOUTME: Per-profile metadata persistence (parameter names, values, units)
// ABOUTME: Free-form key/value rows cascading with their owning profile
package sqlite

import (
	"fmt"

	"github.com/oceanloop/argonaut/internal/models"
)

// MetadataStore handles profile metadata persistence
type MetadataStore struct {
	db *DB
}

// NewMetadataStore creates a new MetadataStore
func NewMetadataStore(db *DB) *MetadataStore {
	return &MetadataStore{db: db}
}

// Save stores metadata entries for a profile.
func (s *MetadataStore) Save(profileID int64, entries []models.MetadataEntry) error {
	if len(entries) == 0 {
		return nil
	}

	stmt, err := s.db.Conn().Prepare(`
		INSERT INTO profile_metadata (profile_id, parameter_name, parameter_value, parameter_units)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare metadata insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		if _, err := stmt.Exec(profileID, e.ParameterName, e.ParameterValue, e.ParameterUnits); err != nil {
			return fmt.Errorf("failed to insert metadata %q for profile %d: %w", e.ParameterName, profileID, err)
		}
	}
	return nil
}

// GetByProfile retrieves all metadata entries for a profile.
func (s *MetadataStore) GetByProfile(profileID int64) ([]models.MetadataEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, profile_id, parameter_name, parameter_value, parameter_units
		FROM profile_metadata
		WHERE profile_id = ?
		ORDER BY id
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata for profile %d: %w", profileID, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []models.MetadataEntry
	for rows.Next() {
		var e models.MetadataEntry
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.ParameterName, &e.ParameterValue, &e.ParameterUnits); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
