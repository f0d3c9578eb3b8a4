// ABOUTME: Measurement persistence operations
// ABOUTME: Batch insert tied to a profile id and depth-ordered retrieval
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/oceanloop/argonaut/internal/models"
)

// MeasurementStore handles measurement persistence
type MeasurementStore struct {
	db *DB
}

// NewMeasurementStore creates a new MeasurementStore
func NewMeasurementStore(db *DB) *MeasurementStore {
	return &MeasurementStore{db: db}
}

// InsertBatch inserts all measurements for a profile through one prepared
// statement. Measurements are immutable after insertion; there is no
// update path.
func (s *MeasurementStore) InsertBatch(profileID int64, measurements []models.Measurement) error {
	if len(measurements) == 0 {
		return nil
	}

	stmt, err := s.db.Conn().Prepare(`
		INSERT INTO measurements
		(profile_id, pressure, temperature, salinity, depth,
		 oxygen, nitrate, ph, chlorophyll, quality_flag)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare measurement insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, m := range measurements {
		_, err := stmt.Exec(profileID,
			nullFloat(m.Pressure), nullFloat(m.Temperature), nullFloat(m.Salinity),
			nullFloat(m.Depth), nullFloat(m.Oxygen), nullFloat(m.Nitrate),
			nullFloat(m.PH), nullFloat(m.Chlorophyll), m.QualityFlag)
		if err != nil {
			return fmt.Errorf("failed to insert measurement %d for profile %d: %w", i, profileID, err)
		}
	}

	return nil
}

// GetByProfile retrieves all measurements for a profile, ordered by depth
// ascending.
func (s *MeasurementStore) GetByProfile(profileID int64) ([]models.Measurement, error) {
	rows, err := s.db.Query(`
		SELECT id, profile_id, pressure, temperature, salinity, depth,
		       oxygen, nitrate, ph, chlorophyll, quality_flag
		FROM measurements
		WHERE profile_id = ?
		ORDER BY depth
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query measurements for profile %d: %w", profileID, err)
	}
	defer func() { _ = rows.Close() }()

	var measurements []models.Measurement
	for rows.Next() {
		var (
			m                                   models.Measurement
			pres, temp, sal, depth              sql.NullFloat64
			oxygen, nitrate, ph, chlorophyll    sql.NullFloat64
		)
		if err := rows.Scan(&m.ID, &m.ProfileID, &pres, &temp, &sal, &depth,
			&oxygen, &nitrate, &ph, &chlorophyll, &m.QualityFlag); err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		m.Pressure = fromNull(pres)
		m.Temperature = fromNull(temp)
		m.Salinity = fromNull(sal)
		m.Depth = fromNull(depth)
		m.Oxygen = fromNull(oxygen)
		m.Nitrate = fromNull(nitrate)
		m.PH = fromNull(ph)
		m.Chlorophyll = fromNull(chlorophyll)
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}

// CountByProfile returns the number of measurements owned by a profile.
func (s *MeasurementStore) CountByProfile(profileID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM measurements WHERE profile_id = ?`, profileID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count measurements: %w", err)
	}
	return count, nil
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Float(v.Float64)
}
