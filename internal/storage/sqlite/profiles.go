// ABOUTME: Profile persistence and query operations
// ABOUTME: Digest-arbitrated insert, filtered retrieval, haversine nearest search
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/oceanloop/argonaut/internal/models"
)

// ProfileStore handles profile persistence
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a new ProfileStore
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// nearestLimit caps the result size of a nearest-profile search.
const nearestLimit = 50

// haversineKm is the great-circle distance in kilometers between the
// bound point (?1 latitude, ?2 longitude) and a profile row. The acos
// argument is clamped: rounding can push it just past 1 for identical
// points, and acos would return NULL. The same expression serves as the
// distance column and the radius predicate so both agree exactly.
const haversineKm = `(6371.0 * acos(min(1.0, max(-1.0,
    cos(radians(?1)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?2))
    + sin(radians(?1)) * sin(radians(latitude))))))`

const profileColumns = `id, float_id, cycle_number, latitude, longitude,
    measurement_date, platform_number, data_center, created_at, content_digest`

// ProfileFilter is an AND-combined set of optional profile predicates.
// All bounds are inclusive.
type ProfileFilter struct {
	FloatID   string
	StartDate *time.Time
	EndDate   *time.Time
	MinLat    *float64
	MaxLat    *float64
	MinLon    *float64
	MaxLon    *float64
	Limit     int
	Offset    int
}

// NearestProfile is a profile with its great-circle distance from the
// query point.
type NearestProfile struct {
	models.Profile
	DistanceKm float64 `json:"distance_km"`
}

// SummaryStats aggregates the store contents for the stats surface.
type SummaryStats struct {
	TotalProfiles     int        `json:"total_profiles"`
	TotalMeasurements int        `json:"total_measurements"`
	UniqueFloats      int        `json:"unique_floats"`
	EarliestDate      *time.Time `json:"earliest_date,omitempty"`
	LatestDate        *time.Time `json:"latest_date,omitempty"`
	MinLat            *float64   `json:"min_latitude,omitempty"`
	MaxLat            *float64   `json:"max_latitude,omitempty"`
	MinLon            *float64   `json:"min_longitude,omitempty"`
	MaxLon            *float64   `json:"max_longitude,omitempty"`
}

// Insert persists a profile and returns its assigned id. The UNIQUE
// constraint on content_digest is the deduplication arbiter: on a
// digest conflict the winning row is looked up and returned with
// existed=true instead of propagating the error.
func (s *ProfileStore) Insert(p *models.Profile) (int64, bool, error) {
	res, err := s.db.Exec(`
		INSERT INTO profiles
		(float_id, cycle_number, latitude, longitude, measurement_date,
		 platform_number, data_center, content_digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.FloatID, p.CycleNumber, nullFloat(p.Latitude), nullFloat(p.Longitude),
		p.MeasurementDate.UTC(), p.PlatformNumber, p.DataCenter, p.ContentDigest)

	if err != nil {
		if isDigestConflict(err) {
			id, found, lookupErr := s.GetIDByDigest(p.ContentDigest)
			if lookupErr != nil {
				return 0, false, fmt.Errorf("digest conflict lookup failed: %w", lookupErr)
			}
			if !found {
				return 0, false, fmt.Errorf("digest conflict but no winning row: %w", err)
			}
			return id, true, nil
		}
		return 0, false, fmt.Errorf("failed to insert profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read profile id: %w", err)
	}
	return id, false, nil
}

// isDigestConflict reports whether err is the content_digest UNIQUE
// violation. modernc.org/sqlite surfaces constraint failures as text.
func isDigestConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "profiles.content_digest")
}

// GetIDByDigest returns the id of the profile with the given content
// digest, if one exists.
func (s *ProfileStore) GetIDByDigest(digest string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM profiles WHERE content_digest = ?`, digest).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up digest: %w", err)
	}
	return id, true, nil
}

// GetByID retrieves a profile by id, nil if not found.
func (s *ProfileStore) GetByID(id int64) (*models.Profile, error) {
	row := s.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %d: %w", id, err)
	}
	return p, nil
}

// GetByIDs fetches a set of profiles in one batched query. Missing ids
// are silently skipped; the result is keyed for rank-preserving joins.
func (s *ProfileStore) GetByIDs(ids []int64) (map[int64]models.Profile, error) {
	if len(ids) == 0 {
		return map[int64]models.Profile{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Query(`SELECT `+profileColumns+` FROM profiles WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-fetch profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[int64]models.Profile, len(ids))
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		result[p.ID] = *p
	}
	return result, rows.Err()
}

// Filter retrieves profiles matching all set predicates, newest first.
func (s *ProfileStore) Filter(f ProfileFilter) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	var conditions []string
	var args []interface{}

	if f.FloatID != "" {
		conditions = append(conditions, "float_id = ?")
		args = append(args, f.FloatID)
	}
	if f.StartDate != nil {
		conditions = append(conditions, "measurement_date >= ?")
		args = append(args, f.StartDate.UTC())
	}
	if f.EndDate != nil {
		conditions = append(conditions, "measurement_date <= ?")
		args = append(args, f.EndDate.UTC())
	}
	if f.MinLat != nil {
		conditions = append(conditions, "latitude >= ?")
		args = append(args, *f.MinLat)
	}
	if f.MaxLat != nil {
		conditions = append(conditions, "latitude <= ?")
		args = append(args, *f.MaxLat)
	}
	if f.MinLon != nil {
		conditions = append(conditions, "longitude >= ?")
		args = append(args, *f.MinLon)
	}
	if f.MaxLon != nil {
		conditions = append(conditions, "longitude <= ?")
		args = append(args, *f.MaxLon)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " ORDER BY measurement_date DESC LIMIT ? OFFSET ?"
	args = append(args, limit, f.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// Nearest returns profiles within radiusKm of (lat, lon), closest first,
// capped at nearestLimit rows. Profiles without a location never match.
func (s *ProfileStore) Nearest(lat, lon, radiusKm float64) ([]NearestProfile, error) {
	rows, err := s.db.Query(`
		SELECT `+profileColumns+`, `+haversineKm+` AS distance_km
		FROM profiles
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		  AND `+haversineKm+` <= ?3
		ORDER BY distance_km
		LIMIT ?4
	`, lat, lon, radiusKm, nearestLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search by location: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []NearestProfile
	for rows.Next() {
		var (
			np     NearestProfile
			latCol sql.NullFloat64
			lonCol sql.NullFloat64
		)
		if err := rows.Scan(
			&np.ID, &np.FloatID, &np.CycleNumber, &latCol, &lonCol,
			&np.MeasurementDate, &np.PlatformNumber, &np.DataCenter,
			&np.CreatedAt, &np.ContentDigest, &np.DistanceKm,
		); err != nil {
			return nil, fmt.Errorf("failed to scan nearest profile: %w", err)
		}
		if latCol.Valid {
			np.Latitude = models.Float(latCol.Float64)
		}
		if lonCol.Valid {
			np.Longitude = models.Float(lonCol.Float64)
		}
		results = append(results, np)
	}
	return results, rows.Err()
}

// Summary computes aggregate statistics over the store.
func (s *ProfileStore) Summary() (*SummaryStats, error) {
	stats := &SummaryStats{}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&stats.TotalProfiles); err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM measurements`).Scan(&stats.TotalMeasurements); err != nil {
		return nil, fmt.Errorf("failed to count measurements: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT float_id) FROM profiles`).Scan(&stats.UniqueFloats); err != nil {
		return nil, fmt.Errorf("failed to count floats: %w", err)
	}

	// Selecting the column directly keeps the DATETIME declared type, so
	// the driver hands back a time.Time.
	var earliest, latest time.Time
	err := s.db.QueryRow(`SELECT measurement_date FROM profiles ORDER BY measurement_date ASC LIMIT 1`).Scan(&earliest)
	if err == nil {
		stats.EarliestDate = &earliest
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get earliest date: %w", err)
	}
	err = s.db.QueryRow(`SELECT measurement_date FROM profiles ORDER BY measurement_date DESC LIMIT 1`).Scan(&latest)
	if err == nil {
		stats.LatestDate = &latest
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get latest date: %w", err)
	}

	var minLat, maxLat, minLon, maxLon sql.NullFloat64
	err = s.db.QueryRow(`
		SELECT MIN(latitude), MAX(latitude), MIN(longitude), MAX(longitude) FROM profiles
	`).Scan(&minLat, &maxLat, &minLon, &maxLon)
	if err != nil {
		return nil, fmt.Errorf("failed to get geographic coverage: %w", err)
	}
	if minLat.Valid {
		stats.MinLat = models.Float(minLat.Float64)
	}
	if maxLat.Valid {
		stats.MaxLat = models.Float(maxLat.Float64)
	}
	if minLon.Valid {
		stats.MinLon = models.Float(minLon.Float64)
	}
	if maxLon.Valid {
		stats.MaxLon = models.Float(maxLon.Float64)
	}

	return stats, nil
}

// ListIDs returns every profile id, ascending. Used by the reindex pass.
func (s *ProfileStore) ListIDs() ([]int64, error) {
	rows, err := s.db.Query(`SELECT id FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes a profile; measurements and metadata cascade.
func (s *ProfileStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile %d: %w", id, err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		p   models.Profile
		lat sql.NullFloat64
		lon sql.NullFloat64
	)
	err := row.Scan(
		&p.ID, &p.FloatID, &p.CycleNumber, &lat, &lon,
		&p.MeasurementDate, &p.PlatformNumber, &p.DataCenter,
		&p.CreatedAt, &p.ContentDigest,
	)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		p.Latitude = models.Float(lat.Float64)
	}
	if lon.Valid {
		p.Longitude = models.Float(lon.Float64)
	}
	return &p, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
