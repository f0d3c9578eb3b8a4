// ABOUTME: SQLite database schema for ocean profile storage
// ABOUTME: Creates profile, measurement, and metadata tables with query indexes
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- One row per observation cycle from one float. content_digest is the
-- SHA-256 of the source file and arbitrates deduplication.
CREATE TABLE IF NOT EXISTS profiles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    float_id TEXT NOT NULL,
    cycle_number INTEGER DEFAULT 0,
    latitude REAL,
    longitude REAL,
    measurement_date DATETIME,
    platform_number TEXT,
    data_center TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    content_digest TEXT NOT NULL UNIQUE
);

-- One row per depth level. Rows are never updated after insertion and
-- disappear with their owning profile.
CREATE TABLE IF NOT EXISTS measurements (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    pressure REAL,
    temperature REAL,
    salinity REAL,
    depth REAL,
    oxygen REAL,
    nitrate REAL,
    ph REAL,
    chlorophyll REAL,
    quality_flag INTEGER DEFAULT 1
);

-- Free-form per-profile parameters (station parameter list and the like)
CREATE TABLE IF NOT EXISTS profile_metadata (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    parameter_name TEXT NOT NULL,
    parameter_value TEXT,
    parameter_units TEXT
);

-- Indexes for the filtered and geodesic queries
CREATE INDEX IF NOT EXISTS idx_profiles_float_id ON profiles(float_id);
CREATE INDEX IF NOT EXISTS idx_profiles_date ON profiles(measurement_date);
CREATE INDEX IF NOT EXISTS idx_profiles_location ON profiles(latitude, longitude);
CREATE INDEX IF NOT EXISTS idx_measurements_profile ON measurements(profile_id);
CREATE INDEX IF NOT EXISTS idx_measurements_depth ON measurements(depth);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
