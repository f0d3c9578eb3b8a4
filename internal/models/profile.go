// ABOUTME: Profile model for one observation cycle from one sensor platform
// ABOUTME: Optional numeric fields use pointers so absence is explicit, never NaN
package models

import "time"

// Profile represents one reporting cycle from one float, anchored to a
// location and timestamp. ID is assigned by the store on insert.
// ContentDigest is the SHA-256 of the source file and is globally unique.
type Profile struct {
	ID              int64     `json:"id"`
	FloatID         string    `json:"float_id"`
	CycleNumber     int       `json:"cycle_number"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	MeasurementDate time.Time `json:"measurement_date"`
	PlatformNumber  string    `json:"platform_number"`
	DataCenter      string    `json:"data_center"`
	CreatedAt       time.Time `json:"created_at"`
	ContentDigest   string    `json:"content_digest"`
}

// MetadataEntry is a free-form parameter attached to a profile,
// such as the station parameter list reported by the platform.
type MetadataEntry struct {
	ID             int64  `json:"id"`
	ProfileID      int64  `json:"profile_id"`
	ParameterName  string `json:"parameter_name"`
	ParameterValue string `json:"parameter_value"`
	ParameterUnits string `json:"parameter_units,omitempty"`
}

// Float returns a pointer to v, for populating optional fields.
func Float(v float64) *float64 {
	return &v
}
