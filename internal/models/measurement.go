// ABOUTME: Measurement model for one depth-level reading within a profile
// ABOUTME: Required physical fields and optional BGC fields, each finite or absent
package models

// QualityGood is the conventional "good data" quality flag.
const QualityGood = 1

// Measurement is one depth-level reading belonging to exactly one profile.
// A nil field means the parameter was missing or non-finite at this level.
// Depth currently mirrors pressure (see netcdf.PressureAsDepth); it is a
// documented approximation, not a unit conversion.
type Measurement struct {
	ID          int64    `json:"id"`
	ProfileID   int64    `json:"profile_id"`
	Pressure    *float64 `json:"pressure,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Salinity    *float64 `json:"salinity,omitempty"`
	Depth       *float64 `json:"depth,omitempty"`
	Oxygen      *float64 `json:"oxygen,omitempty"`
	Nitrate     *float64 `json:"nitrate,omitempty"`
	PH          *float64 `json:"ph,omitempty"`
	Chlorophyll *float64 `json:"chlorophyll,omitempty"`
	QualityFlag int      `json:"quality_flag"`
}

// HasPhysical reports whether at least one of the required physical
// parameters carries a value at this level.
func (m *Measurement) HasPhysical() bool {
	return m.Pressure != nil || m.Temperature != nil || m.Salinity != nil
}
