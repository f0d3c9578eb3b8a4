// ABOUTME: Range and sanity checks for measurement records
// ABOUTME: Core physical violations reject a record, BGC violations clear the field
package models

import "fmt"

// ParamRange is an inclusive plausibility window for one parameter.
type ParamRange struct {
	Min float64
	Max float64
}

// Plausibility windows for the core physical parameters. A value outside
// its window rejects the whole record.
var coreRanges = map[string]ParamRange{
	"pressure":    {Min: 0, Max: 11000},  // dbar
	"temperature": {Min: -2.5, Max: 40},  // degC
	"salinity":    {Min: 0, Max: 45},     // PSU
	"depth":       {Min: 0, Max: 11000},  // m
}

// Plausibility windows for the optional BGC parameters. A value outside
// its window clears that field but keeps the record.
var bgcRanges = map[string]ParamRange{
	"oxygen":      {Min: 0, Max: 650}, // umol/kg
	"nitrate":     {Min: 0, Max: 55},  // umol/kg
	"ph":          {Min: 7.0, Max: 8.8},
	"chlorophyll": {Min: 0, Max: 35}, // mg/m3
}

// Validate checks the core physical fields against their plausibility
// windows. A record with every core field absent is also rejected, since
// it carries no usable physical data.
func (m *Measurement) Validate() error {
	if !m.HasPhysical() {
		return fmt.Errorf("no physical parameters present")
	}

	core := map[string]*float64{
		"pressure":    m.Pressure,
		"temperature": m.Temperature,
		"salinity":    m.Salinity,
		"depth":       m.Depth,
	}
	for name, v := range core {
		if v == nil {
			continue
		}
		r := coreRanges[name]
		if *v < r.Min || *v > r.Max {
			return fmt.Errorf("%s %.4f outside [%g, %g]", name, *v, r.Min, r.Max)
		}
	}
	return nil
}

// SanitizeBGC clears BGC fields that fall outside their plausibility
// windows and returns the names of the cleared fields. BGC sensors are
// optional equipment, so a junk BGC channel must not discard an otherwise
// good physical level.
func (m *Measurement) SanitizeBGC() []string {
	var cleared []string

	check := func(name string, v **float64) {
		if *v == nil {
			return
		}
		r := bgcRanges[name]
		if **v < r.Min || **v > r.Max {
			*v = nil
			cleared = append(cleared, name)
		}
	}

	check("oxygen", &m.Oxygen)
	check("nitrate", &m.Nitrate)
	check("ph", &m.PH)
	check("chlorophyll", &m.Chlorophyll)
	return cleared
}
