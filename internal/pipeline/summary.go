// ABOUTME: Builds the free-text summary of a profile that gets embedded
// ABOUTME: Folds location, date, and per-parameter ranges into one paragraph
package pipeline

import (
	"fmt"
	"strings"

	"github.com/oceanloop/argonaut/internal/models"
)

// BuildProfileSummary renders a profile and its measurements as a short
// text document. The text is what the embedding model sees, so it leans
// on descriptive words over raw numbers where possible.
func BuildProfileSummary(p *models.Profile, ms []models.Measurement) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Ocean profile from float %s, cycle %d.", p.FloatID, p.CycleNumber)
	if p.Latitude != nil && p.Longitude != nil {
		fmt.Fprintf(&b, " Located at %.3f %s, %.3f %s.",
			abs(*p.Latitude), hemisphere(*p.Latitude, "N", "S"),
			abs(*p.Longitude), hemisphere(*p.Longitude, "E", "W"))
	}
	if !p.MeasurementDate.IsZero() {
		fmt.Fprintf(&b, " Measured on %s.", p.MeasurementDate.Format("2006-01-02"))
	}
	if p.DataCenter != "" && p.DataCenter != "unknown" {
		fmt.Fprintf(&b, " Data center %s.", p.DataCenter)
	}

	fmt.Fprintf(&b, " %d depth levels.", len(ms))

	for _, param := range summaryParams {
		lo, hi, n := rangeOf(ms, param.get)
		if n == 0 {
			continue
		}
		fmt.Fprintf(&b, " %s from %.2f to %.2f %s.", param.label, lo, hi, param.units)
	}

	return b.String()
}

type summaryParam struct {
	label string
	units string
	get   func(m models.Measurement) *float64
}

var summaryParams = []summaryParam{
	{"Depth", "meters", func(m models.Measurement) *float64 { return m.Depth }},
	{"Temperature", "degrees Celsius", func(m models.Measurement) *float64 { return m.Temperature }},
	{"Salinity", "PSU", func(m models.Measurement) *float64 { return m.Salinity }},
	{"Oxygen", "micromol per kg", func(m models.Measurement) *float64 { return m.Oxygen }},
	{"Nitrate", "micromol per kg", func(m models.Measurement) *float64 { return m.Nitrate }},
	{"pH", "total scale", func(m models.Measurement) *float64 { return m.PH }},
	{"Chlorophyll", "mg per cubic meter", func(m models.Measurement) *float64 { return m.Chlorophyll }},
}

// rangeOf returns the min, max, and count of present values.
func rangeOf(ms []models.Measurement, get func(models.Measurement) *float64) (float64, float64, int) {
	var lo, hi float64
	n := 0
	for _, m := range ms {
		v := get(m)
		if v == nil {
			continue
		}
		if n == 0 || *v < lo {
			lo = *v
		}
		if n == 0 || *v > hi {
			hi = *v
		}
		n++
	}
	return lo, hi, n
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func hemisphere(v float64, pos, neg string) string {
	if v < 0 {
		return neg
	}
	return pos
}
