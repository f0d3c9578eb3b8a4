// ABOUTME: Transforms raw per-level arrays into cleaned measurement records
// ABOUTME: Finite-or-absent per field, named depth strategy, QC flag defaulting
package netcdf

import (
	"log"

	"github.com/oceanloop/argonaut/internal/models"
)

// DepthStrategy derives a depth in meters from a pressure in decibars.
type DepthStrategy func(pressureDbar float64) float64

// PressureAsDepth treats one decibar as one meter. This is the documented
// approximation the rest of the system assumes; a true conversion depends
// on latitude and the density profile.
func PressureAsDepth(pressureDbar float64) float64 {
	return pressureDbar
}

// parameter maps an Argo variable to a measurement field.
type parameter struct {
	variable string
	assign   func(m *models.Measurement, v *float64)
}

var parameters = []parameter{
	{VarPressure, func(m *models.Measurement, v *float64) { m.Pressure = v }},
	{VarTemperature, func(m *models.Measurement, v *float64) { m.Temperature = v }},
	{VarSalinity, func(m *models.Measurement, v *float64) { m.Salinity = v }},
	{VarOxygen, func(m *models.Measurement, v *float64) { m.Oxygen = v }},
	{VarNitrate, func(m *models.Measurement, v *float64) { m.Nitrate = v }},
	{VarPH, func(m *models.Measurement, v *float64) { m.PH = v }},
	{VarChlorophyll, func(m *models.Measurement, v *float64) { m.Chlorophyll = v }},
}

// ExtractMeasurements converts the dataset's parallel per-level arrays into
// validated measurement records. Non-finite and out-of-window BGC values
// degrade to absent fields; records failing core range checks are dropped
// individually. The result length is always <= the level count.
func (p *Processor) ExtractMeasurements(ds Dataset) []models.Measurement {
	nLevels := p.levelCount(ds)
	if nLevels == 0 {
		log.Printf("[netcdf] cannot determine measurement level count")
		return nil
	}

	// Pull every present parameter array once.
	arrays := make(map[string][]float64)
	for _, param := range parameters {
		raw, ok := ds.Values(param.variable)
		if !ok {
			continue
		}
		if fs, ok := floatSlice(raw); ok {
			arrays[param.variable] = fs
		}
	}

	// The pressure QC channel drives the per-record quality flag.
	var pressureQC []int
	if raw, ok := ds.Values(VarPressure + qcSuffix); ok {
		pressureQC, _ = qualityFlags(raw)
	}

	var accepted []models.Measurement
	dropped := 0
	for i := 0; i < nLevels; i++ {
		m := models.Measurement{QualityFlag: models.QualityGood}

		for _, param := range parameters {
			arr, ok := arrays[param.variable]
			if !ok || i >= len(arr) {
				continue
			}
			if v := arr[i]; isFinite(v) {
				param.assign(&m, models.Float(v))
			}
		}

		if m.Pressure != nil {
			m.Depth = models.Float(p.depth(*m.Pressure))
		}

		if i < len(pressureQC) && pressureQC[i] >= 0 {
			m.QualityFlag = pressureQC[i]
		}

		if cleared := m.SanitizeBGC(); len(cleared) > 0 {
			log.Printf("[netcdf] level %d: cleared out-of-range BGC fields %v", i, cleared)
		}
		if err := m.Validate(); err != nil {
			dropped++
			log.Printf("[netcdf] level %d rejected: %v", i, err)
			continue
		}

		accepted = append(accepted, m)
	}

	if dropped > 0 {
		log.Printf("[netcdf] accepted %d of %d levels", len(accepted), nLevels)
	}
	return accepted
}

// levelCount determines the number of depth levels, preferring the
// pressure array length and falling back to the other required parameters.
func (p *Processor) levelCount(ds Dataset) int {
	for _, name := range requiredVariables {
		raw, ok := ds.Values(name)
		if !ok {
			continue
		}
		if fs, ok := floatSlice(raw); ok && len(fs) > 0 {
			return len(fs)
		}
	}
	return 0
}
