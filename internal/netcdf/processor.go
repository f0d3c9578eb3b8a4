// ABOUTME: Validates Argo profile files and extracts profile-level metadata
// ABOUTME: Missing or malformed fields degrade to documented defaults, never errors
package netcdf

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oceanloop/argonaut/internal/models"
)

// Variable names in the Argo NetCDF vocabulary.
const (
	VarPressure    = "PRES"
	VarTemperature = "TEMP"
	VarSalinity    = "PSAL"
	VarOxygen      = "DOXY"
	VarNitrate     = "NITRATE"
	VarPH          = "PH_IN_SITU_TOTAL"
	VarChlorophyll = "CHLA"

	qcSuffix = "_QC"
)

// juldEpoch is the Argo reference date: JULD is a day offset from it.
var juldEpoch = time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)

// requiredVariables are the physical parameters a valid profile file must
// expose at least one of.
var requiredVariables = []string{VarPressure, VarTemperature, VarSalinity}

// supportedExtensions are the accepted container file extensions.
var supportedExtensions = []string{".nc", ".netcdf"}

// Processor validates profile files and turns them into structured records.
type Processor struct {
	depth DepthStrategy
	open  func(path string) (Dataset, error)
	now   func() time.Time
}

// NewProcessor creates a Processor with the default depth strategy and the
// on-disk NetCDF opener.
func NewProcessor() *Processor {
	return &Processor{
		depth: PressureAsDepth,
		open:  OpenDataset,
		now:   time.Now,
	}
}

// SetDepthStrategy swaps the pressure-to-depth conversion. The default
// PressureAsDepth is a documented domain simplification.
func (p *Processor) SetDepthStrategy(s DepthStrategy) {
	if s != nil {
		p.depth = s
	}
}

// ValidateFile reports whether path looks like an ingestible profile file:
// it exists, carries an accepted extension, opens as a container, and
// exposes at least one required physical parameter. It never returns an
// error; any failure logs a reason and yields false.
func (p *Processor) ValidateFile(path string) bool {
	if _, err := os.Stat(path); err != nil {
		log.Printf("[netcdf] %s: not accessible: %v", path, err)
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	supported := false
	for _, e := range supportedExtensions {
		if ext == e {
			supported = true
			break
		}
	}
	if !supported {
		log.Printf("[netcdf] %s: unsupported extension %q", path, ext)
		return false
	}

	ds, err := p.open(path)
	if err != nil {
		log.Printf("[netcdf] %s: failed to open: %v", path, err)
		return false
	}
	defer func() { _ = ds.Close() }()

	for _, name := range requiredVariables {
		if ds.Has(name) {
			return true
		}
	}
	log.Printf("[netcdf] %s: none of %v present", path, requiredVariables)
	return false
}

// ProcessFile validates path and extracts profile metadata, cleaned
// measurements, and station parameters. The returned error marks a
// format failure; extraction itself degrades field by field and does
// not fail.
func (p *Processor) ProcessFile(path string) (models.Profile, []models.Measurement, []models.MetadataEntry, error) {
	if !p.ValidateFile(path) {
		return models.Profile{}, nil, nil, fmt.Errorf("invalid profile file: %s", path)
	}

	ds, err := p.open(path)
	if err != nil {
		return models.Profile{}, nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = ds.Close() }()

	profile := p.ExtractMetadata(ds)
	measurements := p.ExtractMeasurements(ds)
	params := p.ExtractParameters(ds)
	return profile, measurements, params, nil
}

// ExtractParameters lists the station parameters the file reports, one
// metadata entry per parameter. Falls back to the physical variables
// actually present when STATION_PARAMETERS is absent.
func (p *Processor) ExtractParameters(ds Dataset) []models.MetadataEntry {
	var names []string
	if raw, ok := ds.Values("STATION_PARAMETERS"); ok {
		names = stringList(raw)
	}
	if len(names) == 0 {
		for _, param := range parameters {
			if ds.Has(param.variable) {
				names = append(names, param.variable)
			}
		}
	}

	var entries []models.MetadataEntry
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		entries = append(entries, models.MetadataEntry{
			ParameterName:  "STATION_PARAMETER",
			ParameterValue: name,
		})
	}
	return entries
}

// ExtractMetadata pulls profile-level metadata out of an opened dataset.
// Every absent or malformed field falls back to its documented default:
// platform id "unknown", cycle 0, timestamp now, data center "unknown".
func (p *Processor) ExtractMetadata(ds Dataset) models.Profile {
	profile := models.Profile{
		PlatformNumber:  "unknown",
		FloatID:         "unknown",
		CycleNumber:     0,
		MeasurementDate: p.now(),
		DataCenter:      "unknown",
	}

	if raw, ok := ds.Values("PLATFORM_NUMBER"); ok {
		if s, ok := firstString(raw); ok && s != "" {
			profile.PlatformNumber = strings.TrimSpace(s)
		} else if f, ok := firstFloat(raw); ok {
			profile.PlatformNumber = strconv.FormatInt(int64(f), 10)
		} else {
			log.Printf("[netcdf] PLATFORM_NUMBER present but unreadable, defaulting")
		}
	}
	// Float id mirrors the platform number by Argo convention.
	profile.FloatID = profile.PlatformNumber

	if raw, ok := ds.Values("CYCLE_NUMBER"); ok {
		if f, ok := firstFloat(raw); ok && !math.IsNaN(f) {
			profile.CycleNumber = int(f)
		} else {
			log.Printf("[netcdf] CYCLE_NUMBER present but unreadable, defaulting to 0")
		}
	}

	if raw, ok := ds.Values("LATITUDE"); ok {
		if f, ok := firstFloat(raw); ok && isFinite(f) {
			profile.Latitude = models.Float(f)
		}
	}
	if raw, ok := ds.Values("LONGITUDE"); ok {
		if f, ok := firstFloat(raw); ok && isFinite(f) {
			profile.Longitude = models.Float(f)
		}
	}

	if raw, ok := ds.Values("JULD"); ok {
		if days, ok := firstFloat(raw); ok && isFinite(days) {
			profile.MeasurementDate = JulianDate(days)
		} else {
			log.Printf("[netcdf] JULD non-finite, defaulting measurement date to now")
		}
	}

	// Both spellings occur in the wild.
	for _, name := range []string{"DATA_CENTRE", "DATA_CENTER"} {
		raw, ok := ds.Values(name)
		if !ok {
			continue
		}
		if s, ok := firstString(raw); ok && strings.TrimSpace(s) != "" {
			profile.DataCenter = strings.TrimSpace(s)
		}
		break
	}

	return profile
}

// JulianDate converts an Argo day offset to a calendar timestamp against
// the 1950-01-01 UTC reference epoch.
func JulianDate(days float64) time.Time {
	return juldEpoch.Add(time.Duration(days * 24 * float64(time.Hour)))
}

// FileSummary is a quick, non-destructive description of a profile file,
// used by the validate command before any ingestion happens.
type FileSummary struct {
	Path      string         `json:"path"`
	SizeBytes int64          `json:"size_bytes"`
	Variables []string       `json:"variables"`
	Profile   models.Profile `json:"profile"`
	Levels    int            `json:"levels"`
}

// Describe validates path and returns a summary of its contents without
// ingesting anything.
func (p *Processor) Describe(path string) (*FileSummary, error) {
	if !p.ValidateFile(path) {
		return nil, fmt.Errorf("invalid profile file: %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	ds, err := p.open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = ds.Close() }()

	return &FileSummary{
		Path:      path,
		SizeBytes: info.Size(),
		Variables: ds.Variables(),
		Profile:   p.ExtractMetadata(ds),
		Levels:    p.levelCount(ds),
	}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
