// ABOUTME: Tests for file validation and profile metadata extraction
// ABOUTME: Uses the in-memory FakeDataset and temp files instead of real containers
package netcdf

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTempProfile creates an empty file with the given name so the
// existence and extension checks pass; content is served by a fake opener.
func writeTempProfile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("stub"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func testProcessor(ds Dataset) *Processor {
	p := NewProcessor()
	p.open = fakeOpener(ds)
	return p
}

func TestValidateFile_RequiredVariables(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]any
		want bool
	}{
		{"all three present", map[string]any{"PRES": []float64{1}, "TEMP": []float64{1}, "PSAL": []float64{1}}, true},
		{"pressure only", map[string]any{"PRES": []float64{1}}, true},
		{"temperature only", map[string]any{"TEMP": []float64{1}}, true},
		{"salinity only", map[string]any{"PSAL": []float64{1}}, true},
		{"none present", map[string]any{"JULD": []float64{100}}, false},
		{"empty dataset", map[string]any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProcessor(NewFakeDataset(tt.vars))
			path := writeTempProfile(t, "profile.nc")
			if got := p.ValidateFile(path); got != tt.want {
				t.Errorf("ValidateFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateFile_MissingFile(t *testing.T) {
	p := testProcessor(NewFakeDataset(map[string]any{"PRES": []float64{1}}))
	if p.ValidateFile(filepath.Join(t.TempDir(), "nope.nc")) {
		t.Error("ValidateFile() = true for missing file")
	}
}

func TestValidateFile_WrongExtension(t *testing.T) {
	p := testProcessor(NewFakeDataset(map[string]any{"PRES": []float64{1}}))
	path := writeTempProfile(t, "profile.csv")
	if p.ValidateFile(path) {
		t.Error("ValidateFile() = true for .csv file")
	}
}

func TestValidateFile_OpenFailure(t *testing.T) {
	p := NewProcessor()
	p.open = func(string) (Dataset, error) { return nil, fmt.Errorf("corrupt header") }
	path := writeTempProfile(t, "profile.nc")
	if p.ValidateFile(path) {
		t.Error("ValidateFile() = true when container cannot be opened")
	}
}

func TestExtractMetadata_FullySpecified(t *testing.T) {
	ds := NewFakeDataset(map[string]any{
		"PLATFORM_NUMBER": "2902746 ",
		"CYCLE_NUMBER":    []int32{42},
		"LATITUDE":        []float64{19.5},
		"LONGITUDE":       []float64{65.25},
		"JULD":            []float64{27028.5},
		"DATA_CENTRE":     "IN",
	})

	p := testProcessor(ds)
	profile := p.ExtractMetadata(ds)

	if profile.PlatformNumber != "2902746" {
		t.Errorf("PlatformNumber = %q, want 2902746", profile.PlatformNumber)
	}
	if profile.FloatID != "2902746" {
		t.Errorf("FloatID = %q, want 2902746", profile.FloatID)
	}
	if profile.CycleNumber != 42 {
		t.Errorf("CycleNumber = %d, want 42", profile.CycleNumber)
	}
	if profile.Latitude == nil || *profile.Latitude != 19.5 {
		t.Errorf("Latitude = %v, want 19.5", profile.Latitude)
	}
	if profile.Longitude == nil || *profile.Longitude != 65.25 {
		t.Errorf("Longitude = %v, want 65.25", profile.Longitude)
	}
	if profile.DataCenter != "IN" {
		t.Errorf("DataCenter = %q, want IN", profile.DataCenter)
	}

	want := JulianDate(27028.5)
	if !profile.MeasurementDate.Equal(want) {
		t.Errorf("MeasurementDate = %v, want %v", profile.MeasurementDate, want)
	}
}

func TestExtractMetadata_Defaults(t *testing.T) {
	ds := NewFakeDataset(map[string]any{"PRES": []float64{1}})
	p := testProcessor(ds)
	fixed := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	profile := p.ExtractMetadata(ds)

	if profile.PlatformNumber != "unknown" {
		t.Errorf("PlatformNumber = %q, want unknown", profile.PlatformNumber)
	}
	if profile.FloatID != "unknown" {
		t.Errorf("FloatID = %q, want unknown", profile.FloatID)
	}
	if profile.CycleNumber != 0 {
		t.Errorf("CycleNumber = %d, want 0", profile.CycleNumber)
	}
	if profile.Latitude != nil || profile.Longitude != nil {
		t.Error("location should be absent when not in the file")
	}
	if profile.DataCenter != "unknown" {
		t.Errorf("DataCenter = %q, want unknown", profile.DataCenter)
	}
	if !profile.MeasurementDate.Equal(fixed) {
		t.Errorf("MeasurementDate = %v, want ingestion time %v", profile.MeasurementDate, fixed)
	}
}

func TestExtractMetadata_NonFiniteJULD(t *testing.T) {
	ds := NewFakeDataset(map[string]any{"JULD": []float64{math.NaN()}})
	p := testProcessor(ds)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	profile := p.ExtractMetadata(ds)
	if !profile.MeasurementDate.Equal(fixed) {
		t.Errorf("MeasurementDate = %v, want fallback %v", profile.MeasurementDate, fixed)
	}
}

func TestExtractMetadata_DataCenterSpellings(t *testing.T) {
	for _, name := range []string{"DATA_CENTRE", "DATA_CENTER"} {
		ds := NewFakeDataset(map[string]any{name: "AO"})
		p := testProcessor(ds)
		if got := p.ExtractMetadata(ds).DataCenter; got != "AO" {
			t.Errorf("%s: DataCenter = %q, want AO", name, got)
		}
	}
}

func TestJulianDate(t *testing.T) {
	// Day zero is the epoch itself.
	if got := JulianDate(0); !got.Equal(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("JulianDate(0) = %v", got)
	}
	// Half a day past the epoch is noon.
	if got := JulianDate(0.5); got.Hour() != 12 {
		t.Errorf("JulianDate(0.5) = %v, want noon", got)
	}
}

func TestDescribe(t *testing.T) {
	ds := NewFakeDataset(map[string]any{
		"PRES":            []float64{5, 10, 15},
		"TEMP":            []float64{20, 18, 16},
		"PLATFORM_NUMBER": "5904321",
	})
	p := testProcessor(ds)
	path := writeTempProfile(t, "profile.nc")

	summary, err := p.Describe(path)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if summary.Levels != 3 {
		t.Errorf("Levels = %d, want 3", summary.Levels)
	}
	if summary.Profile.FloatID != "5904321" {
		t.Errorf("FloatID = %q, want 5904321", summary.Profile.FloatID)
	}
	if len(summary.Variables) != 3 {
		t.Errorf("Variables = %v, want 3 entries", summary.Variables)
	}
	if summary.SizeBytes == 0 {
		t.Error("SizeBytes should be non-zero")
	}
}

func TestDescribe_InvalidFile(t *testing.T) {
	p := testProcessor(NewFakeDataset(map[string]any{}))
	path := writeTempProfile(t, "profile.nc")
	if _, err := p.Describe(path); err == nil {
		t.Error("Describe() = nil error for invalid file")
	}
}
