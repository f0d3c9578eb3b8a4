// ABOUTME: Tests for profile persistence, dedup arbitration, and queries
// ABOUTME: Covers digest conflicts, filter bounds, and haversine nearest search
package sqlite

import (
	"math"
	"testing"
	"time"

	"github.com/oceanloop/argonaut/internal/models"
)

func testStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testProfile(digest string) *models.Profile {
	return &models.Profile{
		FloatID:         "2902746",
		CycleNumber:     12,
		Latitude:        models.Float(-10.5),
		Longitude:       models.Float(75.2),
		MeasurementDate: time.Date(2024, 3, 15, 6, 30, 0, 0, time.UTC),
		PlatformNumber:  "2902746",
		DataCenter:      "IN",
		ContentDigest:   digest,
	}
}

func TestProfileStore_InsertAndGet(t *testing.T) {
	s := testStorage(t)

	id, existed, err := s.InsertProfile(testProfile("digest-a"))
	if err != nil {
		t.Fatalf("InsertProfile() error = %v", err)
	}
	if existed {
		t.Error("first insert reported as existing")
	}
	if id == 0 {
		t.Error("expected non-zero profile id")
	}

	got, err := s.GetProfile(id)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetProfile() returned nil for stored profile")
	}
	if got.FloatID != "2902746" {
		t.Errorf("FloatID = %q, want 2902746", got.FloatID)
	}
	if got.Latitude == nil || *got.Latitude != -10.5 {
		t.Errorf("Latitude = %v, want -10.5", got.Latitude)
	}
	if !got.MeasurementDate.Equal(time.Date(2024, 3, 15, 6, 30, 0, 0, time.UTC)) {
		t.Errorf("MeasurementDate = %v", got.MeasurementDate)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the store")
	}
}

func TestProfileStore_DigestConflictReturnsWinner(t *testing.T) {
	s := testStorage(t)

	first, existed, err := s.InsertProfile(testProfile("same-digest"))
	if err != nil {
		t.Fatalf("first InsertProfile() error = %v", err)
	}
	if existed {
		t.Error("first insert reported as existing")
	}

	// Same digest, different descriptive fields: the original row wins.
	dup := testProfile("same-digest")
	dup.FloatID = "other-float"
	second, existed, err := s.InsertProfile(dup)
	if err != nil {
		t.Fatalf("duplicate InsertProfile() error = %v", err)
	}
	if !existed {
		t.Error("duplicate insert not reported as existing")
	}
	if second != first {
		t.Errorf("duplicate returned id %d, want winner %d", second, first)
	}

	got, err := s.GetProfile(first)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.FloatID != "2902746" {
		t.Errorf("winner FloatID = %q, want original 2902746", got.FloatID)
	}
}

func TestProfileStore_GetProfileNotFound(t *testing.T) {
	s := testStorage(t)
	got, err := s.GetProfile(999)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing profile")
	}
}

func TestProfileStore_GetIDByDigest(t *testing.T) {
	s := testStorage(t)

	id, _, err := s.InsertProfile(testProfile("known"))
	if err != nil {
		t.Fatalf("InsertProfile() error = %v", err)
	}

	got, found, err := s.GetProfileIDByDigest("known")
	if err != nil {
		t.Fatalf("GetProfileIDByDigest() error = %v", err)
	}
	if !found || got != id {
		t.Errorf("got (%d, %v), want (%d, true)", got, found, id)
	}

	_, found, err = s.GetProfileIDByDigest("unknown")
	if err != nil {
		t.Fatalf("GetProfileIDByDigest() error = %v", err)
	}
	if found {
		t.Error("unknown digest reported as found")
	}
}

func TestProfileStore_GetByIDsSkipsMissing(t *testing.T) {
	s := testStorage(t)

	a, _, _ := s.InsertProfile(testProfile("digest-a"))
	b, _, _ := s.InsertProfile(testProfile("digest-b"))

	got, err := s.GetProfilesByIDs([]int64{a, 9999, b})
	if err != nil {
		t.Fatalf("GetProfilesByIDs() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d profiles, want 2", len(got))
	}
	if _, ok := got[a]; !ok {
		t.Errorf("missing profile %d in result", a)
	}
	if _, ok := got[9999]; ok {
		t.Error("nonexistent id present in result")
	}
}

func TestProfileStore_FilterByFloatAndDate(t *testing.T) {
	s := testStorage(t)

	p1 := testProfile("d1")
	p1.MeasurementDate = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	p2 := testProfile("d2")
	p2.MeasurementDate = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	p3 := testProfile("d3")
	p3.FloatID = "5904321"
	p3.MeasurementDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	for _, p := range []*models.Profile{p1, p2, p3} {
		if _, _, err := s.InsertProfile(p); err != nil {
			t.Fatalf("InsertProfile() error = %v", err)
		}
	}

	got, err := s.FilterProfiles(ProfileFilter{FloatID: "2902746"})
	if err != nil {
		t.Fatalf("FilterProfiles() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("float filter: got %d, want 2", len(got))
	}
	// Newest first.
	if !got[0].MeasurementDate.After(got[1].MeasurementDate) {
		t.Error("results not ordered newest first")
	}

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err = s.FilterProfiles(ProfileFilter{StartDate: &start})
	if err != nil {
		t.Fatalf("FilterProfiles() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("date filter: got %d, want 2", len(got))
	}

	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	got, err = s.FilterProfiles(ProfileFilter{EndDate: &end})
	if err != nil {
		t.Fatalf("FilterProfiles() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("end date filter: got %d, want 1", len(got))
	}
}

func TestProfileStore_FilterBoundingBoxInclusive(t *testing.T) {
	s := testStorage(t)

	inside := testProfile("inside")
	inside.Latitude = models.Float(10.0)
	inside.Longitude = models.Float(70.0)
	edge := testProfile("edge")
	edge.Latitude = models.Float(20.0) // exactly on the max bound
	edge.Longitude = models.Float(70.0)
	outside := testProfile("outside")
	outside.Latitude = models.Float(30.0)
	outside.Longitude = models.Float(70.0)
	unlocated := testProfile("unlocated")
	unlocated.Latitude = nil
	unlocated.Longitude = nil
	for _, p := range []*models.Profile{inside, edge, outside, unlocated} {
		if _, _, err := s.InsertProfile(p); err != nil {
			t.Fatalf("InsertProfile() error = %v", err)
		}
	}

	got, err := s.FilterProfiles(ProfileFilter{
		MinLat: models.Float(5.0), MaxLat: models.Float(20.0),
		MinLon: models.Float(60.0), MaxLon: models.Float(80.0),
	})
	if err != nil {
		t.Fatalf("FilterProfiles() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("bbox: got %d, want 2 (inclusive edge, no unlocated)", len(got))
	}
	for _, p := range got {
		if p.ContentDigest == "outside" || p.ContentDigest == "unlocated" {
			t.Errorf("profile %q should not match the box", p.ContentDigest)
		}
	}
}

func TestProfileStore_FilterLimitOffset(t *testing.T) {
	s := testStorage(t)

	for i := 0; i < 5; i++ {
		p := testProfile(string(rune('a' + i)))
		p.MeasurementDate = time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
		if _, _, err := s.InsertProfile(p); err != nil {
			t.Fatalf("InsertProfile() error = %v", err)
		}
	}

	page, err := s.FilterProfiles(ProfileFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("FilterProfiles() error = %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("got %d, want 2", len(page))
	}
	// Newest first, so offset 1 skips Jan 5.
	if page[0].MeasurementDate.Day() != 4 {
		t.Errorf("page starts at day %d, want 4", page[0].MeasurementDate.Day())
	}
}

func TestProfileStore_NearestOrdersByDistance(t *testing.T) {
	s := testStorage(t)

	near := testProfile("near")
	near.Latitude = models.Float(0.0)
	near.Longitude = models.Float(0.1)
	far := testProfile("far")
	far.Latitude = models.Float(0.0)
	far.Longitude = models.Float(2.0)
	wayOff := testProfile("way-off")
	wayOff.Latitude = models.Float(45.0)
	wayOff.Longitude = models.Float(120.0)
	unlocated := testProfile("unlocated")
	unlocated.Latitude = nil
	unlocated.Longitude = nil
	for _, p := range []*models.Profile{far, near, wayOff, unlocated} {
		if _, _, err := s.InsertProfile(p); err != nil {
			t.Fatalf("InsertProfile() error = %v", err)
		}
	}

	got, err := s.NearestProfiles(0.0, 0.0, 300.0)
	if err != nil {
		t.Fatalf("NearestProfiles() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d profiles, want 2 within 300km", len(got))
	}
	if got[0].ContentDigest != "near" || got[1].ContentDigest != "far" {
		t.Errorf("order = [%s, %s], want [near, far]", got[0].ContentDigest, got[1].ContentDigest)
	}
	if got[0].DistanceKm >= got[1].DistanceKm {
		t.Errorf("distances not ascending: %f then %f", got[0].DistanceKm, got[1].DistanceKm)
	}
	// 0.1 degree of longitude at the equator is about 11.1 km.
	if math.Abs(got[0].DistanceKm-11.1) > 0.5 {
		t.Errorf("DistanceKm = %f, want about 11.1", got[0].DistanceKm)
	}
}

func TestProfileStore_NearestIdenticalPoint(t *testing.T) {
	s := testStorage(t)

	p := testProfile("here")
	p.Latitude = models.Float(-33.8688)
	p.Longitude = models.Float(151.2093)
	if _, _, err := s.InsertProfile(p); err != nil {
		t.Fatalf("InsertProfile() error = %v", err)
	}

	// Querying at the profile's own coordinates must not lose the row to
	// acos rounding; distance comes back as zero.
	got, err := s.NearestProfiles(-33.8688, 151.2093, 10.0)
	if err != nil {
		t.Fatalf("NearestProfiles() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d profiles, want 1", len(got))
	}
	if got[0].DistanceKm > 1e-3 {
		t.Errorf("DistanceKm = %g, want ~0", got[0].DistanceKm)
	}
}

func TestProfileStore_Summary(t *testing.T) {
	s := testStorage(t)

	stats, err := s.Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if stats.TotalProfiles != 0 || stats.EarliestDate != nil || stats.MinLat != nil {
		t.Error("empty store should report zero counts and absent aggregates")
	}

	p1 := testProfile("s1")
	p1.MeasurementDate = time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	p2 := testProfile("s2")
	p2.FloatID = "5904321"
	p2.Latitude = models.Float(40.0)
	p2.MeasurementDate = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	id1, _, _ := s.InsertProfile(p1)
	if _, _, err := s.InsertProfile(p2); err != nil {
		t.Fatalf("InsertProfile() error = %v", err)
	}
	if err := s.InsertMeasurements(id1, []models.Measurement{
		{Pressure: models.Float(5), QualityFlag: 1},
		{Pressure: models.Float(10), QualityFlag: 1},
	}); err != nil {
		t.Fatalf("InsertMeasurements() error = %v", err)
	}

	stats, err = s.Summary()
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if stats.TotalProfiles != 2 {
		t.Errorf("TotalProfiles = %d, want 2", stats.TotalProfiles)
	}
	if stats.TotalMeasurements != 2 {
		t.Errorf("TotalMeasurements = %d, want 2", stats.TotalMeasurements)
	}
	if stats.UniqueFloats != 2 {
		t.Errorf("UniqueFloats = %d, want 2", stats.UniqueFloats)
	}
	if stats.EarliestDate == nil || stats.EarliestDate.Year() != 2023 {
		t.Errorf("EarliestDate = %v, want 2023", stats.EarliestDate)
	}
	if stats.LatestDate == nil || stats.LatestDate.Year() != 2024 {
		t.Errorf("LatestDate = %v, want 2024", stats.LatestDate)
	}
	if stats.MaxLat == nil || *stats.MaxLat != 40.0 {
		t.Errorf("MaxLat = %v, want 40.0", stats.MaxLat)
	}
}

func TestProfileStore_DeleteCascades(t *testing.T) {
	s := testStorage(t)

	id, _, err := s.InsertProfile(testProfile("doomed"))
	if err != nil {
		t.Fatalf("InsertProfile() error = %v", err)
	}
	if err := s.InsertMeasurements(id, []models.Measurement{
		{Pressure: models.Float(5), QualityFlag: 1},
	}); err != nil {
		t.Fatalf("InsertMeasurements() error = %v", err)
	}
	if err := s.SaveMetadata(id, []models.MetadataEntry{
		{ParameterName: "STATION_PARAMETERS", ParameterValue: "PRES TEMP PSAL"},
	}); err != nil {
		t.Fatalf("SaveMetadata() error = %v", err)
	}

	if err := s.DeleteProfile(id); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}

	ms, err := s.MeasurementsForProfile(id)
	if err != nil {
		t.Fatalf("MeasurementsForProfile() error = %v", err)
	}
	if len(ms) != 0 {
		t.Errorf("got %d orphan measurements, want 0", len(ms))
	}
	md, err := s.MetadataForProfile(id)
	if err != nil {
		t.Fatalf("MetadataForProfile() error = %v", err)
	}
	if len(md) != 0 {
		t.Errorf("got %d orphan metadata rows, want 0", len(md))
	}
}

func TestProfileStore_ListIDs(t *testing.T) {
	s := testStorage(t)

	a, _, _ := s.InsertProfile(testProfile("l1"))
	b, _, _ := s.InsertProfile(testProfile("l2"))

	ids, err := s.ListProfileIDs()
	if err != nil {
		t.Fatalf("ListProfileIDs() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Errorf("ListProfileIDs() = %v, want [%d %d]", ids, a, b)
	}
}
