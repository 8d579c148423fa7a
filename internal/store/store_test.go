package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/calder/fishcast/internal/models"

	_ "modernc.org/sqlite"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	s := New(db)
	if err := s.Migrate(); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestMigrate_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	if err := s.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestUpsertAndGetSpot(t *testing.T) {
	s := setupTestStore(t)

	spot := models.Spot{
		Name: "Puget Sound", Latitude: 47.6, Longitude: -122.34,
		IsCoastal: true, TideStation: "9447130", Active: true,
	}
	if err := s.UpsertSpot(spot); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSpotByName("Puget Sound")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("spot not found after upsert")
	}
	if got.TideStation != "9447130" || !got.IsCoastal {
		t.Errorf("got %+v", got)
	}

	// Upsert with the same name updates in place.
	spot.TideStation = "9447131"
	if err := s.UpsertSpot(spot); err != nil {
		t.Fatal(err)
	}
	got2, err := s.GetSpotByName("Puget Sound")
	if err != nil {
		t.Fatal(err)
	}
	if got2.ID != got.ID {
		t.Errorf("upsert created a new row: id %d -> %d", got.ID, got2.ID)
	}
	if got2.TideStation != "9447131" {
		t.Errorf("TideStation = %s, want updated value", got2.TideStation)
	}
}

func TestGetSpotByName_Missing(t *testing.T) {
	s := setupTestStore(t)
	got, err := s.GetSpotByName("nowhere")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestGetActiveSpots_ExcludesInactive(t *testing.T) {
	s := setupTestStore(t)
	if err := s.UpsertSpot(models.Spot{Name: "Active Lake", Latitude: 45, Longitude: -120, Active: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertSpot(models.Spot{Name: "Closed River", Latitude: 46, Longitude: -121, Active: false}); err != nil {
		t.Fatal(err)
	}

	spots, err := s.GetActiveSpots()
	if err != nil {
		t.Fatal(err)
	}
	if len(spots) != 1 || spots[0].Name != "Active Lake" {
		t.Errorf("got %+v, want just Active Lake", spots)
	}
}

func TestReportCache_RoundTrip(t *testing.T) {
	s := setupTestStore(t)
	if err := s.UpsertSpot(models.Spot{Name: "Lake", Latitude: 45, Longitude: -120, Active: true}); err != nil {
		t.Fatal(err)
	}
	spot, err := s.GetSpotByName("Lake")
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2024, 6, 1, 12, 10, 0, 0, time.UTC)
	bucket := BucketFor(now)

	if err := s.SaveReport(spot.ID, bucket, `{"score":80}`); err != nil {
		t.Fatal(err)
	}
	payload, err := s.GetReport(spot.ID, bucket)
	if err != nil {
		t.Fatal(err)
	}
	if payload != `{"score":80}` {
		t.Errorf("payload = %q", payload)
	}

	// Same bucket overwrites, different bucket misses.
	if err := s.SaveReport(spot.ID, bucket, `{"score":82}`); err != nil {
		t.Fatal(err)
	}
	payload, err = s.GetReport(spot.ID, bucket)
	if err != nil {
		t.Fatal(err)
	}
	if payload != `{"score":82}` {
		t.Errorf("payload after overwrite = %q", payload)
	}

	miss, err := s.GetReport(spot.ID, bucket+1)
	if err != nil {
		t.Fatal(err)
	}
	if miss != "" {
		t.Errorf("expected miss for next bucket, got %q", miss)
	}
}

func TestBucketFor_SameHalfHour(t *testing.T) {
	a := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	b := time.Date(2024, 6, 1, 12, 29, 59, 0, time.UTC)
	c := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	if BucketFor(a) != BucketFor(b) {
		t.Error("times in the same half hour landed in different buckets")
	}
	if BucketFor(a) == BucketFor(c) {
		t.Error("12:00 and 12:30 share a bucket")
	}
}

func TestPruneReports(t *testing.T) {
	s := setupTestStore(t)
	if err := s.UpsertSpot(models.Spot{Name: "Lake", Latitude: 45, Longitude: -120, Active: true}); err != nil {
		t.Fatal(err)
	}
	spot, err := s.GetSpotByName("Lake")
	if err != nil {
		t.Fatal(err)
	}

	old := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := s.SaveReport(spot.ID, BucketFor(old), `{}`); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveReport(spot.ID, BucketFor(recent), `{}`); err != nil {
		t.Fatal(err)
	}

	n, err := s.PruneReports(time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("pruned %d rows, want 1", n)
	}

	payload, err := s.GetReport(spot.ID, BucketFor(recent))
	if err != nil {
		t.Fatal(err)
	}
	if payload == "" {
		t.Error("recent report pruned")
	}
}
