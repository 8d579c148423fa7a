package store

import (
	"database/sql"
	"time"

	"github.com/calder/fishcast/internal/models"
)

// ReportBucketSeconds is the cache granularity: reports are keyed by spot and
// 30-minute time bucket, so repeat requests inside a bucket hit the cache.
const ReportBucketSeconds = 1800

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// BucketFor returns the cache bucket for an instant.
func BucketFor(t time.Time) int64 {
	return t.UTC().Unix() / ReportBucketSeconds
}

func (s *Store) UpsertSpot(sp models.Spot) error {
	_, err := s.db.Exec(`
		INSERT INTO spots (name, latitude, longitude, is_coastal, tide_station, active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			is_coastal = excluded.is_coastal,
			tide_station = excluded.tide_station,
			active = excluded.active
	`, sp.Name, sp.Latitude, sp.Longitude, sp.IsCoastal, sp.TideStation, sp.Active)
	return err
}

func (s *Store) GetActiveSpots() ([]models.Spot, error) {
	rows, err := s.db.Query(`SELECT id, name, latitude, longitude, is_coastal, tide_station, active FROM spots WHERE active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spots []models.Spot
	for rows.Next() {
		var sp models.Spot
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Latitude, &sp.Longitude, &sp.IsCoastal, &sp.TideStation, &sp.Active); err != nil {
			return nil, err
		}
		spots = append(spots, sp)
	}
	return spots, rows.Err()
}

func (s *Store) GetSpotByName(name string) (*models.Spot, error) {
	row := s.db.QueryRow(`SELECT id, name, latitude, longitude, is_coastal, tide_station, active FROM spots WHERE name = ?`, name)

	var sp models.Spot
	err := row.Scan(&sp.ID, &sp.Name, &sp.Latitude, &sp.Longitude, &sp.IsCoastal, &sp.TideStation, &sp.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// SaveReport caches a computed report payload for a spot and bucket.
func (s *Store) SaveReport(spotID int64, bucket int64, payload string) error {
	_, err := s.db.Exec(`
		INSERT INTO reports (spot_id, bucket, payload, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(spot_id, bucket) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at
	`, spotID, bucket, payload, time.Now().UTC())
	return err
}

// GetReport returns the cached payload for a spot and bucket, or "" on miss.
func (s *Store) GetReport(spotID int64, bucket int64) (string, error) {
	row := s.db.QueryRow(`SELECT payload FROM reports WHERE spot_id = ? AND bucket = ?`, spotID, bucket)

	var payload string
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return payload, nil
}

// PruneReports deletes cached reports older than the cutoff.
func (s *Store) PruneReports(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM reports WHERE bucket < ?`, BucketFor(olderThan))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
