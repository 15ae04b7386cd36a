package repositories

import (
	"database/sql"
	"errors"

	"github.com/ronitparmar24/metro-ticket-booking-system/internal/domain/models"
	"github.com/ronitparmar24/metro-ticket-booking-system/internal/utils"
)

type StationRepository struct {
	DB *sql.DB
}

// GetCoordinates resolves a station name to its normalized coordinates.
// A missing station is not an error: the fare calculator has defined
// degraded behavior for unknown stations, so ok=false is a normal outcome.
func (r StationRepository) GetCoordinates(name string) (x, y float64, ok bool, err error) {
	err = r.DB.QueryRow(`
		SELECT x, y FROM station_locations WHERE name = ? LIMIT 1
	`, utils.NormalizeStation(name)).Scan(&x, &y)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	return x, y, true, nil
}

func (r StationRepository) List() ([]models.Station, error) {
	rows, err := r.DB.Query(`SELECT name, x, y FROM station_locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := []models.Station{}
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.Name, &s.X, &s.Y); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

func (r StationRepository) Upsert(name string, x, y float64) error {
	_, err := r.DB.Exec(`
		INSERT INTO station_locations (name, x, y) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE x = VALUES(x), y = VALUES(y)
	`, utils.NormalizeStation(name), x, y)
	return err
}
