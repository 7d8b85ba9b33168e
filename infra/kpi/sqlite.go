// Package kpi persists per-driver distance KPIs in SQLite for deployments
// where the in-memory eco store would lose history on restart.
package kpi

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	core "github.com/josepaz/rumbo/core/metrics/eco"
)

// SQLiteStore persists KPI records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS driver_kpi (
        driver_id TEXT,
        day INTEGER,
        driven_km REAL,
        saved_km REAL,
        PRIMARY KEY(driver_id, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts or updates the KPI record aggregated by day.
func (s *SQLiteStore) Add(r core.Record) error {
	d := core.Day(r.Date)
	_, err := s.db.Exec(`INSERT INTO driver_kpi (driver_id, day, driven_km, saved_km)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(driver_id, day) DO UPDATE SET
            driven_km = driven_km + excluded.driven_km,
            saved_km = saved_km + excluded.saved_km`,
		r.DriverID, d.Unix(), r.DrivenKm, r.SavedKm)
	return err
}

// Query returns records in the range [start,end].
func (s *SQLiteStore) Query(driverID string, start, end time.Time) ([]core.Record, error) {
	start = core.Day(start)
	end = core.Day(end)
	rows, err := s.db.Query(`SELECT driver_id, day, driven_km, saved_km
        FROM driver_kpi WHERE driver_id = ? AND day >= ? AND day <= ? ORDER BY day`,
		driverID, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []core.Record
	for rows.Next() {
		var id string
		var ts int64
		var driven, saved float64
		if err := rows.Scan(&id, &ts, &driven, &saved); err != nil {
			return nil, err
		}
		res = append(res, core.Record{
			DriverID: id,
			Date:     time.Unix(ts, 0).UTC(),
			DrivenKm: driven,
			SavedKm:  saved,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
