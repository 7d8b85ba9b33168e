package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	_ "modernc.org/sqlite"

	"github.com/josepaz/rumbo/core/model"
)

// SQLiteStore persists shipments and routes in a SQLite database. Records are
// stored as JSON documents with the columns needed for filtering pulled out.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `
    CREATE TABLE IF NOT EXISTS shipments (
        id TEXT PRIMARY KEY,
        state TEXT NOT NULL,
        created INTEGER NOT NULL,
        data TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_shipments_state ON shipments(state);
    CREATE TABLE IF NOT EXISTS routes (
        id TEXT PRIMARY KEY,
        state TEXT NOT NULL,
        created INTEGER NOT NULL,
        data TEXT NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// SaveShipment implements Store.
func (s *SQLiteStore) SaveShipment(ctx context.Context, sh model.Shipment) error {
	data, err := json.Marshal(sh)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO shipments (id, state, created, data)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET state = excluded.state, data = excluded.data`,
		sh.ID, string(sh.State), sh.CreatedAt.Unix(), string(data))
	return err
}

// Shipment implements Store.
func (s *SQLiteStore) Shipment(ctx context.Context, id string) (model.Shipment, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM shipments WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Shipment{}, ErrNotFound
	}
	if err != nil {
		return model.Shipment{}, err
	}
	var sh model.Shipment
	if err := json.Unmarshal([]byte(data), &sh); err != nil {
		return model.Shipment{}, err
	}
	return sh, nil
}

// ShipmentsByState implements Store.
func (s *SQLiteStore) ShipmentsByState(ctx context.Context, states ...model.ShipmentState) ([]model.Shipment, error) {
	query := `SELECT data FROM shipments ORDER BY created, id`
	args := []any{}
	if len(states) > 0 {
		query = `SELECT data FROM shipments WHERE state IN (`
		for i, st := range states {
			if i > 0 {
				query += ","
			}
			query += "?"
			args = append(args, string(st))
		}
		query += `) ORDER BY created, id`
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Shipment
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var sh model.Shipment
		if err := json.Unmarshal([]byte(data), &sh); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

// SaveRoute implements Store.
func (s *SQLiteStore) SaveRoute(ctx context.Context, r model.Route) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO routes (id, state, created, data)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET state = excluded.state, data = excluded.data`,
		r.ID, string(r.State), r.CreatedAt.Unix(), string(data))
	return err
}

// Route implements Store.
func (s *SQLiteStore) Route(ctx context.Context, id string) (model.Route, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM routes WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Route{}, ErrNotFound
	}
	if err != nil {
		return model.Route{}, err
	}
	var r model.Route
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return model.Route{}, err
	}
	return r, nil
}

// ActiveRoutes implements Store.
func (s *SQLiteStore) ActiveRoutes(ctx context.Context) ([]model.Route, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM routes ORDER BY created, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Route
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r model.Route
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, err
		}
		if r.State == model.RouteCompleted {
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Routes implements Store.
func (s *SQLiteStore) Routes(ctx context.Context) ([]model.Route, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM routes ORDER BY created, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Route
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r model.Route
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ApplyRun implements Store using one transaction for the whole run.
func (s *SQLiteStore) ApplyRun(ctx context.Context, routes []model.Route, shipments []model.Shipment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range routes {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO routes (id, state, created, data)
            VALUES (?, ?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET state = excluded.state, data = excluded.data`,
			r.ID, string(r.State), r.CreatedAt.Unix(), string(data)); err != nil {
			return err
		}
	}
	for _, sh := range shipments {
		data, err := json.Marshal(sh)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO shipments (id, state, created, data)
            VALUES (?, ?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET state = excluded.state, data = excluded.data`,
			sh.ID, string(sh.State), sh.CreatedAt.Unix(), string(data)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close implements Store.
func (s *SQLiteStore) Close() error { return s.db.Close() }
