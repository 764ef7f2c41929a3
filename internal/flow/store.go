package flow

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"ChartStack/internal/model"

	_ "modernc.org/sqlite"
)

// Record is one raw investor-flow observation: signed net value for a role
// on a date, with the sell/buy legs kept for auditing.
type Record struct {
	Date model.TimeKey
	Role string
	Sell float64
	Buy  float64
	Net  float64
}

// Store persists investor-flow records to a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens (or creates) the SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the API can read while the updater writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] flow store opened: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS investor_flow (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset TEXT NOT NULL,
			date    TEXT NOT NULL,
			role    TEXT NOT NULL,
			sell    REAL,
			buy     REAL,
			net     REAL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_flow_key ON investor_flow(dataset, date, role)`,

		`CREATE TABLE IF NOT EXISTS refresh_history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			dataset    TEXT NOT NULL,
			rows_added INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_history(timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveRecords upserts flow records for a dataset. A re-imported (date, role)
// pair replaces the stored legs rather than duplicating the row.
func (s *Store) SaveRecords(dataset string, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin flow tx: %w", err)
	}
	for _, rec := range records {
		_, err := tx.Exec(`INSERT INTO investor_flow (dataset, date, role, sell, buy, net)
			VALUES (?,?,?,?,?,?)
			ON CONFLICT(dataset, date, role) DO UPDATE SET
				sell=excluded.sell, buy=excluded.buy, net=excluded.net`,
			dataset, rec.Date, rec.Role, rec.Sell, rec.Buy, rec.Net,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert flow record: %w", err)
		}
	}
	return tx.Commit()
}

// Deltas returns the per-role signed net deltas for a dataset, ordered
// ascending by date, ready for Accumulate.
func (s *Store) Deltas(dataset string) (map[string][]model.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT date, role, net FROM investor_flow WHERE dataset = ? ORDER BY date ASC`,
		dataset,
	)
	if err != nil {
		return nil, fmt.Errorf("query flow deltas: %w", err)
	}
	defer rows.Close()

	deltas := make(map[string][]model.Point)
	for rows.Next() {
		var date, role string
		var net float64
		if err := rows.Scan(&date, &role, &net); err != nil {
			return nil, fmt.Errorf("scan flow row: %w", err)
		}
		when, err := model.ParseTimeKey(date)
		if err != nil {
			log.Printf("[WARN] skipping flow row with bad date %q: %v", date, err)
			continue
		}
		deltas[role] = append(deltas[role], model.Point{Time: when, Value: net})
	}
	return deltas, rows.Err()
}

// HasData reports whether any flow records exist for a dataset.
func (s *Store) HasData(dataset string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM investor_flow WHERE dataset = ?`, dataset).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count flow rows: %w", err)
	}
	return count > 0, nil
}

// RecordRefresh appends one row to the updater refresh history.
func (s *Store) RecordRefresh(dataset string, rowsAdded int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO refresh_history (timestamp, dataset, rows_added) VALUES (?,?,?)`,
		time.Now().Unix(), dataset, rowsAdded,
	)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	log.Println("[INFO] closing flow store")
	return s.db.Close()
}
