/*
Package sqlite provides a SQLite-backed seed database for the workforce ledger.

PURPOSE:
  Implements workforce.Source and workforce.Sink using SQLite. A host loads
  the initial population from here at startup, and seeding tools (YAML
  import, demo scenarios) write populations here. A running Ledger does not
  write its mutations back.

KEY TABLES:
  labourers:            Labourer records (rate as TEXT decimal)
  attendance:           One row per (labourer, date)
  contractors:          Contractor records (balance as TEXT decimal)
  contractor_labourers: Crew membership, one contractor per labourer
  work_orders:          Work order records
  work_order_labourers: Crew assigned to a work order

ORDERING:
  Every table carries a position column so Load restores insertion order.

CONSTRAINTS:
  - idx_attendance_labourer_date: At most one attendance row per day
  - contractor_labourers.labourer_id UNIQUE: No cross-contractor sharing
  - Foreign keys on all link tables

SAVE SEMANTICS:
  Save replaces the whole population inside one SQL transaction: either the
  new population is stored in full or the previous one is kept.

USAGE:
  store, err := sqlite.New("./data/seed.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger, err := workforce.LoadLedger(ctx, store)

SEE ALSO:
  - workforce/store.go: Source and Sink interfaces
  - workforce/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/workforce-ledger/workforce"
)

// Store implements workforce.Source and workforce.Sink using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ workforce.Source = (*Store)(nil)
	_ workforce.Sink   = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS labourers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		rate TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance (
		labourer_id TEXT NOT NULL REFERENCES labourers(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('present', 'absent', 'half', 'overtime')),
		hours TEXT NOT NULL DEFAULT '0',
		position INTEGER NOT NULL
	);

	-- CRITICAL: one attendance row per labourer per day
	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_labourer_date
		ON attendance(labourer_id, date);

	CREATE TABLE IF NOT EXISTS contractors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		company TEXT NOT NULL DEFAULT '',
		contact TEXT NOT NULL DEFAULT '',
		balance TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contractor_labourers (
		contractor_id TEXT NOT NULL REFERENCES contractors(id) ON DELETE CASCADE,
		labourer_id TEXT NOT NULL UNIQUE REFERENCES labourers(id) ON DELETE CASCADE,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS work_orders (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		contractor_id TEXT REFERENCES contractors(id) ON DELETE SET NULL,
		status TEXT NOT NULL CHECK (status IN ('scheduled', 'in_progress', 'completed', 'blocked')),
		start_date TEXT NOT NULL,
		end_date TEXT,
		estimated_hours TEXT NOT NULL DEFAULT '0',
		location TEXT NOT NULL DEFAULT '',
		notes TEXT,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS work_order_labourers (
		work_order_id TEXT NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
		labourer_id TEXT NOT NULL REFERENCES labourers(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		PRIMARY KEY (work_order_id, labourer_id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SAVE
// =============================================================================

// Save replaces the stored population atomically.
func (s *Store) Save(ctx context.Context, pop workforce.Population) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := resetTx(ctx, sqlTx); err != nil {
		return err
	}

	for i, l := range pop.Labourers {
		if _, err := sqlTx.ExecContext(ctx,
			`INSERT INTO labourers (id, name, role, rate, position) VALUES (?, ?, ?, ?, ?)`,
			string(l.ID), l.Name, l.Role, l.Rate.String(), i,
		); err != nil {
			return fmt.Errorf("failed to save labourer %s: %w", l.ID, err)
		}
		for j, rec := range l.Attendance {
			if _, err := sqlTx.ExecContext(ctx,
				`INSERT INTO attendance (labourer_id, date, status, hours, position) VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT(labourer_id, date) DO UPDATE SET status = excluded.status, hours = excluded.hours`,
				string(l.ID), rec.Date.String(), string(rec.Status), rec.Hours.String(), j,
			); err != nil {
				return fmt.Errorf("failed to save attendance %s/%s: %w", l.ID, rec.Date, err)
			}
		}
	}

	for i, c := range pop.Contractors {
		if _, err := sqlTx.ExecContext(ctx,
			`INSERT INTO contractors (id, name, company, contact, balance, position) VALUES (?, ?, ?, ?, ?, ?)`,
			string(c.ID), c.Name, c.Company, c.Contact, c.Balance.String(), i,
		); err != nil {
			return fmt.Errorf("failed to save contractor %s: %w", c.ID, err)
		}
		for j, lid := range c.Labourers {
			if _, err := sqlTx.ExecContext(ctx,
				`INSERT INTO contractor_labourers (contractor_id, labourer_id, position) VALUES (?, ?, ?)`,
				string(c.ID), string(lid), j,
			); err != nil {
				return fmt.Errorf("failed to save crew %s/%s: %w", c.ID, lid, err)
			}
		}
	}

	for i, w := range pop.WorkOrders {
		var endDate sql.NullString
		if w.EndDate != nil {
			endDate = nullString(w.EndDate.String())
		}
		if _, err := sqlTx.ExecContext(ctx,
			`INSERT INTO work_orders (id, title, contractor_id, status, start_date, end_date, estimated_hours, location, notes, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(w.ID), w.Title, nullString(string(w.ContractorID)), string(w.Status), w.StartDate.String(),
			endDate, w.EstimatedHours.String(), w.Location, nullString(w.Notes), i,
		); err != nil {
			return fmt.Errorf("failed to save work order %s: %w", w.ID, err)
		}
		for j, lid := range w.Labourers {
			if _, err := sqlTx.ExecContext(ctx,
				`INSERT INTO work_order_labourers (work_order_id, labourer_id, position) VALUES (?, ?, ?)`,
				string(w.ID), string(lid), j,
			); err != nil {
				return fmt.Errorf("failed to save work order crew %s/%s: %w", w.ID, lid, err)
			}
		}
	}

	return sqlTx.Commit()
}

// Reset deletes the stored population.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return resetTx(ctx, s.db)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func resetTx(ctx context.Context, db execer) error {
	tables := []string{"work_order_labourers", "work_orders", "contractor_labourers", "contractors", "attendance", "labourers"}
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the stored population in insertion order.
func (s *Store) Load(ctx context.Context) (workforce.Population, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pop workforce.Population
	var err error
	if pop.Labourers, err = s.loadLabourers(ctx); err != nil {
		return workforce.Population{}, err
	}
	if pop.Contractors, err = s.loadContractors(ctx); err != nil {
		return workforce.Population{}, err
	}
	if pop.WorkOrders, err = s.loadWorkOrders(ctx); err != nil {
		return workforce.Population{}, err
	}
	return pop, nil
}

func (s *Store) loadLabourers(ctx context.Context) ([]workforce.Labourer, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, role, rate FROM labourers ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labourers []workforce.Labourer
	index := make(map[workforce.LabourerID]int)
	for rows.Next() {
		var l workforce.Labourer
		var id, rate string
		if err := rows.Scan(&id, &l.Name, &l.Role, &rate); err != nil {
			return nil, err
		}
		l.ID = workforce.LabourerID(id)
		if l.Rate, err = parseDecimal(rate); err != nil {
			return nil, fmt.Errorf("labourer %s rate: %w", id, err)
		}
		index[l.ID] = len(labourers)
		labourers = append(labourers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	att, err := s.db.QueryContext(ctx, "SELECT labourer_id, date, status, hours FROM attendance ORDER BY labourer_id, position")
	if err != nil {
		return nil, err
	}
	defer att.Close()

	for att.Next() {
		var lid, date, status, hours string
		if err := att.Scan(&lid, &date, &status, &hours); err != nil {
			return nil, err
		}
		rec := workforce.AttendanceRecord{Status: workforce.AttendanceStatus(status)}
		if rec.Date, err = workforce.ParseDate(date); err != nil {
			return nil, err
		}
		if rec.Hours, err = parseDecimal(hours); err != nil {
			return nil, fmt.Errorf("attendance %s/%s hours: %w", lid, date, err)
		}
		i, ok := index[workforce.LabourerID(lid)]
		if !ok {
			continue
		}
		labourers[i].Attendance = append(labourers[i].Attendance, rec)
	}
	return labourers, att.Err()
}

func (s *Store) loadContractors(ctx context.Context) ([]workforce.Contractor, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, company, contact, balance FROM contractors ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contractors []workforce.Contractor
	index := make(map[workforce.ContractorID]int)
	for rows.Next() {
		var c workforce.Contractor
		var id, balance string
		if err := rows.Scan(&id, &c.Name, &c.Company, &c.Contact, &balance); err != nil {
			return nil, err
		}
		c.ID = workforce.ContractorID(id)
		if c.Balance, err = parseDecimal(balance); err != nil {
			return nil, fmt.Errorf("contractor %s balance: %w", id, err)
		}
		index[c.ID] = len(contractors)
		contractors = append(contractors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crew, err := s.db.QueryContext(ctx, "SELECT contractor_id, labourer_id FROM contractor_labourers ORDER BY contractor_id, position")
	if err != nil {
		return nil, err
	}
	defer crew.Close()

	for crew.Next() {
		var cid, lid string
		if err := crew.Scan(&cid, &lid); err != nil {
			return nil, err
		}
		if i, ok := index[workforce.ContractorID(cid)]; ok {
			contractors[i].Labourers = append(contractors[i].Labourers, workforce.LabourerID(lid))
		}
	}
	return contractors, crew.Err()
}

func (s *Store) loadWorkOrders(ctx context.Context) ([]workforce.WorkOrder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, contractor_id, status, start_date, end_date, estimated_hours, location, notes
		 FROM work_orders ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []workforce.WorkOrder
	index := make(map[workforce.WorkOrderID]int)
	for rows.Next() {
		var w workforce.WorkOrder
		var id, status, startDate, estimated string
		var contractorID, endDate, notes sql.NullString
		if err := rows.Scan(&id, &w.Title, &contractorID, &status, &startDate, &endDate, &estimated, &w.Location, &notes); err != nil {
			return nil, err
		}
		w.ID = workforce.WorkOrderID(id)
		w.ContractorID = workforce.ContractorID(contractorID.String)
		w.Status = workforce.WorkOrderStatus(status)
		w.Notes = notes.String
		if w.StartDate, err = workforce.ParseDate(startDate); err != nil {
			return nil, err
		}
		if endDate.Valid {
			end, err := workforce.ParseDate(endDate.String)
			if err != nil {
				return nil, err
			}
			w.EndDate = &end
		}
		if w.EstimatedHours, err = parseDecimal(estimated); err != nil {
			return nil, fmt.Errorf("work order %s estimated hours: %w", id, err)
		}
		index[w.ID] = len(orders)
		orders = append(orders, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crew, err := s.db.QueryContext(ctx, "SELECT work_order_id, labourer_id FROM work_order_labourers ORDER BY work_order_id, position")
	if err != nil {
		return nil, err
	}
	defer crew.Close()

	for crew.Next() {
		var wid, lid string
		if err := crew.Scan(&wid, &lid); err != nil {
			return nil, err
		}
		if i, ok := index[workforce.WorkOrderID(wid)]; ok {
			orders[i].Labourers = append(orders[i].Labourers, workforce.LabourerID(lid))
		}
	}
	return orders, crew.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
