// Package store persists customer records in a single-table SQLite file.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/smileynet/custdesk/internal/customer"
)

// DefaultPath is the backing file shared by the entry form and the viewer.
const DefaultPath = "customer_data.db"

// Table is the name of the single customer table.
const Table = "customers"

// Sentinel errors for caller-checkable conditions.
var (
	ErrInit   = errors.New("store: initialization failed")
	ErrWrite  = errors.New("store: write failed")
	ErrRead   = errors.New("store: read failed")
	ErrClosed = errors.New("store: closed")
)

const createTable = `
CREATE TABLE IF NOT EXISTS customers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    birthday TEXT,
    email TEXT,
    phone TEXT,
    address TEXT,
    contact_method TEXT
)`

const insertCustomer = `
INSERT INTO customers (name, birthday, email, phone, address, contact_method)
VALUES (?, ?, ?, ?, ?, ?)`

const selectCustomers = `SELECT * FROM customers ORDER BY id ASC`

// Columns is the column order of the customers table.
var Columns = []string{"id", "name", "birthday", "email", "phone", "address", "contact_method"}

// InitError reports that the backing file could not be opened or the schema
// could not be created. It matches ErrInit via errors.Is.
type InitError struct {
	Path string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("store: initializing %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrInit and the underlying cause.
func (e *InitError) Unwrap() []error { return []error{ErrInit, e.Err} }

// Store owns the SQLite handle for one backing file.
type Store struct {
	db          *sql.DB
	path        string
	log         zerolog.Logger
	busyTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the operator logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithBusyTimeout sets how long SQLite waits on a file lock held by another
// process before failing.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) { s.busyTimeout = d }
}

// Open opens (creating if absent) the SQLite file at path and ensures the
// customers table exists. Failures are returned as *InitError.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:        path,
		log:         zerolog.Nop(),
		busyTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &InitError{Path: path, Err: err}
	}
	// One writer, one connection. Pragmas below are per-connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &InitError{Path: path, Err: err}
	}
	pragma := fmt.Sprintf("PRAGMA busy_timeout = %d", s.busyTimeout.Milliseconds())
	if _, err := db.ExecContext(ctx, pragma); err != nil {
		_ = db.Close()
		return nil, &InitError{Path: path, Err: err}
	}

	s.db = db
	if err := s.Init(ctx); err != nil {
		_ = db.Close()
		s.db = nil
		return nil, err
	}

	s.log.Debug().Str("path", path).Msg("store opened")
	return s, nil
}

// Init creates the customers table if it does not exist. Safe to call on a
// store whose table already exists.
func (s *Store) Init(ctx context.Context) error {
	if s == nil || s.db == nil {
		return &InitError{Path: s.pathOrEmpty(), Err: ErrClosed}
	}
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return &InitError{Path: s.path, Err: err}
	}
	return nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.pathOrEmpty()
}

func (s *Store) pathOrEmpty() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Insert appends r as a new row and returns the assigned ID. r.ID is ignored.
// The write runs in a transaction; on failure nothing is persisted and the
// returned error matches ErrWrite.
func (s *Store) Insert(ctx context.Context, r customer.Record) (id int64, err error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, ErrClosed)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %w", ErrWrite, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.log.Error().Err(rbErr).Msg("rollback failed")
			}
		}
	}()

	res, err := tx.ExecContext(ctx, insertCustomer,
		r.Name, r.Birthday, r.Email, r.Phone, r.Address, r.ContactMethod)
	if err != nil {
		return 0, fmt.Errorf("%w: insert: %w", ErrWrite, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading id: %w", ErrWrite, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", ErrWrite, err)
	}

	s.log.Info().Int64("id", id).Str("name", r.Name).Msg("customer inserted")
	return id, nil
}

// Close releases the handle. It is safe to call more than once and on a
// store that was never opened.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("store: closing %s: %w", s.path, err)
	}
	return nil
}
