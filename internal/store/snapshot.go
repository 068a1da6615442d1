// Package store provides an opt-in SQLite store for named ledger snapshots.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/cbudget/internal/model"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrSnapshotNotFound is returned when no snapshot has the requested name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// savedAtLayout is fixed width so saved_at text sorts chronologically.
// time.RFC3339Nano trims trailing zeros and would not.
const savedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot is a saved income and ordered ledger.
type Snapshot struct {
	Name        string
	GrossSalary decimal.Decimal
	Commitments []model.Commitment
	SavedAt     time.Time
}

// SnapshotInfo summarizes a snapshot for listing.
type SnapshotInfo struct {
	Name        string
	GrossSalary decimal.Decimal
	Count       int
	Total       decimal.Decimal
	SavedAt     time.Time
}

// Store provides SQLite-backed snapshot storage.
type Store struct {
	db *sql.DB
}

// Open opens or creates the snapshot database at dbPath and migrates it.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the snapshot database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores snap under snap.Name, replacing any snapshot with that name.
// A zero SavedAt is stamped with the current time.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	if err := model.ValidateName(snap.Name); err != nil {
		return err
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE name = ?", snap.Name); err != nil {
		return fmt.Errorf("replacing snapshot %q: %w", snap.Name, err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO snapshots (name, gross_salary, saved_at) VALUES (?, ?, ?)`,
		snap.Name, snap.GrossSalary.String(), snap.SavedAt.UTC().Format(savedAtLayout))
	if err != nil {
		return fmt.Errorf("inserting snapshot %q: %w", snap.Name, err)
	}

	for i, c := range snap.Commitments {
		_, err = tx.ExecContext(ctx, `INSERT INTO snapshot_commitments
			(snapshot_name, position, name, amount, class)
			VALUES (?, ?, ?, ?, ?)`,
			snap.Name, i, c.Name, c.Amount.String(), string(c.Classification),
		)
		if err != nil {
			return fmt.Errorf("inserting commitment %q: %w", c.Name, err)
		}
	}

	return tx.Commit()
}

// Load reads the snapshot called name.
func (s *Store) Load(ctx context.Context, name string) (Snapshot, error) {
	snap := Snapshot{Name: name}

	var gross, savedAt string
	err := s.db.QueryRowContext(ctx, "SELECT gross_salary, saved_at FROM snapshots WHERE name = ?", name).
		Scan(&gross, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, fmt.Errorf("%w: %q", ErrSnapshotNotFound, name)
	}
	if err != nil {
		return snap, fmt.Errorf("reading snapshot %q: %w", name, err)
	}
	if snap.GrossSalary, err = decimal.NewFromString(gross); err != nil {
		return snap, fmt.Errorf("parsing gross salary: %w", err)
	}
	snap.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)

	rows, err := s.db.QueryContext(ctx, `SELECT name, amount, class FROM snapshot_commitments
		WHERE snapshot_name = ? ORDER BY position`, name)
	if err != nil {
		return snap, fmt.Errorf("reading commitments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c model.Commitment
		var amount, class string
		if err := rows.Scan(&c.Name, &amount, &class); err != nil {
			return snap, err
		}
		if c.Amount, err = decimal.NewFromString(amount); err != nil {
			return snap, fmt.Errorf("parsing amount for %q: %w", c.Name, err)
		}
		c.Classification = model.ParseClassification(class)
		snap.Commitments = append(snap.Commitments, c)
	}
	return snap, rows.Err()
}

// List returns every snapshot, most recently saved first.
func (s *Store) List(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT s.name, s.gross_salary, s.saved_at, c.amount
		FROM snapshots s
		LEFT JOIN snapshot_commitments c ON c.snapshot_name = s.name
		ORDER BY s.saved_at DESC, s.name, c.position`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SnapshotInfo
	for rows.Next() {
		var name, gross, savedAt string
		var amount sql.NullString
		if err := rows.Scan(&name, &gross, &savedAt, &amount); err != nil {
			return nil, err
		}

		if len(out) == 0 || out[len(out)-1].Name != name {
			info := SnapshotInfo{Name: name, Total: decimal.Zero}
			info.GrossSalary, _ = decimal.NewFromString(gross)
			info.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
			out = append(out, info)
		}
		if amount.Valid {
			last := &out[len(out)-1]
			a, err := decimal.NewFromString(amount.String)
			if err != nil {
				return nil, fmt.Errorf("parsing amount in %q: %w", name, err)
			}
			last.Count++
			last.Total = last.Total.Add(a)
		}
	}
	return out, rows.Err()
}

// Delete removes the snapshot called name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting snapshot %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrSnapshotNotFound, name)
	}
	return nil
}
