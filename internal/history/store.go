package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeLayout has fixed-width fractional seconds so stored timestamps sort
// lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const entryColumns = "id, request_id, created_at, url, outcome, error_kind, error_message, relay_id, relay_event, duration_ms"

// Store manages the dispatch journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or connects to the journal at path. Concurrent first opens from
// separate processes are serialized by a lock on "<path>.lock".
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire history lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts an entry. A missing ID or timestamp is filled in and the
// stored entry is returned.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.ID) == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()
	if entry.Outcome == "" {
		entry.Outcome = OutcomeOK
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO dispatches (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		nullableString(entry.RequestID),
		entry.CreatedAt.Format(timeLayout),
		entry.URL,
		string(entry.Outcome),
		nullableString(entry.ErrorKind),
		nullableString(entry.ErrorMessage),
		nullableString(entry.RelayID),
		nullableString(entry.RelayEvent),
		entry.Duration.Milliseconds(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert dispatch: %w", err)
	}
	return entry, nil
}

// List returns the most recent entries, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM dispatches ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dispatches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispatches: %w", err)
	}
	return entries, nil
}

// Prune deletes entries created before now minus olderThan and returns how
// many were removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("prune window must be positive, got %s", olderThan)
	}
	cutoff := s.now().Add(-olderThan).UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx, `DELETE FROM dispatches WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune dispatches: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		id           string
		requestID    sql.NullString
		createdRaw   string
		url          string
		outcome      string
		errorKind    sql.NullString
		errorMessage sql.NullString
		relayID      sql.NullString
		relayEvent   sql.NullString
		durationMS   int64
	)
	if err := scanner.Scan(&id, &requestID, &createdRaw, &url, &outcome, &errorKind, &errorMessage, &relayID, &relayEvent, &durationMS); err != nil {
		return Entry{}, err
	}
	entry := Entry{
		ID:           id,
		RequestID:    requestID.String,
		URL:          url,
		Outcome:      Outcome(outcome),
		ErrorKind:    errorKind.String,
		ErrorMessage: errorMessage.String,
		RelayID:      relayID.String,
		RelayEvent:   relayEvent.String,
		Duration:     time.Duration(durationMS) * time.Millisecond,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
