package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the local stores through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pilot/data/pilot.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pilot", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "pilot.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecordStore returns a RecordStore interface backed by this store.
func (s *Store) RecordStore() driven.RecordStore {
	return &recordStore{store: s}
}

// TransferHistory returns a TransferHistory backed by this store that keeps
// at most maxEntries records. A non-positive maxEntries keeps everything.
func (s *Store) TransferHistory(maxEntries int) driven.TransferHistory {
	return &transferHistory{store: s, maxEntries: maxEntries, now: time.Now}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Record Store ====================

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// Save stores or replaces the record for a subject.
func (s *recordStore) Save(ctx context.Context, subject string, record domain.StructuredRecord) error {
	content, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshalling record: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO records (subject, content, version, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(subject) DO UPDATE SET
			content = excluded.content,
			version = excluded.version,
			updated_at = excluded.updated_at
	`, subject, string(content), record.DC.Version, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Get retrieves the record for a subject.
func (s *recordStore) Get(ctx context.Context, subject string) (*domain.StructuredRecord, error) {
	row := s.store.db.QueryRowContext(ctx, "SELECT content FROM records WHERE subject = ?", subject)

	var content string
	if err := row.Scan(&content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	var record domain.StructuredRecord
	if err := json.Unmarshal([]byte(content), &record); err != nil {
		return nil, fmt.Errorf("unmarshaling record: %w", err)
	}
	return &record, nil
}

// Delete removes the record for a subject.
func (s *recordStore) Delete(ctx context.Context, subject string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM records WHERE subject = ?", subject)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// ==================== Transfer History ====================

// transferHistory implements driven.TransferHistory.
type transferHistory struct {
	store      *Store
	maxEntries int
	now        func() time.Time
}

var _ driven.TransferHistory = (*transferHistory)(nil)

// Record appends a transfer result and trims the oldest records over the cap.
func (h *transferHistory) Record(ctx context.Context, result domain.TransferResult, remotePath string) error {
	tx, err := h.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transfer_log (id, dataframe, status, task_id, start_time)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), remotePath, result.Code, result.TaskID, h.now().UTC())
	if err != nil {
		return fmt.Errorf("saving transfer: %w", err)
	}

	if h.maxEntries > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM transfer_log WHERE seq NOT IN (
				SELECT seq FROM transfer_log ORDER BY seq DESC LIMIT ?
			)
		`, h.maxEntries)
		if err != nil {
			return fmt.Errorf("trimming transfer log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transfer: %w", err)
	}
	return nil
}

// List returns retained records, newest first.
func (h *transferHistory) List(ctx context.Context) ([]domain.TransferLogEntry, error) {
	rows, err := h.store.db.QueryContext(ctx, `
		SELECT id, dataframe, status, task_id, start_time
		FROM transfer_log ORDER BY seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying transfer log: %w", err)
	}
	defer rows.Close()

	var entries []domain.TransferLogEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.TransferLogEntry
		var startTime sql.NullTime
		if err := rows.Scan(&e.ID, &e.Dataframe, &e.Status, &e.TaskID, &startTime); err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}
		if startTime.Valid {
			e.StartTime = startTime.Time
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transfer log: %w", err)
	}

	return entries, nil
}
