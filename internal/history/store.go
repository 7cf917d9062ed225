package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/czteam/czdownloader/internal/download"
	"github.com/czteam/czdownloader/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// FileName is the database file created in the config directory
const FileName = "history.db"

// DefaultRecentLimit is used when Recent is called with a non-positive limit
const DefaultRecentLimit = 50

// ErrNotFinished is returned when recording an item that is neither
// completed nor failed
var ErrNotFinished = errors.New("item has not finished")

// Entry is one finished download
type Entry struct {
	ID           int64
	ItemID       string
	URL          string
	Title        string
	Platform     string
	Quality      model.Quality
	Status       model.ItemStatus
	Filename     string
	ErrorKind    string
	ErrorMessage string
	FinishedAt   time.Time
}

// Store is the history database
type Store struct {
	db *sqlx.DB
}

var _ download.Recorder = (*Store)(nil)

type entryRow struct {
	ID           int64          `db:"id"`
	ItemID       string         `db:"item_id"`
	URL          string         `db:"url"`
	Title        string         `db:"title"`
	Platform     sql.NullString `db:"platform"`
	Quality      string         `db:"quality"`
	Status       string         `db:"status"`
	Filename     sql.NullString `db:"filename"`
	ErrorKind    sql.NullString `db:"error_kind"`
	ErrorMessage sql.NullString `db:"error_message"`
	FinishedAt   int64          `db:"finished_at"`
}

// DefaultPath returns history.db inside the user config directory
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "czDownloader", FileName), nil
}

// Open opens or creates the database at path and applies migrations
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db := sqlx.NewDb(sqlDB, "sqlite3")
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// RecordOutcome appends a completed or failed item
func (s *Store) RecordOutcome(ctx context.Context, item model.VideoItem) error {
	if item.Status != model.StatusCompleted && item.Status != model.StatusError {
		return fmt.Errorf("%w: %s is %s", ErrNotFinished, item.ID, item.Status)
	}

	finished := item.UpdatedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	query := `
		INSERT INTO downloads (item_id, url, title, platform, quality, status, filename, error_kind, error_message, finished_at)
		VALUES (:item_id, :url, :title, :platform, :quality, :status, :filename, :error_kind, :error_message, :finished_at)
	`

	_, err := s.db.NamedExecContext(ctx, query, entryRow{
		ItemID:       item.ID,
		URL:          item.URL,
		Title:        item.GetDisplayTitle(),
		Platform:     nullString(item.Platform),
		Quality:      string(item.Quality),
		Status:       string(item.Status),
		Filename:     nullString(item.Filename),
		ErrorKind:    nullString(item.ErrorKind),
		ErrorMessage: nullString(item.ErrorMessage),
		FinishedAt:   finished.Unix(),
	})
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var rows []entryRow
	query := `SELECT * FROM downloads ORDER BY finished_at DESC, id DESC LIMIT ?`
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("get recent entries: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

// CountByStatus returns the number of entries per status
func (s *Store) CountByStatus(ctx context.Context) (map[model.ItemStatus]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}

	query := `SELECT status, COUNT(*) AS count FROM downloads GROUP BY status`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	counts := make(map[model.ItemStatus]int, len(rows))
	for _, row := range rows {
		counts[model.ItemStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// Clear deletes every entry
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM downloads`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (r entryRow) toEntry() Entry {
	return Entry{
		ID:           r.ID,
		ItemID:       r.ItemID,
		URL:          r.URL,
		Title:        r.Title,
		Platform:     r.Platform.String,
		Quality:      model.Quality(r.Quality),
		Status:       model.ItemStatus(r.Status),
		Filename:     r.Filename.String,
		ErrorKind:    r.ErrorKind.String,
		ErrorMessage: r.ErrorMessage.String,
		FinishedAt:   time.Unix(r.FinishedAt, 0),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
