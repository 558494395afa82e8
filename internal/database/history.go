package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/ghcrawl/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "history.db"

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB stores finished crawl runs.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run a crawl first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query_key TEXT NOT NULL,
		keywords TEXT NOT NULL,
		category TEXT NOT NULL,
		pages INTEGER NOT NULL DEFAULT 0,
		items INTEGER NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_key ON runs(query_key);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		owner TEXT,
		top_stat TEXT,
		UNIQUE(run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_items_url ON items(url);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// RunSummary describes a stored run without its records.
type RunSummary struct {
	ID         int64
	QueryKey   string
	Keywords   []string
	Category   model.Category
	Pages      int
	Items      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// SaveRun stores a finished result and returns its run ID.
func (h *HistoryDB) SaveRun(ctx context.Context, result *model.CrawlResult) (int64, error) {
	if result == nil {
		return 0, errors.New("cannot save nil result")
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal result: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // no-op after commit
	}()

	req := result.Request
	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (query_key, keywords, category, pages, items, started_at, finished_at, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		req.Key(),
		strings.Join(req.Keywords, ","),
		req.Category.String(),
		result.Pages,
		len(result.Records),
		formatTimestamp(result.StartedAt),
		formatTimestamp(result.FinishedAt),
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO items (run_id, position, url, owner, top_stat)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range result.Records {
		var owner, top sql.NullString
		if rec.HasDetail() {
			owner = sql.NullString{String: rec.Detail.Owner, Valid: true}
			if name, _, ok := rec.Detail.TopStat(); ok {
				top = sql.NullString{String: name, Valid: true}
			}
		}
		if _, err := stmt.ExecContext(ctx, runID, i, rec.Reference.String(), owner, top); err != nil {
			return 0, fmt.Errorf("failed to insert item %s: %w", rec.Reference, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns run summaries, newest first. An empty queryKey lists every run.
func (h *HistoryDB) ListRuns(ctx context.Context, queryKey string) ([]RunSummary, error) {
	query := `
	SELECT id, query_key, keywords, category, pages, items, started_at, finished_at
	FROM runs
	`
	args := []any{}
	if queryKey != "" {
		query += "WHERE query_key = ?\n"
		args = append(args, queryKey)
	}
	query += "ORDER BY started_at DESC, id DESC"

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			s                 RunSummary
			keywords, cat     string
			started, finished string
		)
		if err := rows.Scan(&s.ID, &s.QueryKey, &keywords, &cat, &s.Pages, &s.Items, &started, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.Keywords = model.SplitKeywords(keywords)
		s.Category = model.Category(cat)
		s.StartedAt = parseTimestamp(started)
		s.FinishedAt = parseTimestamp(finished)
		runs = append(runs, s)
	}
	return runs, rows.Err()
}

// GetRun returns the stored result of a run.
// It returns ErrRunNotFound if the ID does not exist.
func (h *HistoryDB) GetRun(ctx context.Context, id int64) (*model.CrawlResult, error) {
	var resultJSON string
	err := h.db.QueryRowContext(ctx, `SELECT result_json FROM runs WHERE id = ?`, id).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var result model.CrawlResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse run %d: %w", id, err)
	}
	return &result, nil
}

// SeenBefore reports how many earlier runs discovered url.
func (h *HistoryDB) SeenBefore(ctx context.Context, url string) (int, error) {
	var n int
	err := h.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT run_id) FROM items WHERE url = ?`, url).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count item runs: %w", err)
	}
	return n, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp returns the zero time if no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
