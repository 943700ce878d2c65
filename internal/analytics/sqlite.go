// ABOUTME: SQLite implementation of the analytics Store using modernc.org/sqlite
// ABOUTME: Provides event persistence and trending aggregation with automatic schema creation

package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "analytics")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("analytics store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS analytics_events (
			id            TEXT PRIMARY KEY,
			event_type    TEXT NOT NULL,
			plugin_id     TEXT,
			plugin_name   TEXT,
			plugin_tags   TEXT,
			client_id     TEXT,
			metadata_json TEXT,
			created_at    TEXT NOT NULL,

			CHECK (event_type IN ('copy_repo', 'visit_repo', 'visit_author', 'view_details', 'search', 'page_view'))
		);

		CREATE INDEX IF NOT EXISTS idx_events_plugin_created
			ON analytics_events(plugin_id, created_at);

		CREATE INDEX IF NOT EXISTS idx_events_created
			ON analytics_events(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Append records one sanitized event, assigning an ID and timestamp when absent.
func (s *SQLiteStore) Append(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	var tagsJSON, metadataJSON sql.NullString
	if len(event.PluginTags) > 0 {
		b, err := json.Marshal(event.PluginTags)
		if err != nil {
			return fmt.Errorf("encoding tags: %w", err)
		}
		tagsJSON = sql.NullString{String: string(b), Valid: true}
	}
	if len(event.Metadata) > 0 {
		b, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata: %w", err)
		}
		metadataJSON = sql.NullString{String: string(b), Valid: true}
	}

	query := `
		INSERT INTO analytics_events (
			id, event_type, plugin_id, plugin_name, plugin_tags, client_id, metadata_json, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		nullString(event.PluginID),
		nullString(event.PluginName),
		tagsJSON,
		nullString(event.ClientID),
		metadataJSON,
		event.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	s.logger.Debug("recorded analytics event",
		"id", event.ID,
		"event_type", event.EventType,
		"plugin_id", event.PluginID,
	)
	return nil
}

// trendingEventTypes are the interaction types counted by the aggregation.
// Searches and page views are recorded but do not rank plugins.
const trendingEventTypes = "('copy_repo', 'visit_repo', 'visit_author', 'view_details')"

// Trending aggregates interaction counts per plugin over the trailing period.
func (s *SQLiteStore) Trending(ctx context.Context, periodDays, limit int) ([]TrendingEntry, error) {
	since := time.Now().UTC().AddDate(0, 0, -periodDays).Format(time.RFC3339)

	query := `
		SELECT
			plugin_id,
			MAX(COALESCE(plugin_name, '')) AS plugin_name,
			COUNT(*) AS total,
			SUM(CASE WHEN event_type = 'copy_repo' THEN 1 ELSE 0 END) AS copy_count,
			SUM(CASE WHEN event_type = 'visit_repo' THEN 1 ELSE 0 END) AS visit_count,
			SUM(CASE WHEN event_type = 'visit_author' THEN 1 ELSE 0 END) AS author_visit_count,
			SUM(CASE WHEN event_type = 'view_details' THEN 1 ELSE 0 END) AS detail_views,
			MAX(created_at) AS latest_event_at
		FROM analytics_events
		WHERE created_at >= ?
		  AND event_type IN ` + trendingEventTypes + `
		  AND plugin_id IS NOT NULL
		GROUP BY plugin_id
		ORDER BY total DESC, latest_event_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("querying trending: %w", err)
	}
	defer rows.Close()

	var entries []TrendingEntry
	for rows.Next() {
		var e TrendingEntry
		var latest string
		if err := rows.Scan(
			&e.PluginID,
			&e.PluginName,
			&e.Total,
			&e.CopyCount,
			&e.VisitCount,
			&e.AuthorVisitCount,
			&e.DetailViews,
			&latest,
		); err != nil {
			return nil, fmt.Errorf("scanning trending row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, latest); err == nil {
			e.LatestEventAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trending rows: %w", err)
	}

	return entries, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
