package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/ytnotes/internal/db"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("note record not found")

// DeleteHook is called with the ids of records that were just deleted.
type DeleteHook func(ctx context.Context, ids []string)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDeleteHook runs fn after every successful Delete or DeleteBefore, so
// derived data such as the search index can follow the table.
func WithDeleteHook(fn DeleteHook) StoreOption {
	return func(s *Store) { s.onDelete = fn }
}

// Store reads and writes history records.
type Store struct {
	db       *db.DB
	onDelete DeleteHook
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB, opts ...StoreOption) *Store {
	s := &Store{db: database}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Save inserts rec, assigning an ID and timestamp when missing, and
// returns the stored copy.
func (s *Store) Save(ctx context.Context, rec Record) (*Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Style == "" {
		rec.Style = "default"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (
			id, created_at, video_id, youtube_url, style, notes,
			provider, model, input_tokens, output_tokens, cost_usd, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(time.DateTime),
		rec.VideoID,
		rec.YouTubeURL,
		rec.Style,
		rec.Notes,
		rec.Provider,
		rec.Model,
		rec.InputTokens,
		rec.OutputTokens,
		rec.CostUSD,
		rec.DurationMS,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting note record: %w", err)
	}
	return &rec, nil
}

const selectColumns = `SELECT id, created_at, video_id, youtube_url, style, notes,
	provider, model, input_tokens, output_tokens, cost_usd, duration_ms FROM notes`

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading note record: %w", err)
	}
	return rec, nil
}

// List returns records matching filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.VideoID != "" {
		clauses = append(clauses, "video_id = ?")
		args = append(args, filter.VideoID)
	}
	if filter.Style != "" {
		clauses = append(clauses, "style = ?")
		args = append(args, filter.Style)
	}

	query := selectColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	} else if filter.Offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying note records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting note record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.deleted(ctx, []string{id})
	return nil
}

// DeleteBefore removes records created before t and returns how many were
// deleted.
func (s *Store) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	cutoff := t.UTC().Format(time.DateTime)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("pruning note records: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, "SELECT id FROM notes WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning note records: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning note id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE created_at < ?", cutoff); err != nil {
		return 0, fmt.Errorf("pruning note records: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("pruning note records: %w", err)
	}

	s.deleted(ctx, ids)
	return int64(len(ids)), nil
}

func (s *Store) deleted(ctx context.Context, ids []string) {
	if s.onDelete != nil && len(ids) > 0 {
		s.onDelete(ctx, ids)
	}
}

// Stats aggregates counts and cost across all records.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{ByStyle: make(map[string]int)}
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT video_id), COALESCE(SUM(cost_usd), 0) FROM notes",
	).Scan(&st.TotalNotes, &st.UniqueVideos, &st.TotalCostUSD)
	if err != nil {
		return nil, fmt.Errorf("aggregating note records: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT style, COUNT(*) FROM notes GROUP BY style")
	if err != nil {
		return nil, fmt.Errorf("counting styles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			style string
			n     int
		)
		if err := rows.Scan(&style, &n); err != nil {
			return nil, err
		}
		st.ByStyle[style] = n
	}
	return st, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var (
		rec Record
		ts  string
	)
	err := sc.Scan(
		&rec.ID, &ts, &rec.VideoID, &rec.YouTubeURL, &rec.Style, &rec.Notes,
		&rec.Provider, &rec.Model, &rec.InputTokens, &rec.OutputTokens, &rec.CostUSD, &rec.DurationMS,
	)
	if err != nil {
		return nil, err
	}
	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		rec.CreatedAt = t
	} else if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}
