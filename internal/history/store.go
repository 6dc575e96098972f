package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/blogseo/blogseo/internal/db"
	"github.com/blogseo/blogseo/internal/optimizer"
	"github.com/google/uuid"
)

// Store persists optimization runs.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record implements optimizer.Recorder.
func (s *Store) Record(ctx context.Context, req optimizer.Request, out optimizer.Outcome) error {
	run := Run{
		CreatedAt:    time.Now().UTC(),
		Source:       string(out.Source),
		FocusKeyword: req.FocusKeyword,
		HTMLBytes:    len(req.HTMLCode),
		ScoreBefore:  out.Result.ScoreBefore,
		ScoreAfter:   out.Result.ScoreAfter,
		Improvement:  out.Result.Improvement,
		AppliedRules: out.AppliedRules,
		DurationMS:   out.Duration.Milliseconds(),
		ClientID:     optimizer.ClientIDFrom(ctx),
	}
	if out.Reason != nil {
		run.Reason = out.Reason.Error()
	}
	return s.Insert(ctx, &run)
}

// Insert stores a run. If run.ID is empty a UUID is generated.
func (s *Store) Insert(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.AppliedRules == nil {
		run.AppliedRules = []string{}
	}

	rules, err := json.Marshal(run.AppliedRules)
	if err != nil {
		return fmt.Errorf("marshalling applied rules: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO optimization_runs (
			id, created_at, source, reason, focus_keyword, html_bytes,
			score_before, score_after, improvement, applied_rules,
			duration_ms, client_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(time.DateTime),
		run.Source,
		run.Reason,
		run.FocusKeyword,
		run.HTMLBytes,
		run.ScoreBefore,
		run.ScoreAfter,
		run.Improvement,
		string(rules),
		run.DurationMS,
		run.ClientID,
	)
	if err != nil {
		return fmt.Errorf("inserting optimization run: %w", err)
	}
	return nil
}

// GetByID retrieves a single run.
func (s *Store) GetByID(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM optimization_runs WHERE id = ?", id)
	return scanInto(row)
}

// QueryFilter controls which runs are returned by Query.
type QueryFilter struct {
	Source   string
	Keyword  string
	ClientID string
	Since    *time.Time
	Limit    int
	Offset   int
}

const columns = "id, created_at, source, reason, focus_keyword, html_bytes, score_before, score_after, improvement, applied_rules, duration_ms, client_id"

// Query returns runs matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Run, error) {
	clauses, args := filter.where()

	query := "SELECT " + columns + " FROM optimization_runs"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying optimization runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (f QueryFilter) where() ([]string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, f.Source)
	}
	if f.Keyword != "" {
		clauses = append(clauses, "focus_keyword LIKE ?")
		args = append(args, "%"+f.Keyword+"%")
	}
	if f.ClientID != "" {
		clauses = append(clauses, "client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, f.Since.UTC().Format(time.DateTime))
	}
	return clauses, args
}

// Stats aggregates every recorded run.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		st  Stats
		avg sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN source = 'remote' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN source = 'fallback' THEN 1 ELSE 0 END), 0),
			AVG(improvement)
		FROM optimization_runs`).Scan(&st.Total, &st.Remote, &st.Fallback, &avg)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregating optimization runs: %w", err)
	}
	if avg.Valid {
		st.AverageImprovement = avg.Float64
	}
	return st, nil
}

// DeleteBefore removes all runs older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM optimization_runs WHERE created_at < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old optimization runs: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Run, error) {
	var (
		run       Run
		ts, rules string
	)

	err := sc.Scan(
		&run.ID, &ts, &run.Source, &run.Reason, &run.FocusKeyword, &run.HTMLBytes,
		&run.ScoreBefore, &run.ScoreAfter, &run.Improvement, &rules,
		&run.DurationMS, &run.ClientID,
	)
	if err != nil {
		return nil, err
	}

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		run.CreatedAt = t
	} else if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
		run.CreatedAt = t
	}

	if err := json.Unmarshal([]byte(rules), &run.AppliedRules); err != nil {
		run.AppliedRules = nil
	}
	return &run, nil
}
