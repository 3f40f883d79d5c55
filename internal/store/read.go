package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/testcase"
)

// Summary is an archived testcase without its fragments.
type Summary struct {
	ID            string
	RunID         string
	Seq           int
	Seed          int64
	Reproducible  bool
	Modules       []module.Request
	FragmentCount int
	CreatedAt     time.Time
}

const summaryColumns = `id, run_id, seq, seed, reproducible, modules, fragment_count, created_at`

type scanner interface {
	Scan(dest ...any) error
}

// scanSummary scans summaryColumns followed by any extra destinations.
func scanSummary(row scanner, extra ...any) (Summary, error) {
	var (
		sum       Summary
		modules   string
		createdAt string
	)
	dest := append([]any{&sum.ID, &sum.RunID, &sum.Seq, &sum.Seed, &sum.Reproducible, &modules, &sum.FragmentCount, &createdAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return Summary{}, err
	}
	reqs, err := unmarshalModules(modules)
	if err != nil {
		return Summary{}, err
	}
	sum.Modules = reqs
	if sum.CreatedAt, err = parseTime(createdAt); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// ReadTestcase restores the archived testcase with the given ID.
// Returns ErrNotFound if no such testcase exists.
func (s *Store) ReadTestcase(ctx context.Context, id string) (*testcase.Testcase, error) {
	var prefs string
	row := s.db.QueryRowContext(ctx, `SELECT `+summaryColumns+`, preferences FROM testcases WHERE id = ?`, id)
	sum, err := scanSummary(row, &prefs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read testcase %s: %w", id, err)
	}

	fragments, err := s.readFragments(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fragments) != sum.FragmentCount {
		return nil, fmt.Errorf("read testcase %s: %d fragments archived, %d recorded", id, len(fragments), sum.FragmentCount)
	}

	tc := &testcase.Testcase{
		RunID:        sum.RunID,
		Seq:          sum.Seq,
		Seed:         sum.Seed,
		Reproducible: sum.Reproducible,
		Modules:      sum.Modules,
		Preferences:  unmarshalPreferences(prefs),
		CreatedAt:    sum.CreatedAt,
	}
	tc.Append(fragments...)
	return tc, nil
}

func (s *Store) readFragments(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT text FROM fragments
		WHERE testcase_id = ?
		ORDER BY idx ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query fragments: %w", err)
	}
	defer rows.Close()

	var fragments []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan fragment: %w", err)
		}
		fragments = append(fragments, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fragments: %w", err)
	}
	return fragments, nil
}

// ListTestcases returns up to limit archived testcases ordered by
// seq ASC, id ASC COLLATE BINARY. A limit of 0 or less lists everything.
//
// Returns an empty slice (not nil) for an empty archive.
func (s *Store) ListTestcases(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+summaryColumns+`
		FROM testcases
		ORDER BY seq ASC, id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query testcases: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan testcase: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate testcases: %w", err)
	}
	return summaries, nil
}

// LatestSeq returns the highest seq archived for runID, or 0 when the run
// has no testcases.
func (s *Store) LatestSeq(ctx context.Context, runID string) (int, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM testcases WHERE run_id = ?`, runID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("latest seq: %w", err)
	}
	return int(seq.Int64), nil
}

// ResolveID expands an ID prefix to the full ID of the single testcase it
// matches. Returns ErrNotFound or ErrAmbiguous otherwise.
func (s *Store) ResolveID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM testcases
		WHERE substr(id, 1, ?) = ?
		ORDER BY id COLLATE BINARY ASC
		LIMIT 2
	`, len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
	}
}
