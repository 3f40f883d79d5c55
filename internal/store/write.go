package store

import (
	"context"
	"fmt"

	"github.com/roach88/framboise/internal/testcase"
)

// WriteTestcase archives tc under its content hash and returns that ID.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: a testcase that is
// already archived is left untouched and inserted is false.
func (s *Store) WriteTestcase(ctx context.Context, tc *testcase.Testcase) (id string, inserted bool, err error) {
	id, err = tc.Hash()
	if err != nil {
		return "", false, fmt.Errorf("write testcase: %w", err)
	}
	modules, err := marshalModules(tc.Modules)
	if err != nil {
		return "", false, fmt.Errorf("write testcase: %w", err)
	}
	prefs, err := marshalPreferences(tc.Preferences)
	if err != nil {
		return "", false, fmt.Errorf("write testcase: %w", err)
	}
	fragments := tc.Fragments()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("write testcase: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO testcases
		(id, run_id, seq, seed, reproducible, modules, preferences, fragment_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		tc.RunID,
		tc.Seq,
		tc.Seed,
		tc.Reproducible,
		modules,
		prefs,
		len(fragments),
		formatTime(tc.CreatedAt),
	)
	if err != nil {
		return "", false, fmt.Errorf("write testcase: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("write testcase: rows affected: %w", err)
	}
	if rows == 0 {
		return id, false, nil
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO fragments (testcase_id, idx, text) VALUES (?, ?, ?)`)
	if err != nil {
		return "", false, fmt.Errorf("write testcase: prepare fragments: %w", err)
	}
	defer stmt.Close()

	for i, f := range fragments {
		if _, err := stmt.ExecContext(ctx, id, i, f); err != nil {
			return "", false, fmt.Errorf("write testcase: fragment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("write testcase: commit: %w", err)
	}
	return id, true, nil
}
