package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/testcase"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestcase(runID string, seq int, seed int64, fragments ...string) *testcase.Testcase {
	tc := &testcase.Testcase{
		RunID:        runID,
		Seq:          seq,
		Seed:         seed,
		Reproducible: true,
		Modules:      []module.Request{{Name: "Canvas2D", Weight: 2}, {Name: "Selection", Weight: 1}},
		Preferences:  []byte(`{"main_steps":30}`),
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC),
	}
	tc.Append(fragments...)
	return tc
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for _, table := range []string{"testcases", "fragments"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %q", table)
	}

	var index string
	err = s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name='idx_testcases_run_seq'").Scan(&index)
	assert.NoError(t, err)
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	assert.Error(t, err)
}

func TestClose_NilDB(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tc := createTestcase("run-1", 1, 42, "o0 = document.createElement('canvas');", "o0.width = 3;", "")

	id, inserted, err := s.WriteTestcase(ctx, tc)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, tc.ID(), id)

	got, err := s.ReadTestcase(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, tc.Fragments(), got.Fragments())
	assert.Equal(t, tc.RunID, got.RunID)
	assert.Equal(t, tc.Seq, got.Seq)
	assert.Equal(t, tc.Seed, got.Seed)
	assert.True(t, got.Reproducible)
	assert.Equal(t, tc.Modules, got.Modules)
	assert.JSONEq(t, `{"main_steps":30}`, string(got.Preferences))
	assert.True(t, tc.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, id, got.ID())
}

func TestWriteTestcase_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tc := createTestcase("run-1", 1, 42, "a();")

	id1, inserted, err := s.WriteTestcase(ctx, tc)
	require.NoError(t, err)
	require.True(t, inserted)

	// Same content under different metadata is the same testcase.
	again := createTestcase("run-2", 7, 42, "a();")
	id2, inserted, err := s.WriteTestcase(ctx, again)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, id1, id2)

	got, err := s.ReadTestcase(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, []string{"a();"}, got.Fragments())
}

func TestWriteTestcase_EmptyAndNoPreferences(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tc := createTestcase("run-1", 1, -1)
	tc.Preferences = nil
	tc.Reproducible = false

	id, _, err := s.WriteTestcase(ctx, tc)
	require.NoError(t, err)

	got, err := s.ReadTestcase(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, got.Len())
	assert.Nil(t, got.Preferences)
	assert.False(t, got.Reproducible)
	assert.Equal(t, int64(-1), got.Seed)
}

func TestWriteTestcase_InvalidPreferences(t *testing.T) {
	s := createTestStore(t)
	tc := createTestcase("run-1", 1, 1, "a();")
	tc.Preferences = []byte("{broken")

	_, _, err := s.WriteTestcase(context.Background(), tc)
	assert.Error(t, err)
}

func TestReadTestcase_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadTestcase(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTestcases_Ordering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, tc := range []*testcase.Testcase{
		createTestcase("run-1", 3, 1, "c();"),
		createTestcase("run-1", 1, 1, "a();"),
		createTestcase("run-1", 2, 1, "b1();"),
		createTestcase("run-2", 2, 1, "b2();"),
	} {
		_, _, err := s.WriteTestcase(ctx, tc)
		require.NoError(t, err)
	}

	all, err := s.ListTestcases(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)

	seqs := []int{all[0].Seq, all[1].Seq, all[2].Seq, all[3].Seq}
	assert.Equal(t, []int{1, 2, 2, 3}, seqs)
	assert.Less(t, all[1].ID, all[2].ID, "ties break on id")
	assert.Equal(t, 1, all[0].FragmentCount)
	assert.Len(t, all[0].Modules, 2)

	limited, err := s.ListTestcases(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, all[:2], limited)
}

func TestListTestcases_Empty(t *testing.T) {
	s := createTestStore(t)

	list, err := s.ListTestcases(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestLatestSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.LatestSeq(ctx, "run-1")
	require.NoError(t, err)
	assert.Zero(t, seq)

	for i, f := range []string{"a();", "b();", "c();"} {
		_, _, err := s.WriteTestcase(ctx, createTestcase("run-1", i+1, 1, f))
		require.NoError(t, err)
	}
	_, _, err = s.WriteTestcase(ctx, createTestcase("run-2", 9, 1, "z();"))
	require.NoError(t, err)

	seq, err = s.LatestSeq(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 3, seq)
}

func TestResolveID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, _, err := s.WriteTestcase(ctx, createTestcase("run-1", 1, 1, "a();"))
	require.NoError(t, err)

	got, err := s.ResolveID(ctx, id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = s.ResolveID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.ResolveID(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ResolveID(ctx, "zz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveID_Ambiguous(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Hex IDs share a one-character prefix after enough writes.
	first := map[byte]bool{}
	var shared byte
	for i := 0; shared == 0; i++ {
		id, _, err := s.WriteTestcase(ctx, createTestcase("run-1", i, int64(i), "a();"))
		require.NoError(t, err)
		if first[id[0]] {
			shared = id[0]
		}
		first[id[0]] = true
	}

	_, err := s.ResolveID(ctx, string(shared))
	assert.ErrorIs(t, err, ErrAmbiguous)
}
