package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/framboise/internal/testcase"
)

func TestShow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "framboise.db")
	tc := archive(t, db, "--modules", "Canvas2D", "--seed", "21", "--steps", "5")

	stdout, _, code := runCLI(t, "show", "--db", db, tc.ID[:8])
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "/* Seed: 21 */")
	assert.Contains(t, stdout, "document.createElement('canvas')")

	stdout, _, code = runCLI(t, "show", "--db", db, "--log", tc.ID)
	require.Equal(t, ExitSuccess, code)
	ex, err := testcase.ParseLog(strings.NewReader(stdout))
	require.NoError(t, err)
	require.Len(t, ex.Testcases, 1)
	assert.Equal(t, tc.Fragments, ex.Testcases[0].Len())
	assert.Equal(t, int64(21), ex.Testcases[0].Seed)
}

func TestShowJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "framboise.db")
	tc := archive(t, db, "--modules", "2:Canvas2D,1:Selection", "--seed", "3")

	stdout, _, code := runCLI(t, "--format", "json", "show", "--db", db, tc.ID)
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Data ShowResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, tc.ID, resp.Data.ID)
	assert.Equal(t, int64(3), resp.Data.Seed)
	assert.Len(t, resp.Data.Fragments, tc.Fragments)
	assert.Len(t, resp.Data.Modules, 2)
}

func TestShowUnknown(t *testing.T) {
	db := filepath.Join(t.TempDir(), "framboise.db")

	_, stderr, code := runCLI(t, "show", "--db", db, "abc")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "unknown testcase")
}

func TestList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "framboise.db")

	stdout, _, code := runCLI(t, "list", "--db", db)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "No testcases archived.")

	resp := generateJSON(t, "--db", db, "--modules", "Canvas2D", "--seed", "1", "--count", "3")

	stdout, _, code = runCLI(t, "list", "--db", db)
	require.Equal(t, ExitSuccess, code)
	for _, tc := range resp.Data.Testcases {
		assert.Contains(t, stdout, shortID(tc.ID))
	}
	assert.Contains(t, stdout, "1:Canvas2D")

	stdout, _, code = runCLI(t, "--format", "json", "list", "--db", db, "--limit", "2")
	require.Equal(t, ExitSuccess, code)
	var listed struct {
		Data []ListEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &listed))
	require.Len(t, listed.Data, 2)
	assert.Equal(t, 1, listed.Data[0].Seq)
	assert.Equal(t, 2, listed.Data[1].Seq)
}
