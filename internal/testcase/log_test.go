package testcase

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTestcase() *Testcase {
	tc := &Testcase{Seed: 42, Reproducible: true, CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	tc.Append(
		`o1 = document.createElement("canvas");`,
		`try { o1.getContext("2d"); } catch(e) { }`,
		`setTimeout('window.location.reload()', 120)`,
	)
	return tc
}

func TestWriteLogGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLog(&buf, sampleTestcase()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "write_log", buf.Bytes())
}

func TestParseLogRoundTrip(t *testing.T) {
	tc := sampleTestcase()
	var buf bytes.Buffer
	require.NoError(t, WriteLog(&buf, tc))

	ex, err := ParseLog(&buf)
	require.NoError(t, err)
	require.Len(t, ex.Testcases, 1)
	assert.Empty(t, ex.Malformed)

	got := ex.Testcases[0]
	assert.Equal(t, tc.Fragments(), got.Fragments())
	assert.Equal(t, int64(42), got.Seed)
	assert.True(t, got.Reproducible)
	assert.True(t, tc.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, tc.ID(), got.ID())
}

func TestParseLogFragmentMentioningSeparator(t *testing.T) {
	tc := &Testcase{Seed: 7, Reproducible: true}
	tc.Append(`a();`, `o1.value = "NEXT TESTCASE";`, `o2.title = "`+Separator+`";`, `b();`)

	var buf bytes.Buffer
	require.NoError(t, WriteLog(&buf, tc))

	ex, err := ParseLog(&buf)
	require.NoError(t, err)
	require.Len(t, ex.Testcases, 1)
	got := ex.Testcases[0]
	assert.Equal(t, tc.Fragments(), got.Fragments())
	assert.Equal(t, int64(7), got.Seed)
	assert.True(t, got.Reproducible)
}

func TestParseLogMultipleAndNoise(t *testing.T) {
	stream := strings.Join([]string{
		"host starting",
		"\x1b[1;32m" + Separator + "\x1b[0m",
		`/*L*/ "/* Seed: 5 */"`,
		`/*L*/ "a();"`,
		"[GFX] warning: something",
		Separator,
		`/*L*/ "b();"`,
		`/*L*/ "c(\"<x>\");"`,
		`/*L*/ "trunc`,
	}, "\n")

	ex, err := ParseLog(strings.NewReader(stream))
	require.NoError(t, err)
	require.Len(t, ex.Testcases, 2)

	assert.Equal(t, []string{"a();"}, ex.Testcases[0].Fragments())
	assert.Equal(t, int64(5), ex.Testcases[0].Seed)

	assert.Equal(t, []string{"b();", `c("<x>");`}, ex.Testcases[1].Fragments())
	assert.Equal(t, int64(-1), ex.Testcases[1].Seed)
	assert.False(t, ex.Testcases[1].Reproducible)

	assert.Equal(t, []int{9}, ex.Malformed)
}

func TestParseLogWithoutSeparator(t *testing.T) {
	ex, err := ParseLog(strings.NewReader("/*L*/ \"a();\"\n"))
	require.NoError(t, err)
	require.Len(t, ex.Testcases, 1)
	assert.Equal(t, []string{"a();"}, ex.Testcases[0].Fragments())
}

func TestParseLogKeepsLateComments(t *testing.T) {
	// Header comments after the first fragment are ordinary fragments.
	stream := Separator + "\n" + `/*L*/ "a();"` + "\n" + `/*L*/ "/* Seed: 3 */"` + "\n"

	ex, err := ParseLog(strings.NewReader(stream))
	require.NoError(t, err)
	require.Len(t, ex.Testcases, 1)
	assert.Equal(t, []string{"a();", "/* Seed: 3 */"}, ex.Testcases[0].Fragments())
	assert.Equal(t, int64(-1), ex.Testcases[0].Seed)
}

func TestParseLogEmpty(t *testing.T) {
	ex, err := ParseLog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ex.Testcases)
}
