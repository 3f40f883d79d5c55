package testcase

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/framboise/internal/module"
)

// Testcase is an ordered, append-only list of fragments plus the metadata
// needed to regenerate it.
type Testcase struct {
	// RunID groups the testcases of one generate invocation (UUIDv7).
	RunID string
	// Seq is the position of the testcase within its run, starting at 1.
	Seq          int
	Seed         int64
	Reproducible bool
	Modules      []module.Request
	// Preferences is the JSON form of the engine preferences the run used.
	Preferences json.RawMessage
	CreatedAt   time.Time

	fragments []string
}

// Append adds fragments in order. Empty fragments are ignored.
func (t *Testcase) Append(fragments ...string) {
	for _, f := range fragments {
		if f != "" {
			t.fragments = append(t.fragments, f)
		}
	}
}

// Fragments returns a copy of the fragments.
func (t *Testcase) Fragments() []string {
	out := make([]string, len(t.fragments))
	copy(out, t.fragments)
	return out
}

// Len returns the number of fragments.
func (t *Testcase) Len() int {
	return len(t.fragments)
}

// Last returns the final fragment, or "" for an empty testcase.
func (t *Testcase) Last() string {
	if len(t.fragments) == 0 {
		return ""
	}
	return t.fragments[len(t.fragments)-1]
}

// String renders the testcase as a script, one fragment per line.
func (t *Testcase) String() string {
	return strings.Join(t.fragments, "\n")
}

// Header returns the comment lines that open a logged testcase.
func (t *Testcase) Header() []string {
	return []string{
		Comment("Date: " + t.CreatedAt.UTC().Format(time.RFC3339)),
		Comment(fmt.Sprintf("Seed: %d", t.Seed)),
	}
}

// Script renders the header followed by the fragments, newline terminated.
func (t *Testcase) Script() string {
	var b strings.Builder
	for _, line := range t.Header() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, f := range t.fragments {
		b.WriteString(f)
		b.WriteByte('\n')
	}
	return b.String()
}

// Comment renders msg as a block comment.
func Comment(msg string) string {
	return "/* " + msg + " */"
}
