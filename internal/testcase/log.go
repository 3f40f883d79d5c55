package testcase

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	// LinePrefix marks a console line carrying one JSON-encoded fragment.
	LinePrefix = "/*L*/"
	// Separator opens every logged testcase.
	Separator = "/* ### NEXT TESTCASE ############################## */"
	// separatorMarker is what ParseLog looks for. Hosts may wrap the
	// separator in color codes.
	separatorMarker = "NEXT TESTCASE"

	maxLineBytes = 16 << 20
)

// WriteLog writes t in console log form: a blank line and the separator,
// then the header comments and every fragment as "/*L*/ <json>" lines.
func WriteLog(w io.Writer, t *Testcase) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	bw.WriteString("\n" + Separator + "\n")
	for _, line := range append(t.Header(), t.fragments...) {
		bw.WriteString(LinePrefix + " ")
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("write log: %w", err)
		}
	}
	return bw.Flush()
}

// Extraction is the result of ParseLog.
type Extraction struct {
	Testcases []*Testcase
	// Malformed lists the 1-based line numbers of "/*L*/" lines whose JSON
	// could not be decoded. A host that crashed mid-write typically leaves
	// one such line at the end of the stream.
	Malformed []int
}

// ParseLog extracts every logged testcase from a console stream.
//
// Lines outside a testcase are ignored, so the stream may interleave host
// output. Only unprefixed lines can be separators; a fragment mentioning
// the separator text stays a fragment. Header comments written by WriteLog restore Seed and CreatedAt;
// without a seed header the testcase reports seed -1 and is not
// reproducible.
func ParseLog(r io.Reader) (*Extraction, error) {
	ex := &Extraction{}
	var cur *Testcase

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()

		payload, ok := strings.CutPrefix(line, LinePrefix)
		if !ok {
			if strings.Contains(line, separatorMarker) {
				cur = &Testcase{Seed: -1}
				ex.Testcases = append(ex.Testcases, cur)
			}
			continue
		}
		if cur == nil {
			cur = &Testcase{Seed: -1}
			ex.Testcases = append(ex.Testcases, cur)
		}

		var fragment string
		if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &fragment); err != nil {
			ex.Malformed = append(ex.Malformed, lineNo)
			continue
		}
		if !cur.readHeader(fragment) {
			cur.Append(fragment)
		}
	}
	if err := sc.Err(); err != nil {
		return ex, fmt.Errorf("parse log: line %d: %w", lineNo+1, err)
	}
	return ex, nil
}

// readHeader consumes a header comment and reports whether line was one.
// Header lines are only recognized before the first fragment.
func (t *Testcase) readHeader(line string) bool {
	if len(t.fragments) > 0 {
		return false
	}
	body, ok := strings.CutPrefix(line, "/* ")
	if !ok {
		return false
	}
	body, ok = strings.CutSuffix(body, " */")
	if !ok {
		return false
	}

	switch {
	case strings.HasPrefix(body, "Seed: "):
		seed, err := strconv.ParseInt(strings.TrimPrefix(body, "Seed: "), 10, 64)
		if err != nil {
			return false
		}
		t.Seed = seed
		t.Reproducible = seed >= 0
		return true
	case strings.HasPrefix(body, "Date: "):
		// Dates in other formats are kept as comments.
		ts, err := time.Parse(time.RFC3339, strings.TrimPrefix(body, "Date: "))
		if err != nil {
			return false
		}
		t.CreatedAt = ts
		return true
	}
	return false
}
