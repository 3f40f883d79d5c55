package testcase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainTestcase prefixes testcase identity hashes. The version suffix
// leaves room for a future change of the hashed fields.
const DomainTestcase = "framboise/testcase/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the content identity of the testcase: seed, module requests
// and fragments. Metadata such as the run ID is not covered.
func (t *Testcase) Hash() (string, error) {
	modules := make([]any, len(t.Modules))
	for i, m := range t.Modules {
		modules[i] = map[string]any{"name": m.Name, "weight": m.Weight}
	}
	obj := map[string]any{
		"seed":      t.Seed,
		"modules":   modules,
		"fragments": t.Fragments(),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("testcase hash: %w", err)
	}
	return hashWithDomain(DomainTestcase, canonical), nil
}

// ID is Hash with the error folded away. The hashed fields are strings and
// integers only, so the error path is unreachable in practice.
func (t *Testcase) ID() string {
	id, err := t.Hash()
	if err != nil {
		return ""
	}
	return id
}
