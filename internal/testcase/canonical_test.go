package testcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string no html escape", "<a>&", `"<a>&"`},
		{"int", 12, "12"},
		{"negative int64", int64(-1), "-1"},
		{"bools", []any{true, false}, "[true,false]"},
		{"string list", []string{"a", "b"}, `["a","b"]`},
		{"sorted keys", map[string]any{"b": 1, "a": 2}, `{"a":2,"b":1}`},
		{"nested", map[string]any{"x": []any{map[string]any{"k": "v"}}}, `{"x":[{"k":"v"}]}`},
		{"line separator literal", "a\u2028b", "\"a\u2028b\""},
		{"escaped backslash kept", `\u2028`, `"\\u2028"`},
		{"control escaped", "a\nb", `"a\nb"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalRejects(t *testing.T) {
	for _, v := range []any{nil, 1.5, float32(2), struct{}{}, map[string]any{"k": nil}} {
		_, err := MarshalCanonical(v)
		assert.Error(t, err, "%T", v)
	}
}

func TestCompareUTF16(t *testing.T) {
	// U+1F600 sorts after U+FF61 in UTF-8 byte order but before it in UTF-16.
	assert.Negative(t, compareUTF16("\U0001F600", "\uFF61"))
	assert.Equal(t, 0, compareUTF16("a", "a"))
	assert.Negative(t, compareUTF16("a", "b"))
}
