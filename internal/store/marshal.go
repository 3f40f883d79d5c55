package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/testcase"
)

const timeLayout = time.RFC3339Nano

// marshalModules renders module requests as canonical JSON TEXT.
func marshalModules(reqs []module.Request) (string, error) {
	list := make([]any, len(reqs))
	for i, r := range reqs {
		list[i] = map[string]any{"name": r.Name, "weight": r.Weight}
	}
	data, err := testcase.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal modules: %w", err)
	}
	return string(data), nil
}

func unmarshalModules(data string) ([]module.Request, error) {
	var reqs []module.Request
	if err := json.Unmarshal([]byte(data), &reqs); err != nil {
		return nil, fmt.Errorf("unmarshal modules: %w", err)
	}
	return reqs, nil
}

// marshalPreferences stores absent preferences as an empty object.
func marshalPreferences(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "{}", nil
	}
	if !json.Valid(raw) {
		return "", fmt.Errorf("marshal preferences: invalid JSON")
	}
	return string(raw), nil
}

func unmarshalPreferences(data string) json.RawMessage {
	if data == "" || data == "{}" {
		return nil
	}
	return json.RawMessage(data)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at: %w", err)
	}
	return t, nil
}
