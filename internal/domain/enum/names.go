package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// lookup resolves a wire name to its index in names
func lookup(names []string, s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, true
		}
	}
	return 0, false
}

// nameOf returns names[i] or "unknown" when i is out of range
func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

// unmarshalName accepts either the string name or the numeric value
func unmarshalName(kind string, names []string, data []byte) (int, error) {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return 0, err
		}
		if i < 0 || i >= len(names) {
			return 0, fmt.Errorf("invalid %s: %d", kind, i)
		}
		return i, nil
	}
	i, ok := lookup(names, str)
	if !ok {
		return 0, fmt.Errorf("invalid %s: %q", kind, str)
	}
	return i, nil
}

// scanInt reads integer columns coming back from postgres or sqlite
func scanInt(value interface{}) int {
	switch v := value.(type) {
	case int64:
		return int(v)
	case int32:
		return int(v)
	case int:
		return v
	case []byte:
		var i int
		fmt.Sscan(string(v), &i)
		return i
	case string:
		var i int
		fmt.Sscan(v, &i)
		return i
	}
	return 0
}
