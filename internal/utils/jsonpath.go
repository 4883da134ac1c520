package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// GetNestedField walks a decoded JSON value along a dot path with optional
// array indexes, e.g. "data.items" or "result[0].blocks".
// An empty path returns root unchanged.
func GetNestedField(root any, path string) (any, error) {
	cur := root
	if path == "" {
		return cur, nil
	}
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", path)
		}

		name, idx := part, -1
		if l := strings.Index(part, "["); l >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, fmt.Errorf("invalid index in segment '%s'", part)
			}
			i, err := strconv.Atoi(part[l+1 : len(part)-1])
			if err != nil || i < 0 {
				return nil, fmt.Errorf("invalid index in segment '%s'", part)
			}
			name, idx = part[:l], i
		}

		if name != "" {
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("field '%s' is not reachable: parent is not an object", name)
			}
			if cur, ok = obj[name]; !ok {
				return nil, fmt.Errorf("field '%s' not found", name)
			}
		}

		if idx >= 0 {
			arr, ok := cur.([]any)
			if !ok {
				return nil, fmt.Errorf("segment '%s' is not an array", part)
			}
			if idx >= len(arr) {
				return nil, fmt.Errorf("index out of range in segment '%s'", part)
			}
			cur = arr[idx]
		}
	}
	return cur, nil
}
