package binspec

import "strings"

// Record is the nested mapping from field name to decoded value that
// Parse produces and Encode consumes.
type Record map[string]any

// qualifiedName joins a path of enclosing field names with a field's own
// name, used for AssertFailed payloads and error messages.
func qualifiedName(path []string, name string) string {
	if len(path) == 0 {
		return name
	}
	if name == "" {
		return strings.Join(path, ".")
	}
	return strings.Join(path, ".") + "." + name
}

// lookupField resolves a (possibly dotted) field name against rec,
// descending into nested Records for each path segment.
func lookupField(rec Record, name string) (any, bool) {
	if rec == nil {
		return nil, false
	}
	parts := strings.Split(name, ".")
	var cur any = rec
	for _, p := range parts {
		m, ok := cur.(Record)
		if !ok {
			return nil, false
		}
		v, ok := m[p]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// asInt64 coerces a decoded numeric value (any catalog width/signedness)
// to int64, for use as a late-bound length/offset/tag result.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case int:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint:
		return int64(n), true
	}
	return 0, false
}
