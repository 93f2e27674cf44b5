package store

// Typed accessors used by record decoders. Values arriving from the jsonb
// backend are json-decoded (numbers are float64, string sequences are
// []interface{}), while the in-memory backend keeps native Go types; both
// shapes are accepted here.

// String returns a string field.
func (f Fields) String(key string) (string, bool) {
	v, ok := f[key].(string)
	return v, ok
}

// Number returns a numeric field.
func (f Fields) Number(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// StringSlice returns a sequence-of-string field. A sequence containing a
// non-string element fails as a whole.
func (f Fields) StringSlice(key string) ([]string, bool) {
	switch v := f[key].(type) {
	case []string:
		return append([]string(nil), v...), true
	case []interface{}:
		out := make([]string, len(v))
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
