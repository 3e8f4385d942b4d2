package types

// JSONMap is an opaque key/value bag persisted as jsonb.
// Values must be JSON-serializable.
type JSONMap map[string]any

// Merge overlays the provided entries onto a copy of the map.
func (m JSONMap) Merge(other JSONMap) JSONMap {
	if len(other) == 0 {
		return m
	}
	merged := make(JSONMap, len(m)+len(other))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// StringSlice is a list of strings persisted as jsonb.
type StringSlice []string

// Contains reports whether the slice holds the given value.
func (s StringSlice) Contains(value string) bool {
	for _, candidate := range s {
		if candidate == value {
			return true
		}
	}
	return false
}
