package filters

// Merge combines request-level filters into base. For keys present in both:
//   - list override: union with a base list, replaces a base range, and
//     extends a base scalar into a de-duplicated list;
//   - range override: always replaces the base value;
//   - scalar override: appended to a base list when absent, replaces a base
//     range, and pairs with a base scalar as a two-element list.
//
// Keys found only in base are kept. Neither input is modified.
func Merge(base, override *Set) *Set {
	result := base.Clone()
	for _, key := range override.Keys() {
		incoming, _ := override.Get(key)
		current, exists := result.Get(key)
		if !exists {
			result.Set(key, incoming)
			continue
		}
		result.Set(key, mergeValue(current, incoming))
	}
	return result
}

func mergeValue(current, incoming Value) Value {
	switch incoming.Kind() {
	case KindList:
		switch current.Kind() {
		case KindList:
			return List(union(current.Items(), incoming.Items())...)
		case KindRange:
			return incoming
		default:
			scalar, _ := current.ScalarValue()
			return List(union([]any{scalar}, incoming.Items())...)
		}
	case KindRange:
		return incoming
	default:
		scalar, _ := incoming.ScalarValue()
		switch current.Kind() {
		case KindList:
			items := current.Items()
			if containsScalar(items, scalar) {
				return current
			}
			return List(append(items, scalar)...)
		case KindRange:
			// A bare scalar discards the range constraint entirely. Kept for
			// compatibility with existing callers.
			return incoming
		default:
			existing, _ := current.ScalarValue()
			return List(existing, scalar)
		}
	}
}

// Overlay applies section-level overrides: every key in override replaces the
// base value wholesale. Neither input is modified.
func Overlay(base, override *Set) *Set {
	result := base.Clone()
	for _, key := range override.Keys() {
		value, _ := override.Get(key)
		result.Set(key, value)
	}
	return result
}

// union appends the elements of extra missing from base, dropping duplicates
// already present in base as well.
func union(base, extra []any) []any {
	out := make([]any, 0, len(base)+len(extra))
	for _, item := range base {
		if !containsScalar(out, item) {
			out = append(out, item)
		}
	}
	for _, item := range extra {
		if !containsScalar(out, item) {
			out = append(out, item)
		}
	}
	return out
}

func containsScalar(items []any, needle any) bool {
	key := scalarKey(needle)
	for _, item := range items {
		if scalarKey(item) == key {
			return true
		}
	}
	return false
}
