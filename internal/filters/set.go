package filters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Set is an ordered mapping of filter key to Value. Keys are case-sensitive
// and compared verbatim. The zero value is an empty set ready to use.
type Set struct {
	keys   []string
	values map[string]Value
}

// NewSet builds an empty set.
func NewSet() *Set {
	return &Set{values: map[string]Value{}}
}

// FromMap converts a decoded JSON object into a Set. Keys are inserted in
// sorted order since Go maps carry no ordering.
func FromMap(raw map[string]any) *Set {
	set := NewSet()
	for _, key := range sortedKeys(raw) {
		set.Set(key, ValueOf(raw[key]))
	}
	return set
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the keys in insertion order.
func (s *Set) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Get returns the value for key.
func (s *Set) Get(key string) (Value, bool) {
	if s == nil || s.values == nil {
		return Value{}, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Set) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set stores value under key, keeping the original position of existing keys.
func (s *Set) Set(key string, value Value) {
	if s.values == nil {
		s.values = map[string]Value{}
	}
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Delete removes key.
func (s *Set) Delete(key string) {
	if s == nil || s.values == nil {
		return
	}
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i:i], s.keys[i+1:]...)
			break
		}
	}
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	out := NewSet()
	if s == nil {
		return out
	}
	for _, key := range s.keys {
		out.Set(key, s.values[key])
	}
	return out
}

// Equal reports whether both sets hold the same keys and values, ignoring order.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, key := range s.Keys() {
		mine, _ := s.Get(key)
		theirs, ok := other.Get(key)
		if !ok || !mine.Equal(theirs) {
			return false
		}
	}
	return true
}

// Map returns a plain map representation suitable for query documents.
func (s *Set) Map() map[string]any {
	out := make(map[string]any, s.Len())
	if s == nil {
		return out
	}
	for _, key := range s.keys {
		out[key] = s.values[key].Interface()
	}
	return out
}

// MarshalJSON encodes keys in insertion order.
func (s *Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if s != nil {
		for i, key := range s.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodedKey, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			buf.Write(encodedKey)
			buf.WriteByte(':')
			encodedValue, err := json.Marshal(s.values[key])
			if err != nil {
				return nil, err
			}
			buf.Write(encodedValue)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object while preserving key order.
func (s *Set) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	tok, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("filters: decode set: %w", err)
	}
	s.keys = nil
	s.values = map[string]Value{}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("filters: expected object, got %v", tok)
	}
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("filters: decode key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("filters: unexpected key token %v", keyTok)
		}
		var raw any
		if err := decoder.Decode(&raw); err != nil {
			return fmt.Errorf("filters: decode %q: %w", key, err)
		}
		if err := checkRange(key, raw); err != nil {
			return err
		}
		s.Set(key, ValueOf(raw))
	}
	if _, err := decoder.Token(); err != nil {
		return fmt.Errorf("filters: decode set: %w", err)
	}
	return nil
}

func decodeJSON(data []byte, target any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	return decoder.Decode(target)
}
