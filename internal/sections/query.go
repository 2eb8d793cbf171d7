package sections

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-page-composer/internal/filters"
	"github.com/goliatone/go-page-composer/internal/validation"
)

// ErrInvalidQuery reports a query template that cannot be parsed.
var ErrInvalidQuery = errors.New("sections: invalid query template")

const (
	requestKey = "request"
	filtersKey = "filters"
	limitKey   = "limit"
	queryKey   = "query"
	sortByKey  = "sort_by"
)

// Query is a parsed section query template. The search request may be
// wrapped under "request" or sit at the top level; rendering keeps the
// original shape.
type Query struct {
	root    map[string]any
	request map[string]any
	filters *filters.Set
	wrapped bool
}

// ParseQuery parses and validates a query template. Blank templates yield
// an empty wrapped query.
func ParseQuery(raw string) (*Query, error) {
	q := &Query{
		root:    map[string]any{},
		request: map[string]any{},
		filters: filters.NewSet(),
		wrapped: true,
	}
	if strings.TrimSpace(raw) == "" {
		return q, nil
	}

	document, err := validation.DecodeDocument([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if err := validation.ValidateQueryTemplate(document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	requestRaw, wrapped := top[requestKey]
	q.wrapped = wrapped
	if !wrapped {
		requestRaw = json.RawMessage(raw)
	}
	for key, value := range document.(map[string]any) {
		if wrapped && key != requestKey {
			q.root[key] = value
		}
	}

	var requestFields map[string]json.RawMessage
	if err := json.Unmarshal(requestRaw, &requestFields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	for key, value := range requestFields {
		if key == filtersKey {
			if err := q.filters.UnmarshalJSON(value); err != nil {
				return nil, fmt.Errorf("%w: filters: %v", ErrInvalidQuery, err)
			}
			continue
		}
		decoded, err := validation.DecodeDocument(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidQuery, key, err)
		}
		q.request[key] = decoded
	}
	return q, nil
}

// Filters returns a copy of the template's default filters.
func (q *Query) Filters() *filters.Set {
	if q == nil {
		return filters.NewSet()
	}
	return q.filters.Clone()
}

// SetFilters replaces the request filters.
func (q *Query) SetFilters(set *filters.Set) {
	if set == nil {
		set = filters.NewSet()
	}
	q.filters = set.Clone()
}

// Get returns a request level value other than filters.
func (q *Query) Get(key string) (any, bool) {
	if q == nil {
		return nil, false
	}
	value, ok := q.request[key]
	return value, ok
}

// Set writes a request level value. Setting "filters" replaces the filters.
func (q *Query) Set(key string, value any) {
	if key == filtersKey {
		if set, ok := value.(*filters.Set); ok {
			q.SetFilters(set)
			return
		}
		if raw, ok := value.(map[string]any); ok {
			q.SetFilters(filters.FromMap(raw))
			return
		}
	}
	q.request[key] = value
}

// Limit returns the template limit when it is a non-negative integer.
func (q *Query) Limit() (int, bool) {
	value, ok := q.Get(limitKey)
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil || n < 0 {
			return 0, false
		}
		return int(n), true
	case int:
		return v, v >= 0
	case float64:
		return int(v), v >= 0
	}
	return 0, false
}

// Text returns the free text search term.
func (q *Query) Text() string {
	value, _ := q.Get(queryKey)
	text, _ := value.(string)
	return text
}

// SortBy returns the sort specification.
func (q *Query) SortBy() map[string]string {
	value, ok := q.Get(sortByKey)
	if !ok {
		return nil
	}
	raw, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for field, direction := range raw {
		if text, ok := direction.(string); ok {
			out[field] = text
		}
	}
	return out
}

// Clone returns a deep copy.
func (q *Query) Clone() *Query {
	if q == nil {
		return nil
	}
	return &Query{
		root:    cloneMap(q.root),
		request: cloneMap(q.request),
		filters: q.filters.Clone(),
		wrapped: q.wrapped,
	}
}

// Document returns the query in its original shape with filters included.
func (q *Query) Document() map[string]any {
	request := cloneMap(q.request)
	request[filtersKey] = q.filters.Clone()
	if !q.wrapped {
		return request
	}
	out := cloneMap(q.root)
	out[requestKey] = request
	return out
}

// MarshalJSON renders the document. Top level keys are sorted; filters keep
// their insertion order.
func (q *Query) MarshalJSON() ([]byte, error) {
	return marshalSorted(q.Document())
}

// String renders the query as JSON text.
func (q *Query) String() string {
	data, err := q.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}

func marshalSorted(doc map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		var encoded []byte
		if nested, ok := doc[key].(map[string]any); ok {
			encoded, err = marshalSorted(nested)
		} else {
			encoded, err = json.Marshal(doc[key])
		}
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = cloneValue(v[i])
		}
		return out
	case *filters.Set:
		return v.Clone()
	default:
		return v
	}
}
