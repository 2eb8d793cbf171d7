package searchindex

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

// ErrUnsupportedOperator reports a range operator the index cannot express.
var ErrUnsupportedOperator = errors.New("searchindex: unsupported range operator")

const (
	opIn     = "$in"
	opText   = "$text"
	opSearch = "$search"
)

var rangeOperators = map[string]string{
	"<":  "$lt",
	"<=": "$lte",
	">":  "$gt",
	">=": "$gte",
}

// BuildFilter translates an index query into a MongoDB filter. Scalars match
// by equality, lists by $in, range maps by comparison operators and the free
// text term by $text.
func BuildFilter(query interfaces.IndexQuery) (bson.M, error) {
	and := []bson.M{}
	keys := make([]string, 0, len(query.Filters))
	for key := range query.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		clause, err := buildClause(key, query.Filters[key])
		if err != nil {
			return nil, err
		}
		and = append(and, clause)
	}
	if text := strings.TrimSpace(query.Query); text != "" {
		and = append(and, bson.M{opText: bson.M{opSearch: text}})
	}

	switch len(and) {
	case 0:
		return bson.M{}, nil
	case 1:
		return and[0], nil
	default:
		return bson.M{"$and": and}, nil
	}
}

func buildClause(key string, value any) (bson.M, error) {
	switch v := value.(type) {
	case []any:
		items := make(bson.A, 0, len(v))
		for _, item := range v {
			items = append(items, normalizeScalar(item))
		}
		return bson.M{key: bson.M{opIn: items}}, nil
	case []string:
		items := make(bson.A, 0, len(v))
		for _, item := range v {
			items = append(items, item)
		}
		return bson.M{key: bson.M{opIn: items}}, nil
	case map[string]any:
		bounds := bson.M{}
		for op, bound := range v {
			mongoOp, ok := rangeOperators[op]
			if !ok {
				return nil, fmt.Errorf("%w: %q on %q", ErrUnsupportedOperator, op, key)
			}
			bounds[mongoOp] = normalizeScalar(bound)
		}
		return bson.M{key: bounds}, nil
	default:
		return bson.M{key: normalizeScalar(v)}, nil
	}
}

func normalizeScalar(value any) any {
	number, ok := value.(json.Number)
	if !ok {
		return value
	}
	if i, err := number.Int64(); err == nil {
		return i
	}
	if f, err := number.Float64(); err == nil {
		return f
	}
	return number.String()
}

// BuildSort translates a sort specification into a deterministic sort
// document. "desc" sorts descending; anything else ascends.
func BuildSort(sortBy map[string]string) bson.D {
	if len(sortBy) == 0 {
		return nil
	}
	fields := make([]string, 0, len(sortBy))
	for field := range sortBy {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	out := make(bson.D, 0, len(fields))
	for _, field := range fields {
		direction := 1
		if strings.EqualFold(strings.TrimSpace(sortBy[field]), "desc") {
			direction = -1
		}
		out = append(out, bson.E{Key: field, Value: direction})
	}
	return out
}
