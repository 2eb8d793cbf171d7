package searchindex

import "go.mongodb.org/mongo-driver/v2/bson"

// plainDocument converts a decoded document into plain maps and slices so
// callers never see driver types such as bson.A or bson.D.
func plainDocument(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = plainValue(value)
	}
	return out
}

func plainValue(value any) any {
	switch v := value.(type) {
	case bson.M:
		return plainDocument(v)
	case map[string]any:
		return plainDocument(bson.M(v))
	case bson.D:
		out := make(map[string]any, len(v))
		for _, elem := range v {
			out[elem.Key] = plainValue(elem.Value)
		}
		return out
	case bson.A:
		return plainSlice(v)
	case []any:
		return plainSlice(v)
	default:
		return value
	}
}

func plainSlice(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = plainValue(item)
	}
	return out
}
