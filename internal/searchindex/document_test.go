package searchindex

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestPlainDocumentUnwrapsDriverTypes(t *testing.T) {
	doc := plainDocument(bson.M{
		"identifier": "c1",
		"board":      bson.A{"CBSE", "ICSE"},
		"meta":       bson.D{{Key: "tags", Value: bson.A{"x", bson.M{"k": "v"}}}},
	})

	board, ok := doc["board"].([]any)
	if !ok || len(board) != 2 || board[0] != "CBSE" || board[1] != "ICSE" {
		t.Fatalf("expected plain board slice, got %#v", doc["board"])
	}
	meta, ok := doc["meta"].(map[string]any)
	if !ok {
		t.Fatalf("expected plain meta map, got %#v", doc["meta"])
	}
	tags, ok := meta["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Fatalf("expected plain tags slice, got %#v", meta["tags"])
	}
	if nested, ok := tags[1].(map[string]any); !ok || nested["k"] != "v" {
		t.Fatalf("expected nested plain map, got %#v", tags[1])
	}
	if doc["identifier"] != "c1" {
		t.Fatalf("expected scalar to pass through, got %#v", doc["identifier"])
	}
}
