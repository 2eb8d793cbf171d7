package filters

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSetJSONPreservesKeyOrder(t *testing.T) {
	raw := `{"zeta":1,"alpha":["a","b"],"mid":{"<=":10}}`
	set := NewSet()
	if err := json.Unmarshal([]byte(raw), set); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	keys := set.Keys()
	if len(keys) != 3 || keys[0] != "zeta" || keys[1] != "alpha" || keys[2] != "mid" {
		t.Fatalf("unexpected key order %v", keys)
	}

	encoded, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded := NewSet()
	if err := json.Unmarshal(encoded, decoded); err != nil {
		t.Fatalf("re-decode %s: %v", encoded, err)
	}
	again := decoded.Keys()
	if len(again) != 3 || again[0] != "zeta" || again[1] != "alpha" || again[2] != "mid" {
		t.Fatalf("unexpected key order after round trip %v", again)
	}
	if !decoded.Equal(set) {
		t.Fatalf("expected round trip to preserve values, got %s", encoded)
	}
}

func TestSetUnmarshalClassifiesKinds(t *testing.T) {
	set := mustSet(t, `{"s":"x","n":3,"l":[1],"r":{">":1}}`)

	expect := map[string]Kind{"s": KindScalar, "n": KindScalar, "l": KindList, "r": KindRange}
	for key, kind := range expect {
		value, ok := set.Get(key)
		if !ok {
			t.Fatalf("missing key %s", key)
		}
		if value.Kind() != kind {
			t.Fatalf("key %s: expected %s, got %s", key, kind, value.Kind())
		}
	}
}

func TestSetUnmarshalRejectsNonRangeObjects(t *testing.T) {
	set := NewSet()
	err := set.UnmarshalJSON([]byte(`{"status":{"ne":"Retired"}}`))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if err := set.UnmarshalJSON([]byte(`{"size":{">=":1,"<":5}}`)); err != nil {
		t.Fatalf("expected range to decode, got %v", err)
	}
}

func TestSetDeleteKeepsRemainingOrder(t *testing.T) {
	set := mustSet(t, `{"a":1,"b":2,"c":3}`)
	set.Delete("b")

	keys := set.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("unexpected keys after delete %v", keys)
	}
}

func TestScalarEqualityAcrossNumericTypes(t *testing.T) {
	if !ScalarEqual(json.Number("1"), 1) {
		t.Fatalf("expected json.Number(1) == 1")
	}
	if !ScalarEqual(1.0, int64(1)) {
		t.Fatalf("expected 1.0 == int64(1)")
	}
	if ScalarEqual("1", 1) {
		t.Fatalf("expected string and number to differ")
	}
}

func TestFromMapBuildsSortedSet(t *testing.T) {
	set := FromMap(map[string]any{"b": []any{"x"}, "a": "y"})
	keys := set.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if v, _ := set.Get("b"); v.Kind() != KindList {
		t.Fatalf("expected list for b, got %s", v.Kind())
	}
}
