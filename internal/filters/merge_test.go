package filters

import (
	"encoding/json"
	"testing"
)

func mustSet(t *testing.T, raw string) *Set {
	t.Helper()
	set := NewSet()
	if err := json.Unmarshal([]byte(raw), set); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return set
}

func TestMergeWithEmptyOverrideReturnsBase(t *testing.T) {
	base := mustSet(t, `{"a":[1,2],"b":"x","c":{">":3}}`)

	got := Merge(base, NewSet())

	if !got.Equal(base) {
		t.Fatalf("expected merge with empty override to equal base, got %s", encode(t, got))
	}
	if got == base {
		t.Fatalf("expected merge to return a copy")
	}
}

func TestMergeListUnion(t *testing.T) {
	got := Merge(mustSet(t, `{"a":[1,2]}`), mustSet(t, `{"a":[2,3]}`))

	value, _ := got.Get("a")
	if value.Kind() != KindList {
		t.Fatalf("expected list, got %s", value.Kind())
	}
	items := value.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 unique items, got %v", items)
	}
	for _, want := range []any{1, 2, 3} {
		if !containsScalar(items, want) {
			t.Fatalf("expected %v in %v", want, items)
		}
	}
}

func TestMergeScalarEscalatesToList(t *testing.T) {
	got := Merge(mustSet(t, `{"a":1}`), mustSet(t, `{"a":2}`))

	want := List(1, 2)
	value, _ := got.Get("a")
	if !value.Equal(want) {
		t.Fatalf("expected [1,2], got %s", encode(t, got))
	}
}

func TestMergeScalarIntoListAppendsOnce(t *testing.T) {
	base := mustSet(t, `{"a":["x","y"]}`)

	got := Merge(base, mustSet(t, `{"a":"y"}`))
	value, _ := got.Get("a")
	if len(value.Items()) != 2 {
		t.Fatalf("expected existing scalar not to be appended, got %v", value.Items())
	}

	got = Merge(base, mustSet(t, `{"a":"z"}`))
	value, _ = got.Get("a")
	if !value.Equal(List("x", "y", "z")) {
		t.Fatalf("expected [x y z], got %v", value.Items())
	}
}

func TestMergeListIntoScalarDeduplicates(t *testing.T) {
	got := Merge(mustSet(t, `{"a":"x"}`), mustSet(t, `{"a":["x","y"]}`))

	value, _ := got.Get("a")
	if !value.Equal(List("x", "y")) {
		t.Fatalf("expected [x y], got %v", value.Interface())
	}
}

func TestMergeRangeOverridesWin(t *testing.T) {
	cases := []struct {
		name     string
		base     string
		override string
		want     Kind
	}{
		{name: "range over scalar", base: `{"a":1}`, override: `{"a":{"<":5}}`, want: KindRange},
		{name: "range over list", base: `{"a":[1,2]}`, override: `{"a":{">=":2}}`, want: KindRange},
		{name: "list over range", base: `{"a":{"<":5}}`, override: `{"a":[1]}`, want: KindList},
		{name: "scalar over range", base: `{"a":{"<":5}}`, override: `{"a":7}`, want: KindScalar},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			override := mustSet(t, tc.override)
			got := Merge(mustSet(t, tc.base), override)
			value, _ := got.Get("a")
			if value.Kind() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, value.Kind())
			}
			expected, _ := override.Get("a")
			if !value.Equal(expected) {
				t.Fatalf("expected override value to win, got %v", value.Interface())
			}
		})
	}
}

func TestMergeCopiesNewKeysAndKeepsBaseOnlyKeys(t *testing.T) {
	got := Merge(mustSet(t, `{"a":1}`), mustSet(t, `{"b":["x"]}`))

	if got.Len() != 2 {
		t.Fatalf("expected two keys, got %v", got.Keys())
	}
	a, _ := got.Get("a")
	if !a.Equal(Scalar(1)) {
		t.Fatalf("expected base key untouched, got %v", a.Interface())
	}
	b, _ := got.Get("b")
	if !b.Equal(List("x")) {
		t.Fatalf("expected override key copied, got %v", b.Interface())
	}
}

func TestMergeKeysAreCaseSensitive(t *testing.T) {
	got := Merge(mustSet(t, `{"Board":"CBSE"}`), mustSet(t, `{"board":"ICSE"}`))
	if got.Len() != 2 {
		t.Fatalf("expected distinct keys, got %v", got.Keys())
	}
}

func TestOverlayReplacesAndDivergesFromMerge(t *testing.T) {
	base := mustSet(t, `{"a":1,"b":2}`)
	override := mustSet(t, `{"a":9}`)

	overlaid := Overlay(base, override)
	if want := mustSet(t, `{"a":9,"b":2}`); !overlaid.Equal(want) {
		t.Fatalf("overlay: expected %s, got %s", encode(t, want), encode(t, overlaid))
	}

	merged := Merge(base, override)
	if want := mustSet(t, `{"a":[1,9],"b":2}`); !merged.Equal(want) {
		t.Fatalf("merge: expected %s, got %s", encode(t, want), encode(t, merged))
	}

	if overlaid.Equal(merged) {
		t.Fatalf("expected overlay and merge to diverge")
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := mustSet(t, `{"a":[1]}`)
	override := mustSet(t, `{"a":[2],"b":1}`)

	_ = Merge(base, override)
	_ = Overlay(base, override)

	if base.Len() != 1 {
		t.Fatalf("expected base untouched, got %v", base.Keys())
	}
	a, _ := base.Get("a")
	if len(a.Items()) != 1 {
		t.Fatalf("expected base list untouched, got %v", a.Items())
	}
}

func encode(t *testing.T, set *Set) string {
	t.Helper()
	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(data)
}
