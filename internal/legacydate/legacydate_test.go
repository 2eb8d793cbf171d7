package legacydate

import (
	"testing"
	"time"
)

func TestParseKnownLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2018-05-06":                     time.Date(2018, 5, 6, 0, 0, 0, 0, time.UTC),
		"2018-05-06 10:11:12":            time.Date(2018, 5, 6, 10, 11, 12, 0, time.UTC),
		"2018-05-06T10:11:12+02:00":      time.Date(2018, 5, 6, 8, 11, 12, 0, time.UTC),
		"2018-05-06 10:11:12:000+0000":   time.Date(2018, 5, 6, 10, 11, 12, 0, time.UTC),
		"  2018-05-06 10:11:12.000+0000": time.Date(2018, 5, 6, 10, 11, 12, 0, time.UTC),
	}
	for raw, want := range cases {
		got, ok := Parse(raw)
		if !ok {
			t.Fatalf("expected %q to parse", raw)
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Fatalf("%q: expected %v, got %v", raw, want, got)
		}
	}
}

func TestParseRejectsBlankAndUnknown(t *testing.T) {
	for _, raw := range []string{"", "   ", "06/05/2018"} {
		if _, ok := Parse(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestCloneCopiesValue(t *testing.T) {
	if Clone(nil) != nil {
		t.Fatalf("expected nil clone")
	}
	now := time.Now()
	cloned := Clone(&now)
	if cloned == &now || !cloned.Equal(now) {
		t.Fatalf("expected independent copy")
	}
}
