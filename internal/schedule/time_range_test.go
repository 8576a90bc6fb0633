package schedule

import (
	"testing"
	"time"
)

func tr(startHour, startMin, endHour, endMin int) TimeRange {
	day := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	return TimeRange{
		Start: day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:   day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name    string
		a, b    TimeRange
		overlap bool
	}{
		{"identical", tr(10, 0, 10, 30), tr(10, 0, 10, 30), true},
		{"partial", tr(10, 0, 11, 0), tr(10, 30, 11, 30), true},
		{"contained", tr(10, 0, 12, 0), tr(10, 30, 11, 0), true},
		{"touching ends", tr(10, 0, 10, 30), tr(10, 30, 11, 0), false},
		{"disjoint", tr(10, 0, 10, 30), tr(12, 0, 12, 30), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.overlap {
				t.Fatalf("a.Overlaps(b) = %v, want %v", got, tc.overlap)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.overlap {
				t.Fatalf("b.Overlaps(a) = %v, want %v", got, tc.overlap)
			}
		})
	}
}

func TestHasOverlap(t *testing.T) {
	existing := []TimeRange{
		tr(10, 0, 10, 30),
		tr(11, 0, 11, 30),
		tr(14, 0, 15, 0),
	}

	overlap, conflicts := HasOverlap(tr(14, 30, 15, 30), existing)
	if !overlap {
		t.Fatalf("expected overlap")
	}
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}

	overlap, conflicts = HasOverlap(tr(10, 30, 11, 0), existing)
	if overlap {
		t.Fatalf("expected no overlap for the gap between slots, got %v", conflicts)
	}

	overlap, _ = HasOverlap(tr(9, 0, 16, 0), existing)
	if !overlap {
		t.Fatalf("expected overlap for the covering range")
	}
}

func TestFormatSlotRange(t *testing.T) {
	got := FormatSlotRange(tr(10, 0, 10, 30), time.UTC)
	want := "Понедельник, 15.12.2025, 10:00–10:30"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
