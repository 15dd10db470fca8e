package availability

import (
	"testing"
	"time"

	"github.com/five82/shelfwatch/internal/catalog"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSensibleDueDate(t *testing.T) {
	today := time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name   string
		raw    time.Time
		status catalog.Status
		want   time.Time
	}{
		{"available past", date(2026, 1, 1), catalog.StatusAvailable, time.Time{}},
		{"available future", date(2027, 1, 1), catalog.StatusAvailable, time.Time{}},
		{"available absent", time.Time{}, catalog.StatusAvailable, time.Time{}},
		{"on loan past", date(2026, 10, 17), catalog.StatusOnLoan, time.Time{}},
		{"on loan today", date(2026, 10, 18), catalog.StatusOnLoan, date(2026, 10, 18)},
		{"on loan future", date(2026, 11, 2), catalog.StatusOnLoan, date(2026, 11, 2)},
		{"on loan absent", time.Time{}, catalog.StatusOnLoan, time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SensibleDueDate(tc.raw, tc.status, today)
			if !got.Equal(tc.want) {
				t.Fatalf("SensibleDueDate(%v, %v) = %v, want %v", tc.raw, tc.status, got, tc.want)
			}
		})
	}
}

func TestSensibleDueDate_AvailableAlwaysAbsent(t *testing.T) {
	today := date(2026, 10, 18)
	for offset := -400; offset <= 400; offset += 7 {
		d := today.AddDate(0, 0, offset)
		if got := SensibleDueDate(d, catalog.StatusAvailable, today); !got.IsZero() {
			t.Fatalf("SensibleDueDate(%v, available) = %v, want absent", d, got)
		}
	}
}

func TestSensibleDueDate_ComparesCalendarDays(t *testing.T) {
	// Late evening in a zone east of UTC is still the same calendar day.
	berlin := time.FixedZone("CEST", 2*60*60)
	today := time.Date(2026, 10, 18, 23, 59, 0, 0, berlin)
	if got := SensibleDueDate(date(2026, 10, 18), catalog.StatusOnLoan, today); got.IsZero() {
		t.Fatalf("due today was dropped")
	}
}
