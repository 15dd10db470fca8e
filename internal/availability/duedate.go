package availability

import (
	"time"

	"github.com/five82/shelfwatch/internal/catalog"
)

// SensibleDueDate drops due dates that carry no information: any date on an
// available copy, and dates strictly before today's calendar date. The zero
// time means absent.
func SensibleDueDate(raw time.Time, status catalog.Status, today time.Time) time.Time {
	if raw.IsZero() {
		return raw
	}
	if status == catalog.StatusAvailable {
		return time.Time{}
	}
	if civil(raw).Before(civil(today)) {
		return time.Time{}
	}
	return raw
}

// civil truncates t to its calendar date in t's own location, expressed as
// UTC midnight so dates from different zones compare by day.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
