package availability

import (
	"errors"
	"time"

	"github.com/five82/shelfwatch/internal/catalog"
)

// ErrEmptyInput is returned when there is nothing to reduce.
var ErrEmptyInput = errors.New("no availability records to reduce")

// Verdict is the availability of one copy or shelf entry after due-date
// sanitization.
type Verdict struct {
	Branch  string
	Shelf   string
	Status  catalog.Status
	DueDate time.Time // zero when absent
}

// Best returns the more favourable of a and b. Available beats on loan; on a
// status tie no due date beats a due date and the earlier due date beats a
// later one. An unknown status loses to both. Fully equivalent inputs return a.
func Best(a, b Verdict) Verdict {
	switch ra, rb := rank(a.Status), rank(b.Status); {
	case ra < rb:
		return a
	case ra > rb:
		return b
	case a.DueDate.IsZero():
		return a
	case b.DueDate.IsZero():
		return b
	case b.DueDate.Before(a.DueDate):
		return b
	default:
		return a
	}
}

func rank(s catalog.Status) int {
	switch s {
	case catalog.StatusAvailable:
		return 0
	case catalog.StatusOnLoan:
		return 1
	default:
		return 2
	}
}

// Reduce folds verdicts with Best. The result depends only on the set of
// (Status, DueDate) keys, not on their order.
func Reduce(verdicts []Verdict) (Verdict, error) {
	if len(verdicts) == 0 {
		return Verdict{}, ErrEmptyInput
	}
	best := verdicts[0]
	for _, v := range verdicts[1:] {
		best = Best(best, v)
	}
	return best, nil
}

// FromCopies builds sanitized verdicts from catalogue copies.
func FromCopies(copies []catalog.Copy, today time.Time) []Verdict {
	out := make([]Verdict, 0, len(copies))
	for _, c := range copies {
		out = append(out, Verdict{
			Branch:  c.Owner,
			Shelf:   c.Number,
			Status:  c.Status,
			DueDate: SensibleDueDate(c.StatusChanged, c.Status, today),
		})
	}
	return out
}

// FromBranches flattens stock branches into sanitized verdicts, one per shelf
// entry, preserving branch order.
func FromBranches(branches []catalog.Branch, today time.Time) []Verdict {
	var out []Verdict
	for _, b := range branches {
		for _, item := range b.Items {
			status := item.LoanStatus.Status()
			out = append(out, Verdict{
				Branch:  b.Name,
				Shelf:   item.Shelf,
				Status:  status,
				DueDate: SensibleDueDate(item.DueDate, status, today),
			})
		}
	}
	return out
}
