package catalog

import "time"

// DateLayout is the day/month/year format used by every date field.
const DateLayout = "02/01/2006"

// Info is the title-level metadata of a catalogue item.
type Info struct {
	CatalogNumber string
	Title         string
	Author        string
	Year          int
	Copies        int
}

// Copy is one physical copy from GetCatalogueItems.
type Copy struct {
	Number        string
	Owner         string
	Status        Status
	StatusChanged time.Time // zero when absent
	Reserved      bool
}

// Branch is one branch entry from GetStockStatusInfo.
type Branch struct {
	Name   string
	Copies int
	Items  []StockItem
}

// StockItem is one shelf entry within a Branch.
type StockItem struct {
	Shelf      string
	LoanStatus LoanStatus
	DueDate    time.Time // zero when absent
}

// ParseDate parses a DateLayout value into a UTC civil date. Blank input is
// absent and returns the zero time.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(DateLayout, value, time.UTC)
}
