package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/shelfwatch/internal/availability"
	"github.com/five82/shelfwatch/internal/catalog"
)

// StockRow is one shelf line of the stock table. DueDate is already
// sanitized; the zero time renders as a dash.
type StockRow struct {
	Branch  string
	Copies  int
	Shelf   string
	Status  catalog.Status
	DueDate time.Time
}

var stockHeaders = []string{"Branch", "Copies", "Shelf", "Status", "Due"}

// RenderStock draws the stock table for bacNo followed by the best verdict.
// best may be nil when there is nothing to reduce.
func RenderStock(bacNo string, rows []StockRow, best *availability.Verdict, styles Styles) string {
	var b strings.Builder

	b.WriteString(styles.AccentText.Render("Stock for " + bacNo))
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(styles.MutedText.Render("No matching copies."))
		b.WriteString("\n")
		return b.String()
	}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Branch,
			strconv.Itoa(r.Copies),
			r.Shelf,
			statusLabel(r.Status),
			formatDue(r.DueDate),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Border).
		Headers(stockHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Header
			}
			if col == 3 && row >= 0 && row < len(rows) {
				return styles.StatusStyle(rows[row].Status)
			}
			return styles.Cell
		})

	b.WriteString(t.String())
	b.WriteString("\n")

	if best != nil {
		b.WriteString(RenderVerdict(*best, styles))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderVerdict summarizes the best place to get a copy.
func RenderVerdict(v availability.Verdict, styles Styles) string {
	where := v.Branch
	if v.Shelf != "" {
		where = fmt.Sprintf("%s (%s)", v.Branch, v.Shelf)
	}
	if v.Status == catalog.StatusAvailable {
		return styles.SuccessText.Render("Best: available at " + where)
	}
	line := "Best: on loan at " + where
	if !v.DueDate.IsZero() {
		line += ", due " + formatDue(v.DueDate)
	}
	return styles.WarningText.Render(line)
}

func statusLabel(s catalog.Status) string {
	switch s {
	case catalog.StatusAvailable:
		return "available"
	case catalog.StatusOnLoan:
		return "on loan"
	default:
		return "unknown"
	}
}

func formatDue(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(catalog.DateLayout)
}
