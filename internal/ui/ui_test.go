package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelfwatch/internal/availability"
	"github.com/five82/shelfwatch/internal/catalog"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRenderStock_ListsRowsAndVerdict(t *testing.T) {
	styles := GetTheme("Dracula").Styles()
	rows := []StockRow{
		{Branch: "Zentralbibliothek", Copies: 2, Shelf: "Sch", Status: catalog.StatusOnLoan, DueDate: date(2026, 11, 14)},
		{Branch: "Altona", Copies: 1, Shelf: "Schä", Status: catalog.StatusAvailable},
	}
	best := availability.Verdict{Branch: "Altona", Shelf: "Schä", Status: catalog.StatusAvailable}

	out := RenderStock("M58 123 456 7", rows, &best, styles)

	for _, want := range []string{
		"Stock for M58 123 456 7",
		"Branch", "Due",
		"Zentralbibliothek", "14/11/2026", "on loan",
		"Altona", "available",
		"Best: available at Altona (Schä)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderStock_Empty(t *testing.T) {
	out := RenderStock("X", nil, nil, GetTheme("Slate").Styles())
	if !strings.Contains(out, "No matching copies.") {
		t.Fatalf("output = %q", out)
	}
}

func TestRenderVerdict_OnLoanShowsDueDate(t *testing.T) {
	v := availability.Verdict{Branch: "Altona", Status: catalog.StatusOnLoan, DueDate: date(2026, 10, 2)}
	out := RenderVerdict(v, GetTheme("").Styles())
	if !strings.Contains(out, "on loan at Altona, due 02/10/2026") {
		t.Fatalf("RenderVerdict = %q", out)
	}

	v.DueDate = time.Time{}
	if out := RenderVerdict(v, GetTheme("").Styles()); strings.Contains(out, "due") {
		t.Fatalf("RenderVerdict without date = %q", out)
	}
}

func TestThemes(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 || names[0] != "Dracula" || names[1] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Dracula Slate]", names)
	}
	if got := NextTheme("Dracula"); got != "Slate" {
		t.Fatalf("NextTheme(Dracula) = %q, want Slate", got)
	}
	if got := NextTheme("Slate"); got != "Dracula" {
		t.Fatalf("NextTheme(Slate) = %q, want Dracula", got)
	}
	if got := NextTheme("nope"); got != "Dracula" {
		t.Fatalf("NextTheme(nope) = %q, want Dracula", got)
	}
	if GetTheme("nope").Name != "Dracula" {
		t.Fatalf("GetTheme(nope) should fall back to Dracula")
	}
	if !HasTheme("Slate") || HasTheme("slate") {
		t.Fatalf("HasTheme is case-sensitive on exact names")
	}
}

func TestStatusStyle_UnknownFallsBack(t *testing.T) {
	th := GetTheme("Dracula")
	s := th.Styles()
	if got := s.StatusStyle(catalog.StatusAvailable).GetForeground(); got != lipgloss.Color(th.StatusColors["available"]) {
		t.Fatalf("available foreground = %v", got)
	}
	if got := s.StatusStyle(catalog.StatusUnknown).GetForeground(); got != lipgloss.Color(th.Muted) {
		t.Fatalf("unknown foreground = %v", got)
	}
}

func TestSpinnerModel_QuitsWhenWorkDone(t *testing.T) {
	m := newSpinnerModel("Checking", GetTheme("").Styles().AccentText)
	if m.Init() == nil {
		t.Fatalf("Init should start the spinner tick")
	}
	if !strings.Contains(m.View(), "Checking") {
		t.Fatalf("View = %q, want label", m.View())
	}

	next, _ := m.Update(m.spinner.Tick())
	if _, ok := next.(spinnerModel); !ok {
		t.Fatalf("Update(tick) returned %T", next)
	}

	boom := errors.New("boom")
	next, cmd := m.Update(workDoneMsg{err: boom})
	done := next.(spinnerModel)
	if !done.done || !errors.Is(done.err, boom) {
		t.Fatalf("model after done = %#v", done)
	}
	if done.View() != "" {
		t.Fatalf("View after done = %q, want empty", done.View())
	}
	if cmd == nil {
		t.Fatalf("Update(done) cmd = nil, want tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("Update(done) cmd should quit")
	}
}

func TestWithSpinner_NonTerminalRunsSilently(t *testing.T) {
	var buf bytes.Buffer
	ran := false
	want := errors.New("fetch failed")
	err := WithSpinner(context.Background(), &buf, "Checking", GetTheme("").Styles(), func(context.Context) error {
		ran = true
		return want
	})
	if !ran {
		t.Fatalf("work did not run")
	}
	if !errors.Is(err, want) {
		t.Fatalf("WithSpinner error = %v, want %v", err, want)
	}
	if buf.Len() != 0 {
		t.Fatalf("non-terminal output = %q, want none", buf.String())
	}
	if IsTerminal(&buf) {
		t.Fatalf("IsTerminal(buffer) = true")
	}
}
