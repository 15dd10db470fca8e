package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelfwatch/internal/catalog"
)

// Console prints the announcement to a terminal.
type Console struct {
	Out   io.Writer
	Style lipgloss.Style
}

// NewConsole writes to stdout with style.
func NewConsole(style lipgloss.Style) *Console {
	return &Console{Out: os.Stdout, Style: style}
}

func (c *Console) Name() string { return "console" }

func (c *Console) NotifyAvailable(_ context.Context, info catalog.Info) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := fmt.Fprintln(out, c.Style.Render(Message(info)))
	return err
}

// Message is the human-readable announcement for info.
func Message(info catalog.Info) string {
	return fmt.Sprintf("Book '%s' is available. Go get it now!", titleOf(info))
}

func titleOf(info catalog.Info) string {
	if info.Title != "" {
		return info.Title
	}
	return info.CatalogNumber
}
