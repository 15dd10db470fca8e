package ui

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type workDoneMsg struct{ err error }

// spinnerModel shows a spinner next to label until work finishes.
type spinnerModel struct {
	spinner spinner.Model
	label   string
	done    bool
	err     error
}

func newSpinnerModel(label string, style lipgloss.Style) spinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(style))
	return spinnerModel{spinner: s, label: label}
}

// Init implements tea.Model.
func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// WithSpinner runs work while showing a spinner on out. When out is not a
// terminal the work runs without any output.
func WithSpinner(ctx context.Context, out io.Writer, label string, styles Styles, work func(context.Context) error) error {
	if !IsTerminal(out) {
		return work(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSpinnerModel(label, styles.AccentText),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	result := make(chan error, 1)
	go func() {
		err := work(ctx)
		result <- err
		p.Send(workDoneMsg{err: err})
	}()

	// A failed program only loses the animation; the work result decides.
	_, _ = p.Run()
	return <-result
}
