package tui

import (
	"github.com/hachimi-installer/hachimi-installer/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
)

// Prompter asks installer questions in the terminal, one small program per
// question. It implements core.Confirmer.
type Prompter struct {
	run func(tea.Model) (tea.Model, error)
}

// NewPrompter creates a prompter whose programs use opts.
func NewPrompter(opts ...tea.ProgramOption) *Prompter {
	return &Prompter{run: func(m tea.Model) (tea.Model, error) {
		return tea.NewProgram(m, opts...).Run()
	}}
}

// Confirm asks a yes/no question. Any failure to prompt counts as no.
func (p *Prompter) Confirm(title, message string) bool {
	final, err := p.run(views.NewConfirm(title, message))
	if err != nil {
		return false
	}
	c, ok := final.(views.Confirm)
	return ok && c.Yes()
}

// Notify shows a notice and waits for it to be acknowledged.
func (p *Prompter) Notify(title, message string) {
	_, _ = p.run(views.NewNotice(title, message))
}
