package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Confirm asks a yes/no question, or shows a notice when it has no choices.
// It quits the program once answered.
type Confirm struct {
	title    string
	message  string
	options  []string
	current  int
	answered bool
	width    int
}

// NewConfirm creates a yes/no question defaulting to yes.
func NewConfirm(title, message string) Confirm {
	return Confirm{title: title, message: message, options: []string{"Yes", "No"}, width: 80}
}

// NewNotice creates a message acknowledged with enter.
func NewNotice(title, message string) Confirm {
	return Confirm{title: title, message: message, options: []string{"OK"}, width: 80}
}

// Answered reports whether the user made a choice.
func (c Confirm) Answered() bool {
	return c.answered
}

// Yes reports whether the question was answered with yes. Declining or
// quitting counts as no.
func (c Confirm) Yes() bool {
	return c.answered && c.current == 0
}

// Init implements tea.Model
func (c Confirm) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (c Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return c.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		c.width = msg.Width
	}
	return c, nil
}

func (c Confirm) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h", "right", "l", "tab":
		c.current = (c.current + 1) % len(c.options)
	case "y", "Y":
		if len(c.options) > 1 {
			c.current = 0
			return c.answer()
		}
	case "n", "N":
		if len(c.options) > 1 {
			c.current = 1
			return c.answer()
		}
	case "enter", " ":
		return c.answer()
	case "esc", "q", "ctrl+c":
		c.answered = false
		c.current = len(c.options) - 1
		return c, tea.Quit
	}
	return c, nil
}

func (c Confirm) answer() (tea.Model, tea.Cmd) {
	c.answered = true
	return c, tea.Quit
}

// View implements tea.Model
func (c Confirm) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.title) + "\n")
	b.WriteString(c.message + "\n\n")

	for i, opt := range c.options {
		if i == c.current {
			b.WriteString(selectedOptionStyle.Render("[" + opt + "]"))
		} else {
			b.WriteString(optionStyle.Render(" " + opt + " "))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n")

	if len(c.options) > 1 {
		b.WriteString(helpStyle.Render("y/n: answer  ←/→: change  enter: confirm"))
	} else {
		b.WriteString(helpStyle.Render("enter: continue"))
	}
	return b.String()
}
