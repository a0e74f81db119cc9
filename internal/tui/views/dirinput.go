package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// DirEnteredMsg is sent when a directory passes validation
type DirEnteredMsg struct {
	Dir string
}

// DirInput asks for the game install directory. Validate runs on enter and
// its error is shown inline.
type DirInput struct {
	input    textinput.Model
	validate func(string) error
	err      error
}

// NewDirInput creates the prompt. validate may be nil.
func NewDirInput(initial string, validate func(string) error) DirInput {
	ti := textinput.New()
	ti.Placeholder = `C:\Games\Umamusume`
	ti.Prompt = "> "
	ti.CharLimit = 260
	ti.Width = 60
	ti.SetValue(initial)
	ti.Focus()

	return DirInput{input: ti, validate: validate}
}

// Value returns the current text
func (d DirInput) Value() string {
	return d.input.Value()
}

// Err returns the last validation error
func (d DirInput) Err() error {
	return d.err
}

// Init implements tea.Model
func (d DirInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (d DirInput) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		dir := strings.Trim(strings.TrimSpace(d.input.Value()), `"`)
		if d.validate != nil {
			if err := d.validate(dir); err != nil {
				d.err = err
				return d, nil
			}
		}
		d.err = nil
		return d, func() tea.Msg { return DirEnteredMsg{Dir: dir} }
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

// View implements tea.Model
func (d DirInput) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Install location") + "\n")
	b.WriteString("No installation was detected. Enter the folder that contains the game executable.\n\n")
	b.WriteString(d.input.View() + "\n")
	if d.err != nil {
		b.WriteString(errorStyle.Render(d.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("enter: confirm  esc: quit"))
	return b.String()
}
