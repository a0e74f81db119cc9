// Package tui implements the interactive installer screens and the terminal
// confirmation prompts.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hachimi-installer/hachimi-installer/internal/domain"
	"github.com/hachimi-installer/hachimi-installer/internal/locate"
	"github.com/hachimi-installer/hachimi-installer/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves without choosing an action.
var ErrCancelled = errors.New("cancelled by user")

// ViewType represents the screens of the interactive installer
type ViewType int

const (
	ViewChannel ViewType = iota
	ViewDir
	ViewTarget
	ViewAction
)

// Action is what the user chose to do
type Action int

const (
	ActionNone Action = iota
	ActionInstall
	ActionUninstall
)

func (a Action) String() string {
	switch a {
	case ActionInstall:
		return "install"
	case ActionUninstall:
		return "uninstall"
	default:
		return "none"
	}
}

// Session is the installer state the screens read and change.
type Session interface {
	InstallDir() string
	Distribution() domain.Distribution
	SetInstallDir(dir string) error
	DisplayLabel(t domain.Target) string
}

// Choice is the result of the interactive flow
type Choice struct {
	Action Action
	Target domain.Target
}

// App is the interactive installer model
type App struct {
	session Session
	found   []domain.Installation
	version string
	keys    *KeyMap

	view     ViewType
	manual   bool // the install dir was typed in
	showHelp bool
	err      error
	width    int
	height   int

	channels views.List
	dir      views.DirInput
	targets  views.List
	actions  views.List

	target domain.Target
	choice Choice
	done   bool
}

// NewApp creates the interactive flow. found are the detected installations;
// with more than one the user picks first, with none a path is asked for.
func NewApp(session Session, found []domain.Installation, version string) App {
	a := App{
		session: session,
		found:   found,
		version: version,
		keys:    NewKeyMap(),
		width:   80,
		height:  24,
	}

	items := make([]views.Item, len(found))
	for i, inst := range found {
		items[i] = views.Item{Label: inst.Distribution.DisplayName(), Detail: inst.Dir}
	}
	a.channels = views.NewList("channel", "Select a game installation", items)
	a.actions = views.NewList("action", "Choose an action", []views.Item{
		{Label: "Install", Detail: "Install or update the mod at the selected target"},
		{Label: "Uninstall", Detail: "Remove the mod and restore the game files"},
	})

	switch {
	case len(found) > 1:
		a.view = ViewChannel
	case session.InstallDir() == "":
		a.openDirInput()
	default:
		a.openTargets()
	}
	return a
}

func (a *App) openDirInput() {
	a.dir = views.NewDirInput(a.session.InstallDir(), func(dir string) error {
		_, err := locate.Validate(dir)
		return err
	})
	a.view = ViewDir
}

func (a *App) openTargets() {
	targets := domain.AllTargets()
	items := make([]views.Item, len(targets))
	selected := 0
	for i, t := range targets {
		items[i] = views.Item{Label: a.session.DisplayLabel(t), Detail: "method: " + domain.MethodFor(t, a.session.Distribution()).String()}
		if t == a.target {
			selected = i
		}
	}
	a.targets = views.NewList("target", "Select an install target", items).Select(selected)
	a.view = ViewTarget
}

// CurrentView returns the active screen
func (a App) CurrentView() ViewType {
	return a.view
}

// Result returns the user's choice and whether one was made.
func (a App) Result() (Choice, bool) {
	return a.choice, a.done
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	if a.view == ViewDir {
		return a.dir.Init()
	}
	return nil
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case views.ItemSelectedMsg:
		return a.handleSelection(msg)

	case views.DirEnteredMsg:
		if err := a.session.SetInstallDir(msg.Dir); err != nil {
			a.err = err
			return a, nil
		}
		a.err = nil
		a.manual = true
		a.openTargets()
		return a, nil
	}

	return a.updateCurrentView(msg)
}

func (a App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.keys.SetTyping(a.view == ViewDir)

	switch {
	case a.keys.IsQuit(msg):
		return a, tea.Quit
	case a.keys.IsHelp(msg):
		a.showHelp = !a.showHelp
		return a, nil
	case a.keys.IsBack(msg):
		return a.back()
	}

	return a.updateCurrentView(msg)
}

func (a App) back() (tea.Model, tea.Cmd) {
	a.err = nil
	switch a.view {
	case ViewAction:
		a.view = ViewTarget
		return a, nil
	case ViewTarget:
		if len(a.found) > 1 {
			a.view = ViewChannel
			return a, nil
		}
		if a.manual {
			a.openDirInput()
			return a, a.dir.Init()
		}
	}
	return a, tea.Quit
}

func (a App) handleSelection(msg views.ItemSelectedMsg) (tea.Model, tea.Cmd) {
	switch msg.List {
	case "channel":
		if err := a.session.SetInstallDir(a.found[msg.Index].Dir); err != nil {
			a.err = err
			return a, nil
		}
		a.err = nil
		a.openTargets()

	case "target":
		a.target = domain.AllTargets()[msg.Index]
		a.view = ViewAction

	case "action":
		a.choice = Choice{Action: ActionInstall, Target: a.target}
		if msg.Index == 1 {
			a.choice.Action = ActionUninstall
		}
		a.done = true
		return a, tea.Quit
	}
	return a, nil
}

func (a App) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		m   tea.Model
		cmd tea.Cmd
	)

	switch a.view {
	case ViewChannel:
		m, cmd = a.channels.Update(msg)
		a.channels = m.(views.List)
	case ViewDir:
		m, cmd = a.dir.Update(msg)
		a.dir = m.(views.DirInput)
	case ViewTarget:
		m, cmd = a.targets.Update(msg)
		a.targets = m.(views.List)
	case ViewAction:
		m, cmd = a.actions.Update(msg)
		a.actions = m.(views.List)
	}

	return a, cmd
}

// View implements tea.Model
func (a App) View() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("Hachimi Installer "+a.version) + "\n")
	if dir := a.session.InstallDir(); dir != "" && a.view != ViewChannel {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%s: %s", a.session.Distribution().DisplayName(), dir)) + "\n")
	}
	b.WriteString("\n")

	switch {
	case a.showHelp:
		b.WriteString(a.keys.FullHelp())
	case a.view == ViewChannel:
		b.WriteString(a.channels.View())
	case a.view == ViewDir:
		b.WriteString(a.dir.View())
	case a.view == ViewTarget:
		b.WriteString(a.targets.View())
	default:
		b.WriteString(a.actions.View())
	}

	if a.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString("\n\n" + errStyle.Render(fmt.Sprintf("Error: %v", a.err)))
	}
	return b.String()
}

// Run shows the interactive flow and returns the user's choice, or
// ErrCancelled when they quit.
func Run(session Session, found []domain.Installation, version string, opts ...tea.ProgramOption) (Choice, error) {
	final, err := tea.NewProgram(NewApp(session, found, version), opts...).Run()
	if err != nil {
		return Choice{}, err
	}
	choice, ok := final.(App).Result()
	if !ok {
		return Choice{}, ErrCancelled
	}
	return choice, nil
}
