package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Item is one selectable entry of a List
type Item struct {
	Label  string
	Detail string
}

// ItemSelectedMsg is sent when an entry is chosen
type ItemSelectedMsg struct {
	List  string
	Index int
}

// List is a single-choice selection view. The cursor wraps at both ends.
type List struct {
	id       string
	title    string
	items    []Item
	selected int
	width    int
	height   int
}

// NewList creates a list identified by id in ItemSelectedMsg.
func NewList(id, title string, items []Item) List {
	return List{
		id:     id,
		title:  title,
		items:  items,
		width:  80,
		height: 24,
	}
}

// ID returns the list identifier
func (l List) ID() string {
	return l.id
}

// Selected returns the cursor index
func (l List) Selected() int {
	return l.selected
}

// Select moves the cursor to i if it is in range.
func (l List) Select(i int) List {
	if i >= 0 && i < len(l.items) {
		l.selected = i
	}
	return l
}

// Init implements tea.Model
func (l List) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (l List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return l.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		l.width = msg.Width
		l.height = msg.Height
	}
	return l, nil
}

func (l List) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(l.items) == 0 {
		return l, nil
	}

	switch msg.String() {
	case "up", "k":
		l.selected--
		if l.selected < 0 {
			l.selected = len(l.items) - 1
		}

	case "down", "j", "tab":
		l.selected++
		if l.selected >= len(l.items) {
			l.selected = 0
		}

	case "home", "g":
		l.selected = 0

	case "end", "G":
		l.selected = len(l.items) - 1

	case "enter", " ":
		sel := ItemSelectedMsg{List: l.id, Index: l.selected}
		return l, func() tea.Msg { return sel }
	}
	return l, nil
}

// View implements tea.Model
func (l List) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(l.title) + "\n\n")

	for i, item := range l.items {
		cursor, style := "  ", itemStyle
		if i == l.selected {
			cursor, style = "▸ ", selectedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s", cursor, item.Label)) + "\n")
		if i == l.selected && item.Detail != "" {
			b.WriteString(detailStyle.Render(item.Detail) + "\n")
		}
	}

	b.WriteString(helpStyle.Render("↑/↓: navigate  enter: select  esc: back  q: quit"))
	return b.String()
}
