package tui

import (
	"strings"

	"github.com/clcollins/srenow/pkg/snow"
	"github.com/clcollins/srenow/pkg/tui/style"
)

// menuItem is a single entry in the per-record action menu
type menuItem struct {
	title       string
	description string
	kind        dialogKind
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.description }
func (i menuItem) FilterValue() string { return i.title }

var menuItems = []menuItem{
	{title: "Update", description: "change the short description", kind: dialogUpdate},
	{title: "Resolve", description: "resolve with notes", kind: dialogResolve},
	{title: "Close", description: "close with notes", kind: dialogClose},
}

// actionMenu is the context menu opened on the highlighted row
type actionMenu struct {
	visible bool
	cursor  int
	target  *snow.RecordRef
}

func (a actionMenu) open(target *snow.RecordRef) actionMenu {
	return actionMenu{visible: true, target: target}
}

func (a actionMenu) close() actionMenu {
	return actionMenu{}
}

func (a actionMenu) up() actionMenu {
	if a.cursor > 0 {
		a.cursor--
	}
	return a
}

func (a actionMenu) down() actionMenu {
	if a.cursor < len(menuItems)-1 {
		a.cursor++
	}
	return a
}

func (a actionMenu) selected() menuItem {
	return menuItems[a.cursor]
}

func (a actionMenu) View() string {
	var s strings.Builder
	if a.target != nil {
		s.WriteString(style.DialogTitle.Render(a.target.Number))
		s.WriteString("\n")
	}
	for i, item := range menuItems {
		line := item.Title() + "  " + item.Description()
		if i == a.cursor {
			line = style.MenuSelected.Render(line)
		}
		s.WriteString(line)
		if i < len(menuItems)-1 {
			s.WriteString("\n")
		}
	}
	return style.Menu.Render(s.String())
}
