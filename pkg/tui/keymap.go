package tui

import "github.com/charmbracelet/bubbles/key"

const (
	upArrow   = "↑"
	downArrow = "↓"
)

type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Back      key.Binding
	Enter     key.Binding
	Submit    key.Binding
	Refresh   key.Binding
	Tab       key.Binding
	State     key.Binding
	Filter    key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	PageSize  key.Binding
	Menu      key.Binding
	Create    key.Binding
	Update    key.Binding
	Resolve   key.Binding
	Close     key.Binding
	Open      key.Binding
	Priority  key.Binding
	Risk      key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit, k.Enter, k.Menu}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Enter, k.Open},
		{k.Tab, k.State, k.Filter, k.Refresh},
		{k.NextPage, k.PrevPage, k.PageSize},
		{k.Menu, k.Create, k.Update, k.Resolve, k.Close},
		{k.Help, k.Back, k.Quit},
	}
}

var defaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp(upArrow+"/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp(downArrow+"/j", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g/home", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G/end", "bottom"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("h"),
		key.WithHelp("h", "help"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "view details"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "refresh"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "incidents/changes"),
	),
	State: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "cycle state filter"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter description"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "previous page"),
	),
	PageSize: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "page size"),
	),
	Menu: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "actions"),
	),
	Create: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Update: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "update"),
	),
	Resolve: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "resolve"),
	),
	Close: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "close"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in browser"),
	),
	Priority: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "cycle priority"),
	),
	Risk: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "cycle risk"),
	),
}

type recordViewKeys struct{ KeyMap }

func (k recordViewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Back, k.Open}
}

func (k recordViewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Refresh},
		{k.Update, k.Resolve, k.Close},
		{k.Help, k.Back},
	}
}

type inputKeys struct{ KeyMap }

func (k inputKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Back}
}

func (k inputKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Back}}
}

type dialogKeys struct{ KeyMap }

func (k dialogKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Back, k.Priority, k.Risk}
}

func (k dialogKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Back}, {k.Priority, k.Risk}}
}

type menuKeys struct{ KeyMap }

func (k menuKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Submit, k.Back}
}

func (k menuKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Submit, k.Back}}
}

type errorViewKeys struct{ KeyMap }

func (k errorViewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

func (k errorViewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Back, k.Quit}}
}

var (
	recordViewKeyMap = recordViewKeys{defaultKeyMap}
	inputModeKeyMap  = inputKeys{defaultKeyMap}
	dialogKeyMap     = dialogKeys{defaultKeyMap}
	menuKeyMap       = menuKeys{defaultKeyMap}
	errorViewKeyMap  = errorViewKeys{defaultKeyMap}
)
