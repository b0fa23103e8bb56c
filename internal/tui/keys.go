package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	ForceQuit  key.Binding
	Open       key.Binding
	New        key.Binding
	Search     key.Binding
	Reload     key.Binding
	Delete     key.Binding
	FormDelete key.Binding
	Save       key.Binding
	Cancel     key.Binding
	Next       key.Binding
	Prev       key.Binding
	Submit     key.Binding
	Yes        key.Binding
	No         key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Delete:     key.NewBinding(key.WithKeys("d", "ctrl+d"), key.WithHelp("d", "delete")),
		FormDelete: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Yes:        key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		No:         key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep")),
	}
}

func (k keyMap) forList() []key.Binding {
	return []key.Binding{k.Open, k.New, k.Search, k.Reload, k.Delete, k.Next, k.Quit}
}

func (k keyMap) forForm() []key.Binding {
	return []key.Binding{k.Save, k.FormDelete, k.Next, k.Cancel}
}

func (k keyMap) forSearch() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}

func (k keyMap) forConfirm() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}
