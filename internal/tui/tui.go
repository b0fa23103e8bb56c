// Package tui is the interactive terminal front end of notas.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/notas/internal/session"
)

type focusArea int

const (
	focusList focusArea = iota
	focusTitle
	focusContent
	focusSearch
)

// changedMsg means the controller state moved since the last render.
type changedMsg struct{}

// syncMsg is sent when a background list operation returns.
type syncMsg struct{}

// resultMsg carries the outcome of a mutation run in the background.
type resultMsg struct{ res session.Result }

// Model is the Bubble Tea model. It only renders controller state and
// forwards input to it.
type Model struct {
	ctx     context.Context
	ctl     *session.Controller
	changes chan struct{}
	unsub   func()

	keys    keyMap
	help    help.Model
	list    list.Model
	title   textinput.Model
	content textarea.Model
	search  textinput.Model
	focus   focusArea

	st      session.State
	formRev int
	width   int
	height  int
}

// New builds the model and subscribes it to ctl. Call Close when done.
func New(ctx context.Context, ctl *session.Controller) Model {
	changes := make(chan struct{}, 1)
	unsub := ctl.Subscribe(func(session.State) {
		// coalesce: one pending wake-up is enough, the model reads State itself
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	l := list.New(nil, entryDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = helpStyle

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Title"
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursor.CursorStatic)

	ta := textarea.New()
	ta.Placeholder = "Content"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Cursor.SetMode(cursor.CursorStatic)

	si := textinput.New()
	si.Prompt = "/ "
	si.Placeholder = "search by title"
	si.CharLimit = 200
	si.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		ctx:     ctx,
		ctl:     ctl,
		changes: changes,
		unsub:   unsub,
		keys:    defaultKeys(),
		help:    help.New(),
		list:    l,
		title:   ti,
		content: ta,
		search:  si,
		formRev: -1,
		width:   100,
		height:  30,
	}
	m.layout()
	m.sync(ctl.State())
	return m
}

// Close detaches the model from the controller.
func (m Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// Run starts the program on the alternate screen and loads the notes.
func Run(ctx context.Context, ctl *session.Controller) error {
	m := New(ctx, ctl)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Update and View implement Bubble Tea's Model on Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.changes), m.loadAll())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case changedMsg:
		m.sync(m.ctl.State())
		return m, waitForChange(m.changes)

	case syncMsg:
		m.sync(m.ctl.State())
		return m, nil

	case resultMsg:
		if msg.res.Outcome == session.OutcomeDone && m.focus != focusList && !m.ctl.State().HasSelection() {
			m.setFocus(focusList)
		}
		m.sync(m.ctl.State())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.st.PendingDelete {
		switch {
		case key.Matches(msg, m.keys.Yes):
			return m, m.confirmDelete(true)
		case key.Matches(msg, m.keys.No):
			return m, m.confirmDelete(false)
		}
		return m, nil
	}

	// any key dismisses the last notice
	if m.st.Notice != nil {
		m.ctl.DismissNotice()
		m.st.Notice = nil
	}

	switch m.focus {
	case focusSearch:
		return m.searchKey(msg)
	case focusTitle, focusContent:
		return m.formKey(msg)
	default:
		return m.listKey(msg)
	}
}

func (m Model) listKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Open):
		if it, ok := m.list.SelectedItem().(entryItem); ok {
			m.ctl.Select(it.ID)
			m.sync(m.ctl.State())
		}
		return m, nil
	case key.Matches(msg, m.keys.New):
		m.ctl.StartNew()
		m.sync(m.ctl.State())
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.setFocus(focusSearch)
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.search.SetValue("")
		return m, m.loadAll()
	case key.Matches(msg, m.keys.Delete):
		m.ctl.Delete(m.ctx)
		m.sync(m.ctl.State())
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.ctl.CancelEdit()
		m.sync(m.ctl.State())
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.setFocus(focusTitle)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.setFocus(focusContent)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) formKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	case key.Matches(msg, m.keys.FormDelete):
		m.ctl.Delete(m.ctx)
		m.sync(m.ctl.State())
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.ctl.CancelEdit()
		m.sync(m.ctl.State())
		m.setFocus(focusList)
		return m, nil
	case key.Matches(msg, m.keys.Next):
		if m.focus == focusTitle {
			m.setFocus(focusContent)
		} else {
			m.setFocus(focusList)
		}
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		if m.focus == focusContent {
			m.setFocus(focusTitle)
		} else {
			m.setFocus(focusList)
		}
		return m, nil
	}
	return m.forward(msg)
}

func (m Model) searchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		term := m.search.Value()
		m.setFocus(focusList)
		return m, m.runSearch(term)
	case key.Matches(msg, m.keys.Cancel):
		m.search.SetValue("")
		m.setFocus(focusList)
		return m, nil
	}
	return m.forward(msg)
}

// forward hands msg to whichever widget has focus.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
	case focusContent:
		m.content, cmd = m.content.Update(msg)
	case focusSearch:
		m.search, cmd = m.search.Update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f focusArea) {
	m.title.Blur()
	m.content.Blur()
	m.search.Blur()
	switch f {
	case focusTitle:
		m.title.Focus()
	case focusContent:
		m.content.Focus()
	case focusSearch:
		m.search.Focus()
	}
	m.focus = f
}

// sync copies controller state into the widgets. Inputs are overwritten
// only when the controller refilled the form.
func (m *Model) sync(st session.State) {
	m.st = st

	items := make([]list.Item, 0, len(st.List.Entries))
	for _, e := range st.List.Entries {
		items = append(items, entryItem(e))
	}
	m.list.SetItems(items)

	if st.Form.Rev == m.formRev {
		return
	}
	m.formRev = st.Form.Rev
	m.title.SetValue(st.Form.Title)
	m.content.SetValue(st.Form.Content)
	if st.Form.FocusTitle {
		m.setFocus(focusTitle)
	}
	for i, e := range st.List.Entries {
		if e.Selected {
			m.list.Select(i)
			break
		}
	}
}

func (m *Model) layout() {
	listW := max(m.width*2/5, 24)
	formW := max(m.width-listW-4, 24)
	bodyH := max(m.height-8, 6)

	m.list.SetSize(listW-4, bodyH-2)
	m.search.Width = listW - 8
	m.title.Width = formW - 6
	m.content.SetWidth(formW - 4)
	m.content.SetHeight(max(bodyH-6, 3))
	m.help.Width = m.width
}

// ------- commands -------

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func (m Model) loadAll() tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		ctl.LoadAll(ctx)
		return syncMsg{}
	}
}

func (m Model) runSearch(term string) tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		ctl.Search(ctx, term)
		return syncMsg{}
	}
}

func (m Model) save() tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	title, content := m.title.Value(), m.content.Value()
	return func() tea.Msg {
		return resultMsg{res: ctl.Save(ctx, title, content)}
	}
}

func (m Model) confirmDelete(accepted bool) tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		return resultMsg{res: ctl.ConfirmDelete(ctx, accepted)}
	}
}

// ------- view -------

func (m Model) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.listView(), m.formView())
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusView(), m.helpView())
}

func (m Model) listView() string {
	v := m.st.List
	header := titleStyle.Render("Notes")
	switch {
	case v.Query != "":
		header += "  " + mutedStyle.Render(fmt.Sprintf("search %q", v.Query))
	case v.Status == session.ListReady:
		header += "  " + accentStyle.Render(fmt.Sprintf("Total %d", len(v.Entries)))
	}

	var content string
	switch {
	case v.Status == session.ListError:
		content = errorStyle.Render(v.Message)
	case v.Status.Placeholder():
		content = mutedStyle.Render(v.Message)
	default:
		content = m.list.View()
	}

	style := panelStyle
	if m.focus == focusList || m.focus == focusSearch {
		style = activePanelStyle
	}
	w := m.list.Width() + 2
	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, header, m.search.View(), "", content))
}

func (m Model) formView() string {
	heading := "New note"
	if m.st.HasSelection() {
		heading = "Edit note"
	}

	lines := []string{
		titleStyle.Render(heading),
		"",
		mutedStyle.Render("Title"),
		m.title.View(),
		"",
		mutedStyle.Render("Content"),
		m.content.View(),
	}
	if meta := m.st.Form.Meta; meta != nil {
		modified := meta.Modified
		if modified == "" {
			modified = "—"
		}
		lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("ID: %s  Created: %s  Modified: %s", meta.ID, meta.Created, modified)))
	}

	style := panelStyle
	if m.focus == focusTitle || m.focus == focusContent {
		style = activePanelStyle
	}
	return style.Width(m.content.Width() + 2).Render(strings.Join(lines, "\n"))
}

func (m Model) statusView() string {
	if m.st.PendingDelete {
		return warnStyle.Render(session.MsgConfirmDelete + " [y/N]")
	}
	n := m.st.Notice
	if n == nil {
		return ""
	}
	switch n.Kind {
	case session.NoticeSuccess:
		return successStyle.Render("✔ " + n.Text)
	case session.NoticeWarning:
		return warnStyle.Render("! " + n.Text)
	default:
		return errorStyle.Render("✖ " + n.Text)
	}
}

func (m Model) helpView() string {
	var b []key.Binding
	switch {
	case m.st.PendingDelete:
		b = m.keys.forConfirm()
	case m.focus == focusSearch:
		b = m.keys.forSearch()
	case m.focus == focusTitle || m.focus == focusContent:
		b = m.keys.forForm()
	default:
		b = m.keys.forList()
	}
	return helpStyle.Render(m.help.ShortHelpView(b))
}
