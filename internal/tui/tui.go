// Package tui is an interactive todo list on Bubble Tea. It only reads
// state through Store.GetState and only changes it through Store.Dispatch.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/actions"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/selector"
	"github.com/Makepad-fr/tada/internal/store"
)

// Config wires the TUI to a store.
type Config struct {
	Store   *store.Store
	Creator *actions.Creator

	// AfterDispatch persists each action before the store takes it. A
	// failure is shown and the action is dropped.
	AfterDispatch func(ctx context.Context, a model.Action, state model.AppState) error
}

// listItem adapts a todo to bubbles/list.Item
type listItem struct {
	todo model.Todo
}

func (i listItem) FilterValue() string { return i.todo.Text }

// stateChangedMsg is sent when the store changed outside Update.
type stateChangedMsg struct{}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Text
	if it.todo.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

var (
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	filterBind = key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1/2/3", "all/active/completed"))
)

// Model implements tea.Model.
type Model struct {
	store   *store.Store
	creator *actions.Creator
	after   func(context.Context, model.Action, model.AppState) error

	list list.Model

	// Inline add
	adding bool
	ti     textinput.Model

	status string
	errMsg string
}

// New builds the model and loads the current state.
func New(cfg Config) Model {
	l := list.New(nil, itemDelegate{}, 78, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("todo", "todos")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, toggleBind, filterBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, toggleBind, filterBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New todo..."
	ti.CharLimit = 200

	m := Model{
		store:   cfg.Store,
		creator: cfg.Creator,
		after:   cfg.AfterDispatch,
		list:    l,
		ti:      ti,
	}
	m.sync()
	return m
}

// Run starts the program on the terminal and returns when the user quits.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	// Send from a goroutine: the listener may fire inside Update, where a
	// blocking Send would deadlock the event loop.
	unsubscribe := cfg.Store.Subscribe(func(model.AppState) {
		go p.Send(stateChangedMsg{})
	})
	defer unsubscribe()
	_, err := p.Run()
	return err
}

// sync rebuilds the list from the store.
func (m *Model) sync() tea.Cmd {
	st := m.store.GetState()
	visible, err := selector.Visible(st)
	if err != nil {
		m.errMsg = err.Error()
	}
	items := make([]list.Item, 0, len(visible))
	for _, td := range visible {
		items = append(items, listItem{todo: td})
	}
	m.list.Title = header(st)
	return m.list.SetItems(items)
}

func header(st model.AppState) string {
	done, active := selector.Counts(st.Todos)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d   %s",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), active,
		accentStyle.Render("Total"), len(st.Todos),
		mutedStyle.Render(st.VisibilityFilter.Label()),
	)
}

func (m *Model) dispatch(a model.Action) tea.Cmd {
	m.errMsg = ""
	err := m.store.Commit(a, func(next model.AppState) error {
		if m.after == nil {
			return nil
		}
		return m.after(context.Background(), a, next)
	})
	if err != nil {
		m.errMsg = "save: " + err.Error()
	}
	return m.sync()
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 4
		if m.adding {
			h -= 3
		}
		m.list.SetSize(msg.Width-4, h)
		return m, nil
	case stateChangedMsg:
		return m, m.sync()
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			it, ok := m.list.SelectedItem().(listItem)
			if !ok {
				return m, nil
			}
			cmd := m.dispatch(m.creator.ToggleTodo(it.todo.ID))
			m.status = fmt.Sprintf("toggled %d", it.todo.ID)
			return m, cmd
		case "a":
			m.adding = true
			m.ti.SetValue("")
			m.ti.Focus()
			return m, textinput.Blink
		case "1", "2", "3":
			f := model.Filters[msg.String()[0]-'1']
			cmd := m.dispatch(m.creator.SetVisibilityFilter(f))
			m.status = "showing " + strings.ToLower(f.Label())
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			text, err := actions.CleanText(m.ti.Value())
			if err != nil {
				m.errMsg = "Text cannot be empty"
				return m, nil
			}
			a := m.creator.AddTodo(text)
			cmd := m.dispatch(a)
			m.status = fmt.Sprintf("added %d", a.ID)
			m.adding = false
			m.ti.SetValue("")
			m.ti.Blur()
			return m, cmd
		case "esc":
			m.adding = false
			m.errMsg = ""
			m.ti.SetValue("")
			m.ti.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	content := m.list.View()
	if m.adding {
		title := "Add todo"
		if m.errMsg != "" {
			title += " — " + errorStyle.Render(m.errMsg)
		}
		content += "\n" + frameStyle.Render(title+"\n"+m.ti.View())
	} else if m.errMsg != "" {
		content += "\n" + errorStyle.Render(m.errMsg)
	} else if m.status != "" {
		content += "\n" + mutedStyle.Render(m.status)
	}
	return frameStyle.Render(content)
}
