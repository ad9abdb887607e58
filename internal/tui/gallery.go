package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/prim/internal/session"
	"github.com/papapumpkin/prim/internal/watch"
)

// Library is the subset of a session the gallery drives.
type Library interface {
	Current() string
	Primitives(ctx context.Context) ([]session.Card, error)
	Instance(ctx context.Context, name string) ([]string, error)
	Delete(ctx context.Context, name string) (bool, error)
}

// Model is the gallery: a list of primitive cards for the active library.
// Library calls run one at a time; a watcher change that arrives while one
// is in flight is folded into a refresh when it completes.
type Model struct {
	Keys   KeyMap
	Cards  []session.Card
	Cursor int
	Width  int
	Height int

	Status    string
	StatusErr bool

	// Confirming holds the name awaiting a y/n delete confirmation.
	Confirming string

	lib     Library
	ctx     context.Context
	changes <-chan watch.Change
	busy    bool
	stale   bool
}

// NewModel returns a gallery over lib. changes may be nil.
func NewModel(ctx context.Context, lib Library, changes <-chan watch.Change) Model {
	return Model{
		Keys:    DefaultKeyMap(),
		lib:     lib,
		ctx:     ctx,
		changes: changes,
		busy:    true,
	}
}

// Init loads the cards and starts listening for changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange())
}

// Update handles key presses, window resizes and library results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case MsgCards:
		m.busy = false
		if msg.Err != nil {
			m.setError(msg.Err)
		} else {
			m.Cards = msg.Cards
			m.clampCursor()
		}
		return m.afterOp()

	case MsgInstanced:
		m.busy = false
		if msg.Err != nil {
			m.setError(msg.Err)
		} else {
			m.setStatus(fmt.Sprintf("instanced %s as %s", msg.Name, strings.Join(msg.Entities, ", ")))
		}
		return m.afterOp()

	case MsgDeleted:
		m.busy = false
		switch {
		case msg.Err != nil:
			m.setError(msg.Err)
		case !msg.Removed:
			m.setStatus("no primitive named " + msg.Name)
		default:
			m.setStatus("deleted " + msg.Name)
		}
		m.stale = true
		return m.afterOp()

	case MsgChange:
		m.stale = true
		var cmd tea.Cmd
		if !m.busy {
			m.stale = false
			m.busy = true
			cmd = m.load()
		}
		return m, tea.Batch(cmd, m.waitForChange())
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.Keys.Quit) {
		return m, tea.Quit
	}

	if m.Confirming != "" {
		switch {
		case key.Matches(msg, m.Keys.Confirm):
			name := m.Confirming
			m.Confirming = ""
			m.Keys = DefaultKeyMap()
			m.busy = true
			return m, m.delete(name)
		case key.Matches(msg, m.Keys.Cancel):
			m.Confirming = ""
			m.Keys = DefaultKeyMap()
			m.setStatus("delete cancelled")
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.Cards)-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.Keys.Refresh):
		if !m.busy {
			m.busy = true
			return m, m.load()
		}
		m.stale = true
	case key.Matches(msg, m.Keys.Instance):
		if card, ok := m.selected(); ok && !m.busy {
			m.busy = true
			return m, m.instance(card.Name)
		}
	case key.Matches(msg, m.Keys.Delete):
		if card, ok := m.selected(); ok && !m.busy {
			m.Confirming = card.Name
			m.Keys = ConfirmKeyMap()
		}
	}
	return m, nil
}

// afterOp issues a deferred refresh if one was requested while busy.
func (m Model) afterOp() (tea.Model, tea.Cmd) {
	if m.stale && !m.busy {
		m.stale = false
		m.busy = true
		return m, m.load()
	}
	return m, nil
}

func (m Model) selected() (session.Card, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Cards) {
		return session.Card{}, false
	}
	return m.Cards[m.Cursor], true
}

func (m *Model) clampCursor() {
	if m.Cursor >= len(m.Cards) {
		m.Cursor = len(m.Cards) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) setStatus(s string) {
	m.Status, m.StatusErr = s, false
}

func (m *Model) setError(err error) {
	m.Status, m.StatusErr = err.Error(), true
}

func (m Model) load() tea.Cmd {
	lib, ctx := m.lib, m.ctx
	return func() tea.Msg {
		cards, err := lib.Primitives(ctx)
		return MsgCards{Cards: cards, Err: err}
	}
}

func (m Model) instance(name string) tea.Cmd {
	lib, ctx := m.lib, m.ctx
	return func() tea.Msg {
		entities, err := lib.Instance(ctx, name)
		return MsgInstanced{Name: name, Entities: entities, Err: err}
	}
}

func (m Model) delete(name string) tea.Cmd {
	lib, ctx := m.lib, m.ctx
	return func() tea.Msg {
		removed, err := lib.Delete(ctx, name)
		return MsgDeleted{Name: name, Removed: removed, Err: err}
	}
}

// waitForChange blocks on the watcher channel. A closed or nil channel
// ends the subscription.
func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return MsgChange{Change: c}
	}
}

// View renders the header, card rows, the selected card's detail, the
// status line and the footer.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if len(m.Cards) == 0 {
		b.WriteString("  " + styleRowDetail.Render("No primitives in this library") + "\n")
	}
	for i, c := range m.Cards {
		b.WriteString(m.renderRow(i, c))
		b.WriteString("\n")
	}

	if card, ok := m.selected(); ok {
		b.WriteString(m.renderDetail(card))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(Footer{Width: m.Width, Bindings: footerBindings(m.Keys, m.Confirming != "")}.View())
	return b.String()
}

func (m Model) renderHeader() string {
	lib := m.lib.Current()
	if lib == "" {
		lib = "(no library open)"
	} else {
		lib = filepath.Base(lib)
	}
	count := fmt.Sprintf("%d primitives", len(m.Cards))
	if len(m.Cards) == 1 {
		count = "1 primitive"
	}
	line := styleHeaderLabel.Render("prim") + "  " + lib + "  " + count
	if m.Width > 0 {
		return styleHeader.Width(m.Width).Render(line)
	}
	return styleHeader.Render(line)
}

func (m Model) renderRow(i int, c session.Card) string {
	selected := i == m.Cursor

	indicator := "  "
	if selected {
		indicator = styleSelectionIndicator.Render(selectionIndicator) + " "
	}

	nameWidth := 24
	if m.Width > 0 && m.Width < CompactWidth {
		nameWidth = max(m.Width/3, 8)
	}
	name := fmt.Sprintf("%-*s", nameWidth, TruncateWithEllipsis(c.Name, nameWidth))
	if selected {
		name = styleRowSelected.Render(name)
	} else {
		name = styleRowNormal.Render(name)
	}

	detail := fmt.Sprintf("%d lines", c.Lines)
	if c.Lines == 1 {
		detail = "1 line"
	}
	if c.Mesh == "" {
		detail += "  no mesh"
	}
	return indicator + name + "  " + styleRowDetail.Render(detail)
}

func (m Model) renderDetail(c session.Card) string {
	mesh := c.Mesh
	if mesh == "" {
		mesh = "(not materialized)"
	}
	thumb := c.Thumbnail
	if thumb == "" {
		thumb = "(none)"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		styleHeaderLabel.Render(c.Name),
		styleRowDetail.Render("mesh       ")+mesh,
		styleRowDetail.Render("thumbnail  ")+thumb,
	)
	return styleDetailBorder.Render(body)
}

func (m Model) renderStatus() string {
	switch {
	case m.Confirming != "":
		return styleConfirm.Render(fmt.Sprintf("delete %s? (y/n)", m.Confirming))
	case m.StatusErr:
		return styleStatusErr.Render("✗ " + m.Status)
	case m.Status != "":
		return styleStatusOK.Render("✓ " + m.Status)
	}
	return ""
}
