package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"legalaid/internal/chat"
	"legalaid/internal/i18n"
)

// changedMsg tells Update the conversation has moved on.
type changedMsg struct{}

// Model is the full-screen conversation view. It only reads snapshots and
// forwards user actions; the chat.Machine owns all conversation state.
type Model struct {
	machine *chat.Machine
	updates <-chan struct{}
	snap    chat.Snapshot

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   styles

	width  int
	height int
}

// NewModel returns a Model driving machine. updates must receive a value
// whenever the machine publishes a change; a 1-slot buffered channel with a
// non-blocking send is enough.
func NewModel(machine *chat.Machine, updates <-chan struct{}) Model {
	snap := machine.Snapshot()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = i18n.For(snap.Language).InputPlaceholder
	ti.CharLimit = 8000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		machine:  machine,
		updates:  updates,
		snap:     snap,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		styles:   defaultStyles(),
		width:    80,
		height:   24,
	}
	m.refresh()
	return m
}

func waitForChange(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForChange(m.updates))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case changedMsg:
		m.refresh()
		return m, waitForChange(m.updates)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.snap.IsLoading {
			m.refresh()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		if m.machine.Submit(m.input.Value()) {
			m.input.Reset()
		}
		m.refresh()
		return m, nil

	case "f1", "f2", "f3", "f4":
		m.machine.SubmitQuickAction(int(msg.String()[1] - '1'))
		m.refresh()
		return m, nil

	case "ctrl+r":
		m.machine.ToggleCrisisPanel()
		m.refresh()
		return m, nil

	case "ctrl+l":
		next := m.snap.Language.Next()
		m.machine.SetLanguage(next)
		m.input.Placeholder = i18n.For(next).InputPlaceholder
		m.refresh()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh pulls the latest snapshot and re-lays out the view.
func (m *Model) refresh() {
	m.snap = m.machine.Snapshot()
	m.input.Width = max(m.width-4, 10)

	reserved := lipgloss.Height(m.headerView()) + lipgloss.Height(m.footerView())
	if m.snap.CrisisPanelOpen {
		reserved += lipgloss.Height(renderCrisisPanel(m.snap.Language, m.styles, m.width))
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-reserved, 1)

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(renderMessages(m.snap, m.styles, m.width, m.spinner.View()))
	if atBottom || m.snap.IsLoading {
		m.viewport.GotoBottom()
	}
}

func (m Model) headerView() string {
	title := m.styles.header.Render("Legal Aid Assistant")
	lang := m.styles.hint.Render(fmt.Sprintf("  %s", m.snap.Language.NativeName()))
	keys := m.styles.hint.Render("enter send · ctrl+l language · ctrl+r crisis help · esc quit")
	return title + lang + "\n" + keys
}

func (m Model) footerView() string {
	out := m.styles.disclaimer.Width(max(m.width, 10)).Render(i18n.For(m.snap.Language).Disclaimer)
	if m.snap.LastError != "" {
		out += "\n" + m.styles.errorText.Render(m.snap.LastError)
	}
	return out + "\n" + m.input.View()
}

func (m Model) View() string {
	parts := []string{m.headerView(), m.viewport.View()}
	if m.snap.CrisisPanelOpen {
		parts = append(parts, renderCrisisPanel(m.snap.Language, m.styles, m.width))
	}
	parts = append(parts, m.footerView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
