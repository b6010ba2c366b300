// Package tui provides the terminal user interface for agentpane.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/agentpane/internal/pane"
	"github.com/Dicklesworthstone/agentpane/internal/permission"
)

// viewState represents the current view/mode of the TUI.
type viewState int

const (
	stateMain viewState = iota
	stateApprove
	stateHelp
	stateScroll
)

// paneEventMsg carries one asynchronous pane notification into the
// Bubble Tea loop.
type paneEventMsg pane.Event

// paneClosedMsg signals that the pane's event channel closed.
type paneClosedMsg struct{}

// chrome rows reserved around the terminal viewport: header, border
// top/bottom, input line, status bar.
const chromeRows = 5

// Model is the main Bubble Tea model for the agentpane TUI.
type Model struct {
	pane   *pane.Pane
	keys   keyMap
	styles Styles

	width  int
	height int
	state  viewState

	// Local input buffer for agent mode.
	input textinput.Model

	// Scrollback viewer.
	scroll viewport.Model

	// Write requests awaiting a decision, oldest first.
	queue []*permission.Request

	statusMsg string
	quitting  bool
}

// New creates the TUI model around an existing pane.
func New(p *pane.Pane) Model {
	input := textinput.New()
	input.Placeholder = "message for the agent (ctrl+t for terminal)"
	input.Prompt = "> "
	input.Focus()

	return Model{
		pane:   p,
		keys:   defaultKeyMap(),
		styles: DefaultStyles(),
		state:  stateMain,
		input:  input,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listenPane(m.pane), textinput.Blink)
}

// listenPane waits for the next pane event and feeds it into Update.
// Re-issued after each delivery so the channel is drained continuously.
func listenPane(p *pane.Pane) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-p.Events()
		if !ok {
			return paneClosedMsg{}
		}
		return paneEventMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		rows := msg.Height - chromeRows
		cols := msg.Width - 2
		if rows > 0 && cols > 0 {
			m.pane.Resize(rows, cols)
		}
		return m, nil

	case paneEventMsg:
		return m.handlePaneEvent(pane.Event(msg))

	case paneClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handlePaneEvent(ev pane.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case pane.EventWriteRequested:
		m.queue = append(m.queue, ev.Request)
		m.state = stateApprove
	case pane.EventSessionDied:
		m.statusMsg = fmt.Sprintf("session exited with code %d", ev.ExitCode)
	case pane.EventModeChanged:
		m.statusMsg = fmt.Sprintf("mode: %s", ev.Mode)
	}
	return m, listenPane(m.pane)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works everywhere; the binding is deliberately a chord the
	// shell is unlikely to want.
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case stateApprove:
		return m.handleApprovalKey(msg)
	case stateHelp:
		m.state = stateMain
		return m, nil
	case stateScroll:
		return m.handleScrollKey(msg)
	}

	if key.Matches(msg, m.keys.Toggle) {
		if err := m.pane.ToggleMode(); err != nil {
			m.statusMsg = fmt.Sprintf("spawn failed: %v", err)
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.ForceAgent) {
		m.pane.ForceAgent()
		return m, nil
	}

	if m.pane.Mode() == pane.ModeTerminal {
		if _, err := m.pane.RouteKey(msg.String()); err != nil && !errors.Is(err, pane.ErrUnknownKey) {
			m.statusMsg = fmt.Sprintf("key write failed: %v", err)
		}
		return m, nil
	}

	// Agent and agent-terminal mode: keys stay local.
	if key.Matches(msg, m.keys.Help) && m.input.Value() == "" {
		m.state = stateHelp
		return m, nil
	}
	if key.Matches(msg, m.keys.Scroll) {
		return m.enterScrollback()
	}
	if msg.Type == tea.KeyEnter {
		text := strings.TrimSpace(m.input.Value())
		if text != "" {
			m.statusMsg = fmt.Sprintf("sent to agent: %s", text)
			m.input.Reset()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// enterScrollback opens the history viewer over the scrolled-off lines
// plus the current screen.
func (m Model) enterScrollback() (tea.Model, tea.Cmd) {
	snap := m.pane.Snapshot()
	content := append(m.pane.Screen().Scrollback(), snap.Lines...)

	m.scroll = viewport.New(m.width-2, m.height-2)
	m.scroll.SetContent(strings.Join(content, "\n"))
	m.scroll.GotoBottom()
	m.state = stateScroll
	return m, nil
}

func (m Model) handleScrollKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) || msg.String() == "q" {
		m.state = stateMain
		return m, nil
	}
	var cmd tea.Cmd
	m.scroll, cmd = m.scroll.Update(msg)
	return m, cmd
}

func (m Model) handleApprovalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.queue) == 0 {
		m.state = stateMain
		return m, nil
	}
	req := m.queue[0]

	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.resolveFront(req, true)
	case key.Matches(msg, m.keys.Cancel):
		m.resolveFront(req, false)
	case key.Matches(msg, m.keys.ForceAgent):
		// Deny the visible request and drop the agent's terminal
		// access in one stroke.
		m.resolveFront(req, false)
		m.pane.ForceAgent()
	}
	return m, nil
}

func (m *Model) resolveFront(req *permission.Request, approve bool) {
	if err := m.pane.ResolveWrite(req.ID, approve); err != nil {
		m.statusMsg = fmt.Sprintf("resolve failed: %v", err)
	} else if approve {
		m.statusMsg = "write approved"
	} else {
		m.statusMsg = "write denied"
	}
	m.queue = m.queue[1:]
	if len(m.queue) == 0 {
		m.state = stateMain
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	switch m.state {
	case stateHelp:
		return m.helpView()
	case stateApprove:
		return m.approvalView()
	case stateScroll:
		return m.scrollView()
	}
	return m.mainView()
}

func (m Model) mainView() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.terminalView())
	b.WriteString("\n")
	if m.pane.Mode() != pane.ModeTerminal {
		b.WriteString(m.styles.Prompt.Render(m.input.View()))
	} else {
		b.WriteString(m.styles.StatusText.Render("keys go to the shell; ctrl+t returns"))
	}
	b.WriteString("\n")
	b.WriteString(m.statusView())
	return b.String()
}

func (m Model) headerView() string {
	title := m.styles.Header.Render("agentpane")

	var badge string
	switch m.pane.Mode() {
	case pane.ModeTerminal:
		badge = m.styles.ModeTerminal.Render("TERMINAL")
	case pane.ModeAgentTerminal:
		badge = m.styles.ModeShared.Render("AGENT+TERM")
	default:
		badge = m.styles.ModeAgent.Render("AGENT")
	}

	live := m.styles.StatusText.Render("no session")
	if m.pane.Alive() {
		live = m.styles.StatusText.Render("session live")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", badge, "  ", live)
}

// terminalView renders the virtual screen with the cursor cell reversed.
func (m Model) terminalView() string {
	snap := m.pane.Snapshot()
	lines := make([]string, len(snap.Lines))
	for i, line := range snap.Lines {
		if i == snap.CursorRow && m.pane.Mode() == pane.ModeTerminal {
			lines[i] = overlayCursor(line, snap.CursorCol, m.styles.Cursor)
		} else {
			lines[i] = line
		}
	}
	return m.styles.Terminal.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

func overlayCursor(line string, col int, style lipgloss.Style) string {
	runes := []rune(line)
	for len(runes) <= col {
		runes = append(runes, ' ')
	}
	return string(runes[:col]) + style.Render(string(runes[col])) + string(runes[col+1:])
}

func (m Model) statusView() string {
	hints := m.styles.StatusKey.Render("ctrl+t") + m.styles.StatusText.Render(" mode  ") +
		m.styles.StatusKey.Render("ctrl+g") + m.styles.StatusText.Render(" agent  ") +
		m.styles.StatusKey.Render("ctrl+q") + m.styles.StatusText.Render(" quit")

	status := m.statusMsg
	if n := len(m.queue); n > 0 {
		status = m.styles.StatusWarn.Render(fmt.Sprintf("%d write(s) pending", n))
	}
	gap := m.width - lipgloss.Width(hints) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	return m.styles.StatusBar.Width(m.width).Render(hints + strings.Repeat(" ", gap) + status)
}

func (m Model) approvalView() string {
	if len(m.queue) == 0 {
		return m.mainView()
	}
	req := m.queue[0]

	var b strings.Builder
	b.WriteString(m.styles.DialogTitle.Render("Agent write request"))
	b.WriteString("\n")
	if req.PasswordGated {
		b.WriteString(m.styles.DialogDanger.Render("password entry detected - review carefully"))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("%s\n", req.Description))
	b.WriteString(m.styles.StatusText.Render(fmt.Sprintf("%d bytes, trust: %s", len(req.Bytes), req.Trust)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.DialogButtonActive.Render("approve (y)"))
	b.WriteString("  ")
	b.WriteString(m.styles.DialogButton.Render("deny (n)"))

	dialog := m.styles.Dialog.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

func (m Model) scrollView() string {
	header := m.styles.Header.Render("scrollback") + "  " +
		m.styles.StatusText.Render("esc/q returns, arrows and pgup/pgdn move")
	return header + "\n" + m.scroll.View()
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("agentpane help"))
	b.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			b.WriteString(fmt.Sprintf("  %-12s %s\n", binding.Help().Key, binding.Help().Desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.styles.StatusText.Render("press any key to return"))
	return m.styles.Help.Render(b.String())
}
