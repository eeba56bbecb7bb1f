package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/agentdeck/agentdeck/internal/client"
	"github.com/agentdeck/agentdeck/internal/payload"
	"github.com/agentdeck/agentdeck/internal/session"
)

// stateChangedMsg signals that the client snapshot is stale.
type stateChangedMsg struct{}

// chatConfig carries resolved startup preferences into the UI.
type chatConfig struct {
	// Model is the preferred model id, requested once a session exists.
	Model string
	// Mode is the preferred session mode id.
	Mode string
	// ResumeTarget is a session id to resume after the handshake.
	ResumeTarget string
	// Store provides session recency for the /sessions command.
	Store *session.Store
}

// chatModel drives the interactive terminal UI.
type chatModel struct {
	// deck is the protocol client behind the UI.
	deck *client.Client
	// cfg holds startup preferences.
	cfg chatConfig
	// snapshot is the latest client state copy being rendered.
	snapshot client.Snapshot
	// chatView renders the conversation log.
	chatView viewport.Model
	// input collects user input for new prompts.
	input textarea.Model
	// markdownRenderer formats assistant output when available.
	markdownRenderer *glamour.TermRenderer
	// statusText is the bottom status line.
	statusText string
	// inputHistory stores prior user inputs for recall.
	inputHistory []string
	// historyIndex tracks the active position in inputHistory.
	historyIndex int
	// historyDraft preserves the in-progress input when browsing history.
	historyDraft string
	// chatAutoScroll keeps the viewport pinned to the bottom.
	chatAutoScroll bool
	// resumeFired guards the one-time startup resume.
	resumeFired bool
	// prefsSent guards the one-time model/mode requests.
	prefsSent bool
	// width tracks the terminal width.
	width int
	// height tracks the terminal height.
	height int
	// quitting indicates a user-requested exit.
	quitting bool
}

// runChatTUI starts the full-screen terminal UI.
func runChatTUI(deck *client.Client, cfg chatConfig) error {
	if !term.IsTerminal(int(0)) || !term.IsTerminal(int(1)) {
		return errors.New("agentdeck requires a TTY")
	}
	modelState := newChatModel(deck, cfg)
	program := tea.NewProgram(modelState, tea.WithAltScreen())
	deck.SetNotify(func() {
		program.Send(stateChangedMsg{})
	})
	go deck.Connect()
	_, err := program.Run()
	deck.Disconnect()
	return err
}

// newChatModel constructs the initial UI state.
func newChatModel(deck *client.Client, cfg chatConfig) *chatModel {
	input := textarea.New()
	input.Placeholder = "Type a message, or /help..."
	input.Focus()
	input.CharLimit = 0
	input.Prompt = "> "
	input.SetHeight(3)
	input.SetWidth(20)

	var renderer *glamour.TermRenderer
	if glam, err := glamour.NewTermRenderer(glamour.WithAutoStyle()); err == nil {
		renderer = glam
	}

	return &chatModel{
		deck:             deck,
		cfg:              cfg,
		snapshot:         deck.Snapshot(),
		chatView:         viewport.New(20, 10),
		input:            input,
		markdownRenderer: renderer,
		statusText:       "Enter: send | Alt+Enter: newline | Ctrl+P/N: history | Ctrl+C: interrupt | Ctrl+Q: quit",
		chatAutoScroll:   true,
	}
}

// Init starts the blinking cursor for the input field.
func (m *chatModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles UI events and snapshot refreshes.
func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.applyWindowSize(typed)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case stateChangedMsg:
		m.refreshSnapshot()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the full UI layout.
func (m *chatModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Initializing..."
	}
	header := m.renderHeader()
	chat := m.renderChatPane()
	input := m.renderInput()
	status := m.renderStatus()
	return lipgloss.JoinVertical(lipgloss.Left, header, chat, input, status)
}

// refreshSnapshot pulls a fresh state copy and runs startup sequencing.
func (m *chatModel) refreshSnapshot() {
	m.snapshot = m.deck.Snapshot()

	// Resume waits for the handshake so the agent sees a valid session call.
	if !m.resumeFired && m.cfg.ResumeTarget != "" && m.snapshot.Initialized {
		m.resumeFired = true
		m.deck.ResumeSession(m.cfg.ResumeTarget, true)
		return
	}
	if !m.prefsSent && m.snapshot.SessionID != "" {
		m.prefsSent = true
		if m.cfg.Mode != "" {
			m.deck.SetMode(m.cfg.Mode)
		}
		if m.cfg.Model != "" {
			m.deck.SetModel(m.cfg.Model)
		}
	}

	m.refreshChat()
}

// pendingPermission returns the newest unresolved permission entry, or nil.
func (m *chatModel) pendingPermission() *client.ChatEntry {
	for index := len(m.snapshot.Entries) - 1; index >= 0; index-- {
		entry := m.snapshot.Entries[index]
		if entry.Permission != nil && !entry.Permission.Resolved {
			return &m.snapshot.Entries[index]
		}
	}
	return nil
}

// rejectOption finds the option that declines the request, when the agent
// offers one.
func rejectOption(options []client.PermissionOption) (client.PermissionOption, bool) {
	for _, option := range options {
		kind := strings.ToLower(option.Kind)
		if strings.Contains(kind, "reject") || strings.Contains(kind, "deny") || strings.Contains(kind, "cancel") {
			return option, true
		}
	}
	return client.PermissionOption{}, false
}

// handleKey routes keyboard input.
func (m *chatModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if pending := m.pendingPermission(); pending != nil && !pending.Permission.IsQuestion {
		pressed := key.String()
		if len(pressed) == 1 && pressed[0] >= '1' && pressed[0] <= '9' {
			index := int(pressed[0] - '1')
			if index < len(pending.Permission.Options) {
				m.deck.RespondToPermission(pending.ID, pending.Permission.Options[index].OptionID)
				m.statusText = "Answered."
				return m, nil
			}
		}
		if pressed == "y" && len(pending.Permission.Options) > 0 {
			m.deck.RespondToPermission(pending.ID, pending.Permission.Options[0].OptionID)
			m.statusText = "Answered."
			return m, nil
		}
		if pressed == "n" {
			if option, ok := rejectOption(pending.Permission.Options); ok {
				m.deck.RespondToPermission(pending.ID, option.OptionID)
			} else {
				m.deck.CancelPendingPermissions()
			}
			m.statusText = "Declined."
			return m, nil
		}
		if pressed == "esc" {
			m.deck.CancelPendingPermissions()
			m.statusText = "Declined."
			return m, nil
		}
	}

	switch key.String() {
	case "ctrl+c":
		if m.snapshot.AgentState != client.AgentIdle {
			m.deck.Interrupt()
			m.statusText = "Interrupting..."
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "ctrl+q":
		m.quitting = true
		return m, tea.Quit
	case "pgup":
		m.chatAutoScroll = false
		m.chatView.LineUp(10)
		return m, nil
	case "pgdown":
		m.chatView.LineDown(10)
		return m, nil
	case "home":
		m.chatAutoScroll = false
		m.chatView.GotoTop()
		return m, nil
	case "end":
		m.chatAutoScroll = true
		m.chatView.GotoBottom()
		return m, nil
	case "ctrl+p":
		m.cycleInputHistory(-1)
		return m, nil
	case "ctrl+n":
		m.cycleInputHistory(1)
		return m, nil
	}

	if key.Type == tea.KeyEnter {
		if key.Alt {
			m.input.InsertString("\n")
			return m, nil
		}
		return m.submitInput()
	}

	if key.String() == "ctrl+j" {
		m.input.InsertString("\n")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// submitInput sends the current input as a prompt, slash command, or
// question answer.
func (m *chatModel) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return m, nil
	}
	m.input.SetValue("")
	m.appendInputHistory(value)

	if pending := m.pendingPermission(); pending != nil && pending.Permission.IsQuestion {
		m.deck.RespondToQuestion(pending.ID, questionAnswers(pending.Permission.Questions, value))
		m.statusText = "Answered."
		return m, nil
	}

	if handled, status := m.handleSlashCommand(value); handled {
		if status != "" {
			m.statusText = status
		}
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil
	}

	m.statusText = ""
	m.deck.SendPrompt(value)
	return m, nil
}

// questionAnswers maps the typed answer onto the first outstanding
// question so the echo payload lines up with what was asked.
func questionAnswers(questions []any, answer string) map[string]any {
	answers := map[string]any{}
	for _, raw := range questions {
		question, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		header, ok := question["header"].(string)
		if !ok || header == "" {
			continue
		}
		answers[header] = answer
		break
	}
	if len(answers) == 0 {
		answers["answer"] = answer
	}
	return answers
}

// appendInputHistory records an input line for history navigation.
func (m *chatModel) appendInputHistory(value string) {
	m.inputHistory = append(m.inputHistory, value)
	if len(m.inputHistory) > 200 {
		m.inputHistory = m.inputHistory[len(m.inputHistory)-200:]
	}
	m.historyIndex = len(m.inputHistory)
	m.historyDraft = ""
}

// cycleInputHistory moves the input buffer through stored history entries.
func (m *chatModel) cycleInputHistory(delta int) {
	if len(m.inputHistory) == 0 {
		return
	}
	if m.historyIndex == len(m.inputHistory) {
		m.historyDraft = m.input.Value()
	}
	next := m.historyIndex + delta
	if next < 0 {
		next = 0
	}
	if next > len(m.inputHistory) {
		next = len(m.inputHistory)
	}
	m.historyIndex = next
	if m.historyIndex == len(m.inputHistory) {
		m.input.SetValue(m.historyDraft)
		return
	}
	m.input.SetValue(m.inputHistory[m.historyIndex])
}

// refreshChat rebuilds the chat viewport from the snapshot.
func (m *chatModel) refreshChat() {
	var builder strings.Builder
	for _, entry := range m.snapshot.Entries {
		builder.WriteString(m.renderEntry(entry))
		builder.WriteString("\n\n")
	}
	m.chatView.SetContent(builder.String())
	if m.chatAutoScroll {
		m.chatView.GotoBottom()
	}
}

// applyWindowSize recalculates the layout for a new window size.
func (m *chatModel) applyWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 1
	statusHeight := 1
	inputHeight := m.input.Height() + 2
	chatHeight := m.height - headerHeight - statusHeight - inputHeight - 2
	if chatHeight < 4 {
		chatHeight = 4
	}

	m.chatView.Width = m.width - 4
	m.chatView.Height = chatHeight
	m.input.SetWidth(m.width - 4)

	m.refreshChat()
}

// renderHeader builds the top status line.
func (m *chatModel) renderHeader() string {
	style := lipgloss.NewStyle().Bold(true)
	sessionLabel := m.snapshot.SessionID
	if sessionLabel == "" {
		sessionLabel = "-"
	}
	header := fmt.Sprintf("AgentDeck | %s | session %s", m.snapshot.Status, sessionLabel)
	if m.snapshot.AgentName != "" {
		header = fmt.Sprintf("%s | agent %s", header, m.snapshot.AgentName)
	}
	if label := selectionLabel(m.snapshot.ModelState); label != "" {
		header = fmt.Sprintf("%s | model %s", header, label)
	}
	if label := selectionLabel(m.snapshot.ModeState); label != "" {
		header = fmt.Sprintf("%s | mode %s", header, label)
	}
	return style.Render(padRight(header, m.width))
}

// renderChatPane wraps the conversation viewport in a border.
func (m *chatModel) renderChatPane() string {
	style := lipgloss.NewStyle().Border(asciiBorder()).Padding(0, 1)
	return style.Render(m.chatView.View())
}

// renderInput returns the input box rendering.
func (m *chatModel) renderInput() string {
	style := lipgloss.NewStyle().Border(asciiBorder()).Padding(0, 1)
	return style.Render(m.input.View())
}

// renderStatus returns the bottom status line.
func (m *chatModel) renderStatus() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	text := m.statusText
	if text == "" {
		text = "Ready"
	}
	parts := []string{text, fmt.Sprintf("agent:%s", m.snapshot.AgentState)}
	if usage := totalUsageLine(m.snapshot.Rounds); usage != "" {
		parts = append(parts, usage)
	}
	return style.Render(padRight(strings.Join(parts, " | "), m.width))
}

// renderEntry formats one chat entry for display.
func (m *chatModel) renderEntry(entry client.ChatEntry) string {
	switch entry.Role {
	case client.RoleUser:
		label := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).Render("YOU:")
		body := entry.Content
		if round, ok := m.snapshot.Rounds[entry.ID]; ok {
			if line := formatRound(round); line != "" {
				body = fmt.Sprintf("%s\n%s", body, lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(line))
			}
		}
		return fmt.Sprintf("%s\n%s", label, body)
	case client.RoleAssistant:
		label := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true).Render("AGENT:")
		return fmt.Sprintf("%s\n%s", label, m.renderMarkdown(entry.Content))
	case client.RoleThought:
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
		return style.Render("(thinking) " + entry.Content)
	case client.RoleSystem:
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		return style.Render("* " + entry.Content)
	case client.RoleToolCallGroup:
		return renderToolTree(entry.ToolCalls, 0)
	case client.RolePermissionRequest:
		return renderPermission(entry.Permission)
	}
	return entry.Content
}

// renderMarkdown converts markdown into terminal output when possible.
func (m *chatModel) renderMarkdown(content string) string {
	if m.markdownRenderer == nil {
		return content
	}
	rendered, err := m.markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// selectionLabel names the active option of a selection catalog.
func selectionLabel(state *payload.SelectionState) string {
	if state == nil {
		return ""
	}
	for _, option := range state.Options {
		if option.ID == state.CurrentID {
			if option.Name != "" {
				return option.Name
			}
			return option.ID
		}
	}
	return state.CurrentID
}

// asciiBorder defines a simple ASCII border to avoid Unicode dependencies.
func asciiBorder() lipgloss.Border {
	return lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}
}

// padRight pads a string with spaces to the target width.
func padRight(value string, width int) string {
	runes := []rune(value)
	if len(runes) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(runes))
}
