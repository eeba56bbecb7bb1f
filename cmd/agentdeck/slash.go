package main

import (
	"fmt"
	"strings"
)

// slashHelp lists the supported commands.
const slashHelp = `/help            show this help
/clear           clear the conversation log
/new             start a fresh session
/mode <id>       switch session mode
/model <id>      switch model
/resume [id]     resume a session (most recent when omitted)
/sessions        list recent sessions
/auto on|off     toggle automatic session creation
/connect         reconnect to the agent
/disconnect      close the connection
/quit            exit`

// handleSlashCommand interprets input starting with a slash. It reports
// whether the input was consumed and a status line to show.
func (m *chatModel) handleSlashCommand(value string) (bool, string) {
	if !strings.HasPrefix(value, "/") {
		return false, ""
	}
	fields := strings.Fields(value)
	command := strings.ToLower(fields[0])
	argument := ""
	if len(fields) > 1 {
		argument = fields[1]
	}

	switch command {
	case "/help":
		return true, strings.ReplaceAll(slashHelp, "\n", " • ")
	case "/clear":
		m.deck.ClearMessages()
		return true, "Cleared."
	case "/new":
		m.deck.NewSession()
		return true, "Starting a new session..."
	case "/mode":
		if argument == "" {
			return true, "Usage: /mode <id>"
		}
		m.deck.SetMode(argument)
		return true, fmt.Sprintf("Requested mode %s.", argument)
	case "/model":
		if argument == "" {
			return true, "Usage: /model <id>"
		}
		m.deck.SetModel(argument)
		return true, fmt.Sprintf("Requested model %s.", argument)
	case "/resume":
		target := argument
		if target == "" && m.cfg.Store != nil {
			target = m.cfg.Store.LastSession()
		}
		if target == "" {
			return true, "No session to resume."
		}
		m.deck.ResumeSession(target, false)
		return true, fmt.Sprintf("Resuming %s...", target)
	case "/sessions":
		recent := m.deck.RecentSessions()
		if len(recent) == 0 {
			return true, "No sessions yet."
		}
		return true, "Recent: " + strings.Join(recent, ", ")
	case "/auto":
		switch strings.ToLower(argument) {
		case "on":
			m.deck.SetAutoNewSession(true)
			return true, "Auto session on."
		case "off":
			m.deck.SetAutoNewSession(false)
			return true, "Auto session off."
		default:
			return true, "Usage: /auto on|off"
		}
	case "/connect":
		go m.deck.Connect()
		return true, "Connecting..."
	case "/disconnect":
		m.deck.Disconnect()
		return true, "Disconnecting..."
	case "/quit", "/exit":
		m.quitting = true
		return true, ""
	}
	return true, fmt.Sprintf("Unknown command %s. Try /help.", command)
}
