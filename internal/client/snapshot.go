package client

import "github.com/agentdeck/agentdeck/internal/payload"

// Snapshot is a read-only copy of client state for rendering. Nothing in
// it aliases live client memory, so the UI can hold it across frames.
type Snapshot struct {
	// Status is the connection state.
	Status Status
	// Initialized reports whether the protocol handshake completed.
	Initialized bool
	// AgentState is what the agent is doing right now.
	AgentState AgentState
	// AgentName is the name reported during initialization.
	AgentName string
	// SessionID is the live session, or empty.
	SessionID string
	// Entries is the chat log in display order.
	Entries []ChatEntry
	// Rounds maps user entry ids to their round metrics.
	Rounds map[string]RoundMetrics
	// ModeState is the session mode selection, or nil when unknown.
	ModeState *payload.SelectionState
	// ModelState is the model selection, or nil when unknown.
	ModelState *payload.SelectionState
	// RawFrames holds recent undecodable frames for diagnostics.
	RawFrames []string
	// RecentSessions lists known session ids, most recent first.
	RecentSessions []string
	// AutoNewSession reports the auto session creation preference.
	AutoNewSession bool
}

// Snapshot copies the observable state under the client lock.
func (c *Client) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{
		Status:         c.status,
		Initialized:    c.initialized,
		AgentState:     c.agentState,
		AgentName:      c.agentName,
		SessionID:      c.sessionID,
		Rounds:         make(map[string]RoundMetrics, len(c.rounds)),
		RawFrames:      append([]string(nil), c.rawFrames...),
		AutoNewSession: c.autoNewSession,
	}
	if c.store != nil {
		snapshot.RecentSessions = c.store.RecentSessions()
	}
	for _, entry := range c.conv.entries {
		snapshot.Entries = append(snapshot.Entries, cloneEntry(entry))
	}
	for id, round := range c.rounds {
		copied := *round
		snapshot.Rounds[id] = copied
	}
	if c.modeState != nil {
		state := *c.modeState
		state.Options = append([]payload.Option(nil), c.modeState.Options...)
		snapshot.ModeState = &state
	}
	if c.modelState != nil {
		state := *c.modelState
		state.Options = append([]payload.Option(nil), c.modelState.Options...)
		snapshot.ModelState = &state
	}
	return snapshot
}
