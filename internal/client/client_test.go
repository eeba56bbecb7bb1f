package client

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/agentdeck/agentdeck/internal/payload"
	"github.com/agentdeck/agentdeck/internal/transport"
)

// fakeTransport captures outbound frames and lets tests inject inbound
// traffic through the handler.
type fakeTransport struct {
	handler transport.Handler
	sent    [][]byte
	started bool
	closed  bool
}

func (f *fakeTransport) Start() { f.started = true }

func (f *fakeTransport) Send(frame []byte) error {
	f.sent = append(f.sent, append([]byte(nil), frame...))
	return nil
}

func (f *fakeTransport) Close() error {
	if !f.closed {
		f.closed = true
		f.handler.HandleClose()
	}
	return nil
}

// deliver injects one inbound frame as the read loop would.
func (f *fakeTransport) deliver(raw string) {
	f.handler.HandleMessage([]byte(raw))
}

// fakeStore is an in-memory Store.
type fakeStore struct {
	sessions []string
	autoNew  bool
	frames   []string
}

func (s *fakeStore) RememberSession(id string) {
	filtered := []string{id}
	for _, known := range s.sessions {
		if known != id {
			filtered = append(filtered, known)
		}
	}
	s.sessions = filtered
}

func (s *fakeStore) RecentSessions() []string { return s.sessions }

func (s *fakeStore) AutoNewSession() bool { return s.autoNew }

func (s *fakeStore) SetAutoNewSession(enabled bool) { s.autoNew = enabled }

func (s *fakeStore) AppendFrame(sessionID, direction, frame string) {
	s.frames = append(s.frames, direction+" "+frame)
}

// newTestClient wires a client to a fakeTransport.
func newTestClient(store Store) (*Client, *fakeTransport) {
	conn := &fakeTransport{}
	dialer := func(handler transport.Handler) (transport.Transport, error) {
		conn.handler = handler
		return conn, nil
	}
	agent := New(dialer, store, Options{Name: "agentdeck", Title: "AgentDeck", Version: "0.1.0", Cwd: "/work"})
	return agent, conn
}

// decodeFrame parses one captured outbound frame.
func decodeFrame(testingHandle *testing.T, frame []byte) map[string]any {
	var decoded map[string]any
	if err := json.Unmarshal(frame, &decoded); err != nil {
		testingHandle.Fatalf("parse outbound frame: %v", err)
	}
	return decoded
}

// connectAndInitialize drives the handshake through session creation.
func connectAndInitialize(testingHandle *testing.T, agent *Client, conn *fakeTransport) {
	agent.Connect()
	if !conn.started {
		testingHandle.Fatalf("expected read loop started after dial")
	}
	if len(conn.sent) != 1 {
		testingHandle.Fatalf("expected initialize frame, got %d frames", len(conn.sent))
	}
	initialize := decodeFrame(testingHandle, conn.sent[0])
	if initialize["method"] != "initialize" {
		testingHandle.Fatalf("expected initialize method, got %v", initialize["method"])
	}
	conn.deliver(`{"jsonrpc":"2.0","id":1,"result":{"protocolVersion":1,"agentInfo":{"name":"demo"}}}`)
}

// TestConnectHandshakeAndPromptRound walks the happy path: connect,
// initialize, automatic session creation, one prompt round.
func TestConnectHandshakeAndPromptRound(testingHandle *testing.T) {
	agent, conn := newTestClient(nil)

	connectAndInitialize(testingHandle, agent, conn)

	// Auto session bootstrap fired once after initialization.
	if len(conn.sent) != 2 {
		testingHandle.Fatalf("expected session/new after initialize, got %d frames", len(conn.sent))
	}
	newSession := decodeFrame(testingHandle, conn.sent[1])
	if newSession["method"] != "session/new" {
		testingHandle.Fatalf("expected session/new, got %v", newSession["method"])
	}
	conn.deliver(`{"jsonrpc":"2.0","id":2,"result":{"sessionId":"s1"}}`)

	agent.SendPrompt("hi")
	prompt := decodeFrame(testingHandle, conn.sent[2])
	if prompt["method"] != "session/prompt" {
		testingHandle.Fatalf("expected session/prompt, got %v", prompt["method"])
	}
	conn.deliver(`{"jsonrpc":"2.0","method":"session/update","params":{"sessionId":"s1","update":{"sessionUpdate":"agent_message_chunk","content":{"type":"text","text":"Hello"}}}}`)
	conn.deliver(`{"jsonrpc":"2.0","id":3,"result":{"stopReason":"end_turn","usage":{"inputTokens":12,"outputTokens":4}}}`)

	snapshot := agent.Snapshot()
	expected := []struct {
		role    Role
		content string
	}{
		{RoleSystem, "Connected"},
		{RoleSystem, "Initialized (agent: demo)"},
		{RoleSystem, "Session ready"},
		{RoleUser, "hi"},
		{RoleAssistant, "Hello"},
	}
	if len(snapshot.Entries) != len(expected) {
		testingHandle.Fatalf("expected %d entries, got %d: %+v", len(expected), len(snapshot.Entries), snapshot.Entries)
	}
	for index, want := range expected {
		entry := snapshot.Entries[index]
		if entry.Role != want.role || entry.Content != want.content {
			testingHandle.Fatalf("entry %d: expected %s %q, got %s %q", index, want.role, want.content, entry.Role, entry.Content)
		}
	}

	if snapshot.Status != StatusConnected || snapshot.SessionID != "s1" {
		testingHandle.Fatalf("expected connected session s1, got %s %q", snapshot.Status, snapshot.SessionID)
	}
	if snapshot.AgentState != AgentIdle {
		testingHandle.Fatalf("expected idle after stop reason, got %s", snapshot.AgentState)
	}

	round, ok := snapshot.Rounds[snapshot.Entries[3].ID]
	if !ok {
		testingHandle.Fatalf("expected round keyed by user entry id")
	}
	if round.Status != payload.RoundCompleted {
		testingHandle.Fatalf("expected completed round, got %s", round.Status)
	}
	if round.EndedAt.IsZero() {
		testingHandle.Fatalf("expected round end time")
	}
	if round.Usage.InputTokens == nil || *round.Usage.InputTokens != 12 {
		testingHandle.Fatalf("expected merged input tokens, got %+v", round.Usage)
	}
}

// TestStalePromptErrorLeavesCurrentRound validates an error answering a
// superseded prompt request is logged without closing the round of the
// prompt that replaced it.
func TestStalePromptErrorLeavesCurrentRound(testingHandle *testing.T) {
	agent, conn := newTestClient(nil)
	connectAndInitialize(testingHandle, agent, conn)
	conn.deliver(`{"jsonrpc":"2.0","id":2,"result":{"sessionId":"s1"}}`)

	agent.SendPrompt("first")
	agent.SendPrompt("second")
	if len(agent.pending.entries) != 1 {
		testingHandle.Fatalf("expected superseded prompt untracked, got %d pending", len(agent.pending.entries))
	}

	conn.deliver(`{"jsonrpc":"2.0","id":3,"error":{"code":-32000,"message":"too late"}}`)

	snapshot := agent.Snapshot()
	var secondEntryID string
	for _, entry := range snapshot.Entries {
		if entry.Role == RoleUser && entry.Content == "second" {
			secondEntryID = entry.ID
		}
	}
	if round := snapshot.Rounds[secondEntryID]; round.Status != payload.RoundProcessing {
		testingHandle.Fatalf("expected current round untouched, got %s", round.Status)
	}
	last := snapshot.Entries[len(snapshot.Entries)-1]
	if last.Role != RoleSystem || last.Content != "Agent error: too late" {
		testingHandle.Fatalf("expected plain error entry, got %s %q", last.Role, last.Content)
	}

	conn.deliver(`{"jsonrpc":"2.0","id":4,"error":{"code":-32000,"message":"boom"}}`)
	if round := agent.Snapshot().Rounds[secondEntryID]; round.Status != payload.RoundError {
		testingHandle.Fatalf("expected error round for the active prompt, got %s", round.Status)
	}
}

// TestToolCallLifecycle validates tool updates fold into one group with
// merged node state.
func TestToolCallLifecycle(testingHandle *testing.T) {
	agent, conn := newTestClient(nil)
	connectAndInitialize(testingHandle, agent, conn)
	conn.deliver(`{"jsonrpc":"2.0","id":2,"result":{"sessionId":"s1"}}`)
	agent.SendPrompt("edit the file")

	conn.deliver(`{"jsonrpc":"2.0","method":"session/update","params":{"sessionId":"s1","update":{"sessionUpdate":"tool_call","toolCallId":"t1","title":"Edit a.txt","kind":"edit","status":"pending"}}}`)
	conn.deliver(`{"jsonrpc":"2.0","method":"session/update","params":{"sessionId":"s1","update":{"sessionUpdate":"tool_call_update","toolCallId":"t1","status":"completed","content":[{"type":"diff","path":"a.txt"}]}}}`)

	snapshot := agent.Snapshot()
	if snapshot.AgentState != AgentToolCalling {
		testingHandle.Fatalf("expected tool_calling state, got %s", snapshot.AgentState)
	}
	last := snapshot.Entries[len(snapshot.Entries)-1]
	if last.Role != RoleToolCallGroup || len(last.ToolCalls) != 1 {
		testingHandle.Fatalf("expected one tool call group, got %s with %d calls", last.Role, len(last.ToolCalls))
	}
	node := last.ToolCalls[0]
	if node.Status != payload.StatusCompleted || node.Content != "Updated a.txt" || node.Title != "Edit a.txt" {
		testingHandle.Fatalf("unexpected node %+v", node)
	}
}

// TestResumeFallsBackToNewSession validates an automatic resume failure
// triggers session/new.
func TestResumeFallsBackToNewSession(testingHandle *testing.T) {
	agent, conn := newTestClient(&fakeStore{autoNew: false})
	connectAndInitialize(testingHandle, agent, conn)

	// No bootstrap with the preference off.
	if len(conn.sent) != 1 {
		testingHandle.Fatalf("expected no session/new with preference off, got %d frames", len(conn.sent))
	}

	agent.ResumeSession("old-session", true)
	resume := decodeFrame(testingHandle, conn.sent[1])
	if resume["method"] != "session/resume" {
		testingHandle.Fatalf("expected session/resume, got %v", resume["method"])
	}

	conn.deliver(`{"jsonrpc":"2.0","id":2,"error":{"code":-32602,"message":"unknown session"}}`)

	fallback := decodeFrame(testingHandle, conn.sent[2])
	if fallback["method"] != "session/new" {
		testingHandle.Fatalf("expected session/new fallback, got %v", fallback["method"])
	}

	snapshot := agent.Snapshot()
	last := snapshot.Entries[len(snapshot.Entries)-1]
	if last.Role != RoleSystem {
		testingHandle.Fatalf("expected system entry about resume failure, got %s", last.Role)
	}
}

// TestResumeSuccessAdoptsSession validates a resumed session id is adopted
// even though session/resume responses carry no payload.
func TestResumeSuccessAdoptsSession(testingHandle *testing.T) {
	store := &fakeStore{autoNew: false}
	agent, conn := newTestClient(store)
	connectAndInitialize(testingHandle, agent, conn)

	agent.ResumeSession("old-session", false)
	conn.deliver(`{"jsonrpc":"2.0","id":2,"result":null}`)

	snapshot := agent.Snapshot()
	if snapshot.SessionID != "old-session" {
		testingHandle.Fatalf("expected resumed session adopted, got %q", snapshot.SessionID)
	}
	if len(store.sessions) == 0 || store.sessions[0] != "old-session" {
		testingHandle.Fatalf("expected session persisted as most recent, got %v", store.sessions)
	}
}

// TestPermissionResolutionIsIdempotent validates a permission request is
// answered exactly once no matter how often the UI fires.
func TestPermissionResolutionIsIdempotent(testingHandle *testing.T) {
	agent, conn := newTestClient(&fakeStore{autoNew: false})
	connectAndInitialize(testingHandle, agent, conn)

	conn.deliver(`{"jsonrpc":"2.0","id":77,"method":"session/request_permission","params":{"options":[{"kind":"allow_once","name":"Allow","optionId":"allow"}],"toolCall":{"toolCallId":"t1","title":"Run command"}}}`)

	snapshot := agent.Snapshot()
	last := snapshot.Entries[len(snapshot.Entries)-1]
	if last.Role != RolePermissionRequest || last.Permission == nil {
		testingHandle.Fatalf("expected permission entry, got %+v", last)
	}
	if snapshot.AgentState != AgentAwaitingPermission {
		testingHandle.Fatalf("expected awaiting_permission, got %s", snapshot.AgentState)
	}

	framesBefore := len(conn.sent)
	agent.RespondToPermission(last.ID, "allow")
	agent.RespondToPermission(last.ID, "allow")
	if len(conn.sent) != framesBefore+1 {
		testingHandle.Fatalf("expected exactly one response frame, got %d new", len(conn.sent)-framesBefore)
	}

	response := decodeFrame(testingHandle, conn.sent[framesBefore])
	result, ok := response["result"].(map[string]any)
	if !ok {
		testingHandle.Fatalf("expected result object, got %v", response["result"])
	}
	outcome, ok := result["outcome"].(map[string]any)
	if !ok || outcome["outcome"] != "selected" || outcome["optionId"] != "allow" {
		testingHandle.Fatalf("unexpected outcome payload %v", result)
	}

	resolved := agent.Snapshot()
	permission := resolved.Entries[len(resolved.Entries)-1].Permission
	if !permission.Resolved || permission.SelectedOptionID != "allow" {
		testingHandle.Fatalf("expected resolved permission, got %+v", permission)
	}
}

// TestQuestionResponseEchoesQuestions validates structured question answers
// carry the original question set back to the agent.
func TestQuestionResponseEchoesQuestions(testingHandle *testing.T) {
	agent, conn := newTestClient(&fakeStore{autoNew: false})
	connectAndInitialize(testingHandle, agent, conn)

	conn.deliver(`{"jsonrpc":"2.0","id":78,"method":"session/request_permission","params":{"options":[],"toolCall":{"toolCallId":"q1","title":"AskUserQuestion","rawInput":{"questions":[{"question":"Deploy?","header":"deploy"}]}}}}`)

	snapshot := agent.Snapshot()
	last := snapshot.Entries[len(snapshot.Entries)-1]
	if last.Permission == nil || !last.Permission.IsQuestion {
		testingHandle.Fatalf("expected question-style permission, got %+v", last.Permission)
	}

	framesBefore := len(conn.sent)
	agent.RespondToQuestion(last.ID, map[string]any{"deploy": "yes"})

	response := decodeFrame(testingHandle, conn.sent[framesBefore])
	result := response["result"].(map[string]any)
	updatedInput, ok := result["updatedInput"].(map[string]any)
	if !ok {
		testingHandle.Fatalf("expected updatedInput, got %v", result)
	}
	questions, ok := updatedInput["questions"].([]any)
	if !ok || len(questions) != 1 {
		testingHandle.Fatalf("expected original questions echoed, got %v", updatedInput["questions"])
	}
	answers, ok := updatedInput["answers"].(map[string]any)
	if !ok || answers["deploy"] != "yes" {
		testingHandle.Fatalf("expected answers, got %v", updatedInput["answers"])
	}
}

// TestInterruptCancelsPermissionsAndRound validates the interrupt path:
// pending permissions resolve cancelled, session/cancel goes out, and the
// agent's cancellation stop reason closes the round as cancelled.
func TestInterruptCancelsPermissionsAndRound(testingHandle *testing.T) {
	agent, conn := newTestClient(nil)
	connectAndInitialize(testingHandle, agent, conn)
	conn.deliver(`{"jsonrpc":"2.0","id":2,"result":{"sessionId":"s1"}}`)
	agent.SendPrompt("do it")

	conn.deliver(`{"jsonrpc":"2.0","id":79,"method":"session/request_permission","params":{"options":[{"kind":"allow_once","name":"Allow","optionId":"allow"}],"toolCall":{"toolCallId":"t1","title":"Run command"}}}`)

	framesBefore := len(conn.sent)
	agent.Interrupt()

	cancelOutcome := decodeFrame(testingHandle, conn.sent[framesBefore])
	outcome := cancelOutcome["result"].(map[string]any)["outcome"].(map[string]any)
	if outcome["outcome"] != "cancelled" {
		testingHandle.Fatalf("expected cancelled outcome, got %v", outcome)
	}
	cancel := decodeFrame(testingHandle, conn.sent[framesBefore+1])
	if cancel["method"] != "session/cancel" {
		testingHandle.Fatalf("expected session/cancel, got %v", cancel["method"])
	}
	if _, hasID := cancel["id"]; hasID {
		testingHandle.Fatalf("session/cancel must be a notification, got id %v", cancel["id"])
	}

	conn.deliver(`{"jsonrpc":"2.0","id":3,"result":{"stopReason":"cancelled"}}`)

	snapshot := agent.Snapshot()
	var userEntryID string
	for _, entry := range snapshot.Entries {
		if entry.Role == RoleUser {
			userEntryID = entry.ID
		}
	}
	round, ok := snapshot.Rounds[userEntryID]
	if !ok || round.Status != payload.RoundCancelled {
		testingHandle.Fatalf("expected cancelled round, got %+v", round)
	}
}

// TestSendPromptWithoutSession validates prompting without a session logs a
// hint instead of sending.
func TestSendPromptWithoutSession(testingHandle *testing.T) {
	agent, conn := newTestClient(&fakeStore{autoNew: false})
	connectAndInitialize(testingHandle, agent, conn)

	framesBefore := len(conn.sent)
	agent.SendPrompt("hello")
	if len(conn.sent) != framesBefore {
		testingHandle.Fatalf("expected no frame without a session")
	}

	snapshot := agent.Snapshot()
	last := snapshot.Entries[len(snapshot.Entries)-1]
	if last.Role != RoleSystem || last.Content != "No active session" {
		testingHandle.Fatalf("expected hint entry, got %s %q", last.Role, last.Content)
	}
}

// TestModeAndModelStateFromSessionNew validates selection catalogs embedded
// in the session/new result are adopted, and that set_mode and set_model
// apply the new selection locally before the agent answers.
func TestModeAndModelStateFromSessionNew(testingHandle *testing.T) {
	agent, conn := newTestClient(nil)
	connectAndInitialize(testingHandle, agent, conn)

	conn.deliver(`{"jsonrpc":"2.0","id":2,"result":{"sessionId":"s1","modes":{"currentModeId":"code","availableModes":[{"id":"code","name":"Code"},{"id":"plan","name":"Plan"}]},"models":{"currentModelId":"m1","availableModels":[{"id":"m1","name":"Fast"},{"id":"m2","name":"Smart"}]}}}`)

	snapshot := agent.Snapshot()
	if snapshot.ModeState == nil || snapshot.ModeState.CurrentID != "code" || len(snapshot.ModeState.Options) != 2 {
		testingHandle.Fatalf("unexpected mode state %+v", snapshot.ModeState)
	}
	if snapshot.ModelState == nil || snapshot.ModelState.CurrentID != "m1" {
		testingHandle.Fatalf("unexpected model state %+v", snapshot.ModelState)
	}

	agent.SetMode("plan")
	if agent.Snapshot().ModeState.CurrentID != "plan" {
		testingHandle.Fatalf("expected mode plan immediately after SetMode")
	}
	request := decodeFrame(testingHandle, conn.sent[len(conn.sent)-1])
	if request["method"] != "session/set_mode" {
		testingHandle.Fatalf("expected session/set_mode, got %v", request["method"])
	}

	agent.SetModel("m2")
	if agent.Snapshot().ModelState.CurrentID != "m2" {
		testingHandle.Fatalf("expected model m2 immediately after SetModel")
	}
	request = decodeFrame(testingHandle, conn.sent[len(conn.sent)-1])
	if request["method"] != "session/set_model" {
		testingHandle.Fatalf("expected session/set_model, got %v", request["method"])
	}

	conn.deliver(`{"jsonrpc":"2.0","method":"session/update","params":{"sessionId":"s1","update":{"sessionUpdate":"current_mode_update","currentModeId":"code"}}}`)
	if agent.Snapshot().ModeState.CurrentID != "code" {
		testingHandle.Fatalf("expected agent confirmation to override the local selection")
	}
}

// TestSetModelWhileDisconnectedKeepsSelection validates the local selection
// survives even when no frame can be sent.
func TestSetModelWhileDisconnectedKeepsSelection(testingHandle *testing.T) {
	agent, conn := newTestClient(nil)
	connectAndInitialize(testingHandle, agent, conn)
	conn.deliver(`{"jsonrpc":"2.0","id":2,"result":{"sessionId":"s1","models":{"currentModelId":"m1","availableModels":[{"id":"m1","name":"Fast"},{"id":"m2","name":"Smart"}]}}}`)
	agent.Disconnect()

	framesBefore := len(conn.sent)
	agent.SetModel("m2")
	if len(conn.sent) != framesBefore {
		testingHandle.Fatalf("expected no frame while disconnected")
	}
	if agent.Snapshot().ModelState.CurrentID != "m2" {
		testingHandle.Fatalf("expected local model selection to stick while disconnected")
	}
}

// TestRawFramesCaptured validates undecodable traffic lands in diagnostics
// without touching the chat log.
func TestRawFramesCaptured(testingHandle *testing.T) {
	agent, conn := newTestClient(&fakeStore{autoNew: false})
	connectAndInitialize(testingHandle, agent, conn)

	entriesBefore := len(agent.Snapshot().Entries)
	conn.deliver(`not json at all`)

	snapshot := agent.Snapshot()
	if len(snapshot.Entries) != entriesBefore {
		testingHandle.Fatalf("raw frame must not create chat entries")
	}
	if len(snapshot.RawFrames) != 1 || snapshot.RawFrames[0] != "not json at all" {
		testingHandle.Fatalf("expected verbatim raw frame, got %v", snapshot.RawFrames)
	}
}

// TestHandleCloseClearsSessionState validates disconnect cleanup and that
// a later reconnect re-runs the bootstrap latch.
func TestHandleCloseClearsSessionState(testingHandle *testing.T) {
	agent, conn := newTestClient(nil)
	connectAndInitialize(testingHandle, agent, conn)
	conn.deliver(`{"jsonrpc":"2.0","id":2,"result":{"sessionId":"s1"}}`)
	agent.SendPrompt("hi")

	agent.Disconnect()

	snapshot := agent.Snapshot()
	if snapshot.Status != StatusDisconnected {
		testingHandle.Fatalf("expected disconnected, got %s", snapshot.Status)
	}
	if snapshot.SessionID != "" {
		testingHandle.Fatalf("expected session cleared, got %q", snapshot.SessionID)
	}
	if len(snapshot.Rounds) != 0 {
		testingHandle.Fatalf("expected round metrics cleared, got %d rounds", len(snapshot.Rounds))
	}
	last := snapshot.Entries[len(snapshot.Entries)-1]
	if last.Role != RoleSystem || last.Content != "Disconnected" {
		testingHandle.Fatalf("expected disconnect entry, got %s %q", last.Role, last.Content)
	}
	if len(agent.pending.entries) != 0 {
		testingHandle.Fatalf("expected no pending requests after close")
	}
}

// TestDialFailureEntersErrorState validates a failing dial is surfaced and
// reconnection stays manual.
func TestDialFailureEntersErrorState(testingHandle *testing.T) {
	dialer := func(handler transport.Handler) (transport.Transport, error) {
		return nil, fmt.Errorf("connection refused")
	}
	agent := New(dialer, nil, Options{Name: "agentdeck"})

	agent.Connect()

	snapshot := agent.Snapshot()
	if snapshot.Status != StatusError {
		testingHandle.Fatalf("expected error status, got %s", snapshot.Status)
	}
	last := snapshot.Entries[len(snapshot.Entries)-1]
	if last.Role != RoleSystem {
		testingHandle.Fatalf("expected system entry, got %s", last.Role)
	}
}

// TestClearMessagesKeepsSession validates clearing the log resets metrics
// and correlation but leaves the session usable.
func TestClearMessagesKeepsSession(testingHandle *testing.T) {
	agent, conn := newTestClient(nil)
	connectAndInitialize(testingHandle, agent, conn)
	conn.deliver(`{"jsonrpc":"2.0","id":2,"result":{"sessionId":"s1"}}`)
	agent.SendPrompt("hi")

	agent.ClearMessages()

	snapshot := agent.Snapshot()
	if len(snapshot.Entries) != 0 || len(snapshot.Rounds) != 0 {
		testingHandle.Fatalf("expected empty log and rounds, got %d entries %d rounds", len(snapshot.Entries), len(snapshot.Rounds))
	}
	if snapshot.SessionID != "s1" {
		testingHandle.Fatalf("expected session kept, got %q", snapshot.SessionID)
	}

	agent.SendPrompt("again")
	prompt := decodeFrame(testingHandle, conn.sent[len(conn.sent)-1])
	if prompt["method"] != "session/prompt" {
		testingHandle.Fatalf("expected prompt after clear, got %v", prompt["method"])
	}
}
