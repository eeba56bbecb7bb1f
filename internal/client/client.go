package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/agentdeck/agentdeck/internal/payload"
	"github.com/agentdeck/agentdeck/internal/transport"
	"github.com/agentdeck/agentdeck/internal/wire"
)

// protocolVersion is the highest agent protocol version this client speaks.
const protocolVersion = 1

// maxRawFrames bounds the diagnostics ring of undecodable frames.
const maxRawFrames = 50

// Dialer opens a transport delivering inbound traffic to the handler. The
// returned transport must not start reading until Start is called.
type Dialer func(handler transport.Handler) (transport.Transport, error)

// Store persists session recency and preferences across runs. All methods
// are best-effort; failures never surface to the protocol flow.
type Store interface {
	// RememberSession records id as the most recently used session.
	RememberSession(id string)
	// RecentSessions lists known session ids, most recent first.
	RecentSessions() []string
	// AutoNewSession reports whether to create a session on connect.
	AutoNewSession() bool
	// SetAutoNewSession updates the persisted preference.
	SetAutoNewSession(enabled bool)
	// AppendFrame logs one wire frame to the session transcript.
	AppendFrame(sessionID, direction, frame string)
}

// Options configures a Client.
type Options struct {
	// Name identifies this client in the initialize handshake.
	Name string
	// Title is the human-readable client title.
	Title string
	// Version is the client version string.
	Version string
	// Cwd is the working directory advertised to session calls.
	Cwd string
}

// Client drives one agent connection: it owns the outbound request
// counter, correlates responses, folds notifications into the chat log,
// and exposes the command surface the UI calls.
//
// A single mutex serializes every state mutation, whether it originates
// from a UI command or an inbound frame, so observers always see a
// consistent snapshot.
type Client struct {
	mu sync.Mutex

	dialer  Dialer
	counter wire.Counter
	store   Store
	options Options

	status    Status
	transport transport.Transport

	conv    *conversation
	pending *pendingTable

	initialized  bool
	initializeID int64
	agentName    string
	sessionID    string

	// bootstrapDone latches once the one-shot session/new fired for
	// this connection. Reset on disconnect and on pref toggle-off.
	bootstrapDone  bool
	autoNewSession bool

	activePromptID    int64
	activeUserEntryID string
	rounds            map[string]*RoundMetrics

	agentState AgentState
	modeState  *payload.SelectionState
	modelState *payload.SelectionState

	rawFrames []string

	notify func()
	now    func() time.Time
}

// New builds a disconnected client. store may be nil when persistence is
// unavailable; auto session creation then defaults to on.
func New(dialer Dialer, store Store, options Options) *Client {
	autoNew := true
	if store != nil {
		autoNew = store.AutoNewSession()
	}
	return &Client{
		dialer:         dialer,
		store:          store,
		options:        options,
		status:         StatusDisconnected,
		conv:           newConversation(),
		pending:        newPendingTable(),
		rounds:         make(map[string]*RoundMetrics),
		agentState:     AgentIdle,
		autoNewSession: autoNew,
		now:            time.Now,
	}
}

// SetNotify registers a callback fired after every state change, outside
// the client lock. The UI uses it to schedule a re-render.
func (c *Client) SetNotify(callback func()) {
	c.mu.Lock()
	c.notify = callback
	c.mu.Unlock()
}

func (c *Client) changed() {
	c.mu.Lock()
	callback := c.notify
	c.mu.Unlock()
	if callback != nil {
		callback()
	}
}

// Connect dials the agent and runs the initialize handshake. It is a
// no-op while already connecting or connected. A failed dial leaves the
// client in the error state; reconnection is always explicit.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.status == StatusConnecting || c.status == StatusConnected {
		c.mu.Unlock()
		return
	}
	c.status = StatusConnecting
	dialer := c.dialer
	c.mu.Unlock()
	c.changed()

	conn, err := dialer(c)

	c.mu.Lock()
	if err != nil {
		c.status = StatusError
		c.conv.append(RoleSystem, fmt.Sprintf("Connection failed: %v", err))
		c.mu.Unlock()
		c.changed()
		return
	}
	c.transport = conn
	c.status = StatusConnected
	c.conv.append(RoleSystem, "Connected")
	c.sendInitializeLocked()
	c.mu.Unlock()
	c.changed()

	conn.Start()
}

// Disconnect closes the transport. Cleanup happens in HandleClose once the
// read loop observes the close.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.transport
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// sendInitializeLocked starts the handshake advertising the client's
// capabilities. Callers hold the mutex.
func (c *Client) sendInitializeLocked() {
	params := map[string]any{
		"protocolVersion": protocolVersion,
		"clientCapabilities": map[string]any{
			"fs": map[string]any{
				"readTextFile":  true,
				"writeTextFile": true,
			},
			"terminal": true,
		},
		"clientInfo": map[string]any{
			"name":    c.options.Name,
			"title":   c.options.Title,
			"version": c.options.Version,
		},
	}
	id, ok := c.sendRequestLocked("initialize", params)
	if !ok {
		return
	}
	c.initializeID = id
	c.pending.track(id, pendingRequest{kind: pendingInitialize})
}

// sendRequestLocked encodes and sends one request, returning its id.
// Sends while the transport is down are dropped silently.
func (c *Client) sendRequestLocked(method string, params any) (int64, bool) {
	if c.transport == nil || c.status != StatusConnected {
		return 0, false
	}
	frame, id, err := wire.EncodeRequest(&c.counter, method, params)
	if err != nil {
		c.conv.append(RoleSystem, fmt.Sprintf("Failed to encode %s: %v", method, err))
		return 0, false
	}
	if err := c.transport.Send(frame); err != nil {
		c.conv.append(RoleSystem, fmt.Sprintf("Failed to send %s: %v", method, err))
		return 0, false
	}
	c.recordFrameLocked("out", string(frame))
	return id, true
}

// sendNotificationLocked encodes and sends one notification.
func (c *Client) sendNotificationLocked(method string, params any) {
	if c.transport == nil || c.status != StatusConnected {
		return
	}
	frame, err := wire.EncodeNotification(method, params)
	if err != nil {
		return
	}
	if err := c.transport.Send(frame); err != nil {
		return
	}
	c.recordFrameLocked("out", string(frame))
}

// sendResponseLocked answers an inbound server request.
func (c *Client) sendResponseLocked(id any, result any) bool {
	if c.transport == nil || c.status != StatusConnected {
		return false
	}
	frame, err := wire.EncodeResponse(id, result)
	if err != nil {
		return false
	}
	if err := c.transport.Send(frame); err != nil {
		return false
	}
	c.recordFrameLocked("out", string(frame))
	return true
}

func (c *Client) recordFrameLocked(direction, frame string) {
	if c.store != nil && c.sessionID != "" {
		c.store.AppendFrame(c.sessionID, direction, frame)
	}
}

// HandleMessage decodes one inbound frame and routes it. Implements
// transport.Handler; called from the transport read loop.
func (c *Client) HandleMessage(raw []byte) {
	frame := wire.Decode(raw)

	c.mu.Lock()
	c.recordFrameLocked("in", string(raw))
	switch frame.Kind {
	case wire.FrameServerRequest:
		c.handleServerRequestLocked(frame)
	case wire.FrameResponse:
		if id, ok := wire.ResponseID(frame.ID); ok {
			c.handleResponseLocked(id, frame.Result)
		}
	case wire.FrameError:
		if id, ok := wire.ResponseID(frame.ID); ok {
			c.handleErrorLocked(id, frame.Error)
		}
	case wire.FrameNotification:
		c.handleNotificationLocked(frame)
	case wire.FrameRaw:
		c.rawFrames = append(c.rawFrames, frame.Raw)
		if len(c.rawFrames) > maxRawFrames {
			c.rawFrames = c.rawFrames[len(c.rawFrames)-maxRawFrames:]
		}
	}
	c.mu.Unlock()
	c.changed()
}

// HandleError reports a transport failure. Implements transport.Handler.
func (c *Client) HandleError(err error) {
	c.mu.Lock()
	c.status = StatusError
	c.conv.endStream()
	c.conv.append(RoleSystem, fmt.Sprintf("Connection error: %v", err))
	c.mu.Unlock()
	c.changed()
}

// HandleClose clears per-connection state once the transport is gone.
// Implements transport.Handler.
func (c *Client) HandleClose() {
	c.mu.Lock()
	if c.status != StatusError {
		c.status = StatusDisconnected
	}
	c.transport = nil
	c.initialized = false
	c.initializeID = 0
	c.bootstrapDone = false
	c.sessionID = ""
	c.activePromptID = 0
	c.activeUserEntryID = ""
	c.rounds = make(map[string]*RoundMetrics)
	c.pending.clear()
	c.conv.endStream()
	c.agentState = AgentIdle
	c.conv.append(RoleSystem, "Disconnected")
	c.mu.Unlock()
	c.changed()
}

// handleResponseLocked routes a success response. Correlated resumes are
// handled first; everything else falls through shape-based checks so
// responses from untracked requests still update state.
func (c *Client) handleResponseLocked(id int64, result map[string]any) {
	meta, tracked := c.pending.resolve(id)
	if tracked && meta.kind == pendingResume {
		c.finishResumeLocked(meta, result)
		return
	}

	c.applySelectionStatesLocked(result)

	switch {
	case tracked && meta.kind == pendingInitialize:
		c.initialized = true
		c.initializeID = 0
		c.agentName = payload.StringField(
			payload.MapField(result, "agentInfo", "agent_info", "serverInfo"),
			"name")
		if c.agentName != "" {
			c.conv.append(RoleSystem, fmt.Sprintf("Initialized (agent: %s)", c.agentName))
		} else {
			c.conv.append(RoleSystem, "Initialized")
		}
		c.maybeBootstrapLocked()
	default:
		if sessionID := payload.StringField(result, "sessionId", "session_id"); sessionID != "" {
			c.adoptSessionLocked(sessionID)
		}
	}

	if stop := payload.StringField(result, "stopReason", "stop_reason"); stop != "" {
		if id == c.activePromptID {
			c.activePromptID = 0
		}
		c.finishRoundLocked(payload.StopStatus(stop), result)
	}
}

// applySelectionStatesLocked picks up mode and model state embedded in a
// result, checking both the nested objects and the top level.
func (c *Client) applySelectionStatesLocked(result map[string]any) {
	for _, source := range []map[string]any{payload.MapField(result, "modes"), result} {
		if state, ok := payload.ModeState(source); ok {
			c.modeState = state
			break
		}
	}
	for _, source := range []map[string]any{payload.MapField(result, "models"), result} {
		if state, ok := payload.ModelState(source); ok {
			c.modelState = state
			break
		}
	}
}

// handleErrorLocked routes an error response: resume fallbacks first, then
// active-prompt failure, then a plain log line.
func (c *Client) handleErrorLocked(id int64, errObj *wire.ErrorObject) {
	message := "unknown error"
	if errObj != nil {
		message = errObj.Message
	}

	meta, tracked := c.pending.resolve(id)
	if tracked && meta.kind == pendingResume {
		c.conv.append(RoleSystem, fmt.Sprintf("Could not resume session %s: %s", meta.sessionID, message))
		if meta.auto {
			c.requestNewSessionLocked()
		}
		return
	}

	c.conv.endStream()
	if c.activePromptID != 0 && id == c.activePromptID {
		c.activePromptID = 0
		c.conv.append(RoleSystem, fmt.Sprintf("Prompt failed: %s", message))
		c.finishRoundLocked(payload.RoundError, nil)
		return
	}
	c.conv.append(RoleSystem, fmt.Sprintf("Agent error: %s", message))
}

// handleServerRequestLocked dispatches an inbound request from the agent.
func (c *Client) handleServerRequestLocked(frame wire.Frame) {
	switch frame.Method {
	case "session/request_permission":
		c.addPermissionLocked(frame.ID, frame.Params)
	default:
		c.sendResponseLocked(frame.ID, map[string]any{})
	}
}

// addPermissionLocked appends a permission_request entry for an inbound
// session/request_permission and parks the agent awaiting the answer.
func (c *Client) addPermissionLocked(id any, params map[string]any) {
	request := &PermissionRequest{JSONRPCID: id}

	if rawOptions, ok := params["options"].([]any); ok {
		for _, rawOption := range rawOptions {
			option, ok := rawOption.(map[string]any)
			if !ok {
				continue
			}
			request.Options = append(request.Options, PermissionOption{
				Kind:     payload.StringField(option, "kind"),
				Name:     payload.StringField(option, "name"),
				OptionID: payload.StringField(option, "optionId", "option_id"),
			})
		}
	}

	if toolCall := payload.MapField(params, "toolCall", "tool_call"); toolCall != nil {
		request.ToolCallID = payload.StringField(toolCall, "toolCallId", "tool_call_id", "id")
		request.Title = payload.StringField(toolCall, "title")
		request.RawInput = payload.MapField(toolCall, "rawInput", "raw_input")
		if request.RawInput != nil {
			if questions, ok := request.RawInput["questions"].([]any); ok && len(questions) > 0 {
				request.Questions = questions
				request.IsQuestion = true
			}
		}
	}

	entry := c.conv.append(RolePermissionRequest, request.Title)
	entry.Permission = request
	c.agentState = AgentAwaitingPermission
}

// handleNotificationLocked folds a notification into session state.
func (c *Client) handleNotificationLocked(frame wire.Frame) {
	if frame.Method != "session/update" {
		return
	}
	update := payload.MapField(frame.Params, "update")
	if update == nil {
		update = frame.Params
	}
	if update == nil {
		return
	}

	switch payload.StringField(update, "sessionUpdate", "session_update", "type") {
	case "agent_message_chunk":
		if text, ok := payload.ContentText(update["content"]); ok {
			c.conv.appendStream(RoleAssistant, text)
			c.agentState = AgentResponding
		}
	case "agent_thought_chunk":
		if text, ok := payload.ContentText(update["content"]); ok {
			c.conv.appendStream(RoleThought, text)
			c.agentState = AgentThinking
		}
	case "user_message_chunk":
		if text, ok := payload.ContentText(update["content"]); ok {
			c.conv.appendStream(RoleUser, text)
		}
	case "tool_call", "tool_call_update", "tool_update":
		if c.conv.upsertToolCall(update) != nil {
			c.agentState = AgentToolCalling
		}
	case "current_mode_update":
		if modeID := payload.StringField(update, "currentModeId", "current_mode_id", "modeId"); modeID != "" {
			if c.modeState == nil {
				c.modeState = &payload.SelectionState{}
			}
			c.modeState.CurrentID = modeID
		}
	}
}

// maybeBootstrapLocked fires the one-shot automatic session/new. It runs
// at most once per connection, only after initialization, only when no
// session exists yet, and only when the preference allows it.
func (c *Client) maybeBootstrapLocked() {
	if c.bootstrapDone || !c.autoNewSession || !c.initialized || c.sessionID != "" {
		return
	}
	if c.status != StatusConnected {
		return
	}
	c.bootstrapDone = true
	c.requestNewSessionLocked()
}

// requestNewSessionLocked sends session/new.
func (c *Client) requestNewSessionLocked() {
	c.sendRequestLocked("session/new", map[string]any{
		"cwd":        c.options.Cwd,
		"mcpServers": []any{},
	})
}

// adoptSessionLocked installs a freshly created session.
func (c *Client) adoptSessionLocked(sessionID string) {
	c.sessionID = sessionID
	c.agentState = AgentIdle
	if c.store != nil {
		c.store.RememberSession(sessionID)
	}
	c.conv.append(RoleSystem, "Session ready")
}

// finishResumeLocked completes a successful session/resume.
func (c *Client) finishResumeLocked(meta pendingRequest, result map[string]any) {
	c.applySelectionStatesLocked(result)
	c.sessionID = meta.sessionID
	c.agentState = AgentIdle
	if c.store != nil {
		c.store.RememberSession(meta.sessionID)
	}
	c.conv.append(RoleSystem, fmt.Sprintf("Resumed session %s", meta.sessionID))
}

// finishRoundLocked closes the active round with the given status, merging
// any usage and model data carried by the final result.
func (c *Client) finishRoundLocked(status payload.RoundStatus, result map[string]any) {
	c.conv.endStream()
	c.agentState = AgentIdle

	if c.activeUserEntryID == "" {
		return
	}
	round := c.rounds[c.activeUserEntryID]
	c.activeUserEntryID = ""
	if round == nil {
		return
	}
	round.Status = status
	round.EndedAt = c.now()
	if result != nil {
		if usage, ok := payload.UsageFrom(result); ok {
			round.Usage.Merge(usage)
		}
		if nested := payload.MapField(result, "usage", "meta"); nested != nil {
			if usage, ok := payload.UsageFrom(nested); ok {
				round.Usage.Merge(usage)
			}
		}
		if label := payload.StringField(result, "modelLabel", "model"); label != "" {
			round.ModelLabel = label
		}
	}
}

// SendPrompt sends user text to the agent. It requires a live session;
// without one it logs a hint instead of sending.
func (c *Client) SendPrompt(text string) {
	c.mu.Lock()
	if text == "" {
		c.mu.Unlock()
		return
	}
	if c.status != StatusConnected || c.sessionID == "" {
		c.conv.append(RoleSystem, "No active session")
		c.mu.Unlock()
		c.changed()
		return
	}

	entry := c.conv.append(RoleUser, text)
	params := map[string]any{
		"sessionId": c.sessionID,
		"prompt": []any{
			map[string]any{"type": "text", "text": text},
		},
	}
	id, ok := c.sendRequestLocked("session/prompt", params)
	if ok {
		if c.activePromptID != 0 {
			c.pending.resolve(c.activePromptID)
		}
		c.pending.track(id, pendingRequest{kind: pendingPrompt})
		c.activePromptID = id
		c.activeUserEntryID = entry.ID
		c.rounds[entry.ID] = &RoundMetrics{
			StartedAt:  c.now(),
			Status:     payload.RoundProcessing,
			ModelLabel: c.currentModelLabelLocked(),
		}
		c.agentState = AgentThinking
	}
	c.mu.Unlock()
	c.changed()
}

func (c *Client) currentModelLabelLocked() string {
	if c.modelState == nil {
		return ""
	}
	for _, option := range c.modelState.Options {
		if option.ID == c.modelState.CurrentID {
			return option.Name
		}
	}
	return c.modelState.CurrentID
}

// RespondToPermission answers a pending permission request with the chosen
// option. It no-ops silently when the entry is missing, already resolved,
// or the connection is down, so double key presses are harmless.
func (c *Client) RespondToPermission(entryID, optionID string) {
	c.mu.Lock()
	entry := c.conv.findEntry(entryID)
	if entry == nil || entry.Permission == nil || entry.Permission.Resolved || c.status != StatusConnected {
		c.mu.Unlock()
		return
	}
	entry.Permission.Resolved = true
	entry.Permission.SelectedOptionID = optionID
	c.sendResponseLocked(entry.Permission.JSONRPCID, map[string]any{
		"outcome": map[string]any{
			"outcome":  "selected",
			"optionId": optionID,
		},
	})
	c.agentState = AgentThinking
	c.mu.Unlock()
	c.changed()
}

// RespondToQuestion answers a question-style permission request, echoing
// the original questions back alongside the collected answers.
func (c *Client) RespondToQuestion(entryID string, answers map[string]any) {
	c.mu.Lock()
	entry := c.conv.findEntry(entryID)
	if entry == nil || entry.Permission == nil || entry.Permission.Resolved || c.status != StatusConnected {
		c.mu.Unlock()
		return
	}
	entry.Permission.Resolved = true
	entry.Permission.SelectedOptionID = "answered"
	entry.Permission.Answers = answers
	c.sendResponseLocked(entry.Permission.JSONRPCID, map[string]any{
		"outcome": map[string]any{
			"outcome":  "selected",
			"optionId": "answered",
		},
		"updatedInput": map[string]any{
			"questions": entry.Permission.Questions,
			"answers":   answers,
		},
	})
	c.agentState = AgentThinking
	c.mu.Unlock()
	c.changed()
}

// CancelPendingPermissions resolves every open permission request with a
// cancelled outcome. Used before interrupting the agent.
func (c *Client) CancelPendingPermissions() {
	c.mu.Lock()
	c.cancelPendingPermissionsLocked()
	c.mu.Unlock()
	c.changed()
}

func (c *Client) cancelPendingPermissionsLocked() {
	for _, entry := range c.conv.entries {
		if entry.Permission == nil || entry.Permission.Resolved {
			continue
		}
		entry.Permission.Resolved = true
		entry.Permission.SelectedOptionID = "cancelled"
		c.sendResponseLocked(entry.Permission.JSONRPCID, map[string]any{
			"outcome": map[string]any{"outcome": "cancelled"},
		})
	}
	if c.agentState == AgentAwaitingPermission {
		c.agentState = AgentThinking
	}
}

// Interrupt cancels pending permissions and asks the agent to stop the
// current turn. The round closes when the agent confirms via stopReason.
func (c *Client) Interrupt() {
	c.mu.Lock()
	if c.sessionID == "" {
		c.mu.Unlock()
		return
	}
	c.cancelPendingPermissionsLocked()
	c.sendNotificationLocked("session/cancel", map[string]any{
		"sessionId": c.sessionID,
	})
	c.mu.Unlock()
	c.changed()
}

// SetMode switches the session mode. The local selection updates
// immediately; a later current_mode_update from the agent confirms or
// corrects it.
func (c *Client) SetMode(modeID string) {
	c.mu.Lock()
	if c.modeState != nil {
		c.modeState.CurrentID = modeID
	}
	if c.status == StatusConnected && c.sessionID != "" {
		c.sendRequestLocked("session/set_mode", map[string]any{
			"sessionId": c.sessionID,
			"modeId":    modeID,
		})
	}
	c.mu.Unlock()
	c.changed()
}

// SetModel switches the model. The local selection updates immediately,
// even while disconnected; set_model responses carry no confirmation
// payload.
func (c *Client) SetModel(modelID string) {
	c.mu.Lock()
	if c.modelState != nil {
		c.modelState.CurrentID = modelID
	}
	if c.status == StatusConnected && c.sessionID != "" {
		c.sendRequestLocked("session/set_model", map[string]any{
			"sessionId": c.sessionID,
			"modelId":   modelID,
		})
	}
	c.mu.Unlock()
	c.changed()
}

// ClearMessages empties the chat log and resets round metrics and request
// correlation. The session itself stays live.
func (c *Client) ClearMessages() {
	c.mu.Lock()
	c.conv.reset()
	c.rounds = make(map[string]*RoundMetrics)
	c.rawFrames = nil
	c.pending.clear()
	c.activePromptID = 0
	c.activeUserEntryID = ""
	c.agentState = AgentIdle
	c.mu.Unlock()
	c.changed()
}

// NewSession discards the current session and asks the agent for a fresh
// one.
func (c *Client) NewSession() {
	c.mu.Lock()
	if c.status != StatusConnected {
		c.mu.Unlock()
		return
	}
	c.sessionID = ""
	c.conv.reset()
	c.rounds = make(map[string]*RoundMetrics)
	c.activePromptID = 0
	c.activeUserEntryID = ""
	c.agentState = AgentIdle
	c.requestNewSessionLocked()
	c.mu.Unlock()
	c.changed()
}

// ResumeSession switches to an existing session. State for the old session
// clears immediately; on failure of an automatic resume the client falls
// back to creating a fresh session.
func (c *Client) ResumeSession(sessionID string, auto bool) {
	c.mu.Lock()
	if c.status != StatusConnected || sessionID == "" {
		c.mu.Unlock()
		return
	}
	c.sessionID = ""
	c.conv.reset()
	c.rounds = make(map[string]*RoundMetrics)
	c.activePromptID = 0
	c.activeUserEntryID = ""
	c.agentState = AgentIdle

	id, ok := c.sendRequestLocked("session/resume", map[string]any{
		"sessionId":  sessionID,
		"cwd":        c.options.Cwd,
		"mcpServers": []any{},
	})
	if ok {
		c.pending.track(id, pendingRequest{kind: pendingResume, sessionID: sessionID, auto: auto})
	}
	c.mu.Unlock()
	c.changed()
}

// SetAutoNewSession updates the auto session preference. Turning it off
// re-arms the bootstrap latch; turning it on may fire it immediately.
func (c *Client) SetAutoNewSession(enabled bool) {
	c.mu.Lock()
	c.autoNewSession = enabled
	if c.store != nil {
		c.store.SetAutoNewSession(enabled)
	}
	if enabled {
		c.maybeBootstrapLocked()
	} else {
		c.bootstrapDone = false
	}
	c.mu.Unlock()
	c.changed()
}

// RecentSessions lists persisted session ids, most recent first.
func (c *Client) RecentSessions() []string {
	c.mu.Lock()
	store := c.store
	c.mu.Unlock()
	if store == nil {
		return nil
	}
	return store.RecentSessions()
}
