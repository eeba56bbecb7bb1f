package client

import (
	"time"

	"github.com/agentdeck/agentdeck/internal/payload"
)

// Role labels the origin of a chat entry.
type Role string

const (
	// RoleUser marks a prompt typed by the user.
	RoleUser Role = "user"
	// RoleAssistant marks streamed agent reply text.
	RoleAssistant Role = "assistant"
	// RoleThought marks streamed agent reasoning text.
	RoleThought Role = "thought"
	// RoleSystem marks client status and error messages.
	RoleSystem Role = "system"
	// RoleToolCallGroup marks an entry holding a tool-call forest.
	RoleToolCallGroup Role = "tool_call_group"
	// RolePermissionRequest marks a pending human-in-the-loop decision.
	RolePermissionRequest Role = "permission_request"
)

// ChatEntry is one unit in the ordered conversation log.
type ChatEntry struct {
	// ID uniquely identifies the entry.
	ID string
	// Role labels the entry origin.
	Role Role
	// Content is the accumulated text. Streaming roles append into it.
	Content string
	// Timestamp records creation time.
	Timestamp time.Time
	// ToolCalls holds the top-level tool-call nodes, tool_call_group only.
	ToolCalls []*ToolCallNode
	// Permission holds the request details, permission_request only.
	Permission *PermissionRequest
}

// ToolCallNode is one tool invocation, possibly nested under a parent when
// the agent delegates to a sub-agent.
type ToolCallNode struct {
	// ToolCallID is the stable identity key for upserts.
	ToolCallID string
	// Title is the display title reported by the agent.
	Title string
	// Kind categorizes the invocation (edit, execute, fetch, ...).
	Kind string
	// Status is the normalized three-state status.
	Status payload.Status
	// Content is display text extracted from the tool output.
	Content string
	// Locations is passed through opaquely for the rendering layer.
	Locations []any
	// ToolName is the raw tool name when reported.
	ToolName string
	// PromptText carries the delegated prompt for sub-agent calls.
	PromptText string
	// ParentToolCallID links the node under its parent, when nested.
	ParentToolCallID string
	// Children holds nested invocations in first-seen order.
	Children []*ToolCallNode
}

// PermissionOption is one selectable answer to a permission request.
type PermissionOption struct {
	// Kind classifies the option (allow_once, reject_always, ...).
	Kind string
	// Name is the display label.
	Name string
	// OptionID is echoed back to the agent on selection.
	OptionID string
}

// PermissionRequest is the payload of a permission_request entry. It wraps
// one inbound server request that must be answered exactly once.
type PermissionRequest struct {
	// JSONRPCID is the inbound request id the eventual response echoes.
	JSONRPCID any
	// Options lists the selectable answers in protocol order.
	Options []PermissionOption
	// ToolCallID identifies the tool call being authorized.
	ToolCallID string
	// Title describes what is being authorized.
	Title string
	// RawInput is the tool input snapshot for display.
	RawInput map[string]any
	// Questions holds the original question set for question-style
	// requests; it is echoed back verbatim in the answer.
	Questions []any
	// IsQuestion marks a structured ask-user-question request.
	IsQuestion bool
	// Resolved latches one-way from false to true.
	Resolved bool
	// SelectedOptionID records the chosen option at resolution.
	SelectedOptionID string
	// Answers records the answer map for question-style requests.
	Answers map[string]any
}

// RoundMetrics tracks one prompt/response round, keyed by the id of the
// user entry that opened it.
type RoundMetrics struct {
	// StartedAt is when the prompt was sent.
	StartedAt time.Time
	// EndedAt is when the terminal stop reason arrived; zero while open.
	EndedAt time.Time
	// Status is the round lifecycle status.
	Status payload.RoundStatus
	// ModelLabel names the model active when the round opened.
	ModelLabel string
	// Usage accumulates merged token and cost data.
	Usage payload.Usage
}

// AgentState summarizes what the remote agent is currently doing.
type AgentState string

const (
	// AgentIdle means no round is in flight.
	AgentIdle AgentState = "idle"
	// AgentThinking means a prompt was sent or thought text is streaming.
	AgentThinking AgentState = "thinking"
	// AgentToolCalling means tool-call updates are arriving.
	AgentToolCalling AgentState = "tool_calling"
	// AgentResponding means reply text is streaming.
	AgentResponding AgentState = "responding"
	// AgentAwaitingPermission means a permission request is unresolved.
	AgentAwaitingPermission AgentState = "awaiting_permission"
)

// Status is the connection lifecycle state.
type Status string

const (
	// StatusDisconnected is the initial and post-close state.
	StatusDisconnected Status = "disconnected"
	// StatusConnecting covers the dial window.
	StatusConnecting Status = "connecting"
	// StatusConnected means the transport is up.
	StatusConnected Status = "connected"
	// StatusError marks a failed connection; reconnection is manual.
	StatusError Status = "error"
)

// cloneToolCalls deep-copies a tool-call forest for snapshots.
func cloneToolCalls(nodes []*ToolCallNode) []*ToolCallNode {
	if len(nodes) == 0 {
		return nil
	}
	cloned := make([]*ToolCallNode, 0, len(nodes))
	for _, node := range nodes {
		copied := *node
		copied.Locations = append([]any(nil), node.Locations...)
		copied.Children = cloneToolCalls(node.Children)
		cloned = append(cloned, &copied)
	}
	return cloned
}

// cloneEntry deep-copies a chat entry for snapshots.
func cloneEntry(entry *ChatEntry) ChatEntry {
	copied := *entry
	copied.ToolCalls = cloneToolCalls(entry.ToolCalls)
	if entry.Permission != nil {
		permission := *entry.Permission
		permission.Options = append([]PermissionOption(nil), entry.Permission.Options...)
		copied.Permission = &permission
	}
	return copied
}
