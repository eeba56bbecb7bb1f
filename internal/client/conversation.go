package client

import (
	"time"

	"github.com/google/uuid"

	"github.com/agentdeck/agentdeck/internal/payload"
)

// askUserQuestionTool is the structured-question tool name. Its invocations
// never render as tool calls; the interaction surfaces through the
// permission flow instead.
const askUserQuestionTool = "AskUserQuestion"

// conversation folds session/update notifications into the ordered chat
// log. Tool-call nodes live in a flat index keyed by toolCallId so partial
// updates can reach any node regardless of nesting depth, while entry and
// children slices preserve first-seen order for rendering.
//
// Callers hold the client mutex; nothing here locks.
type conversation struct {
	entries []*ChatEntry
	// nodes indexes every tool-call node across all groups.
	nodes map[string]*ToolCallNode
	// streamEntry receives appended text while a stream is open.
	streamEntry *ChatEntry
	streamRole  Role
	// openGroup receives new top-level tool calls until text starts.
	openGroup *ChatEntry
	// newID yields entry ids, swappable in tests.
	newID func() string
	// now yields timestamps, swappable in tests.
	now func() time.Time
}

func newConversation() *conversation {
	return &conversation{
		nodes: make(map[string]*ToolCallNode),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// reset drops the whole log and all folding state.
func (c *conversation) reset() {
	c.entries = nil
	c.nodes = make(map[string]*ToolCallNode)
	c.streamEntry = nil
	c.streamRole = ""
	c.openGroup = nil
}

// append adds a complete, non-streaming entry. It closes any open text
// stream and tool group so later chunks start fresh.
func (c *conversation) append(role Role, content string) *ChatEntry {
	c.endStream()
	c.openGroup = nil
	entry := &ChatEntry{
		ID:        c.newID(),
		Role:      role,
		Content:   content,
		Timestamp: c.now(),
	}
	c.entries = append(c.entries, entry)
	return entry
}

// appendStream adds streamed text. Consecutive chunks of the same role
// accumulate into one entry; a role change opens a new entry. Text starting
// also closes the open tool group, so a later tool call begins a new group.
func (c *conversation) appendStream(role Role, text string) *ChatEntry {
	if c.streamEntry != nil && c.streamRole == role {
		c.streamEntry.Content += text
		return c.streamEntry
	}
	c.openGroup = nil
	entry := &ChatEntry{
		ID:        c.newID(),
		Role:      role,
		Content:   text,
		Timestamp: c.now(),
	}
	c.entries = append(c.entries, entry)
	c.streamEntry = entry
	c.streamRole = role
	return entry
}

// endStream closes the open text stream. The open tool group survives so a
// tool update after a finalized reply still lands in its original group.
func (c *conversation) endStream() {
	c.streamEntry = nil
	c.streamRole = ""
}

// upsertToolCall merges one tool_call or tool_call_update payload into the
// forest. Updates are partial: only fields present in the payload change,
// so replays and out-of-order deliveries are idempotent.
func (c *conversation) upsertToolCall(update map[string]any) *ToolCallNode {
	toolName := payload.StringField(update, "toolName", "tool_name", "name")
	title := payload.StringField(update, "title")
	if toolName == askUserQuestionTool || title == askUserQuestionTool {
		return nil
	}

	id := payload.StringField(update, "toolCallId", "tool_call_id", "id")
	if id == "" {
		id = c.newID()
	}

	node, exists := c.nodes[id]
	if !exists {
		node = &ToolCallNode{
			ToolCallID: id,
			Status:     payload.StatusRunning,
		}
		c.nodes[id] = node
		c.attach(node, payload.StringField(update, "parentToolCallId", "parent_tool_call_id"))
	}

	if title != "" {
		node.Title = title
	}
	if toolName != "" {
		node.ToolName = toolName
	}
	if kind := payload.StringField(update, "kind"); kind != "" {
		node.Kind = kind
	}
	if rawStatus := payload.StringField(update, "status"); rawStatus != "" {
		node.Status = payload.ToolStatus(rawStatus)
	}
	if text, ok := payload.ContentText(update["content"]); ok {
		node.Content = text
	}
	if locations, ok := update["locations"].([]any); ok && len(locations) > 0 {
		node.Locations = locations
	}
	if prompt := payload.StringField(update, "promptText", "prompt_text"); prompt != "" {
		node.PromptText = prompt
	} else if rawInput := payload.MapField(update, "rawInput", "raw_input"); rawInput != nil {
		if prompt := payload.StringField(rawInput, "prompt"); prompt != "" {
			node.PromptText = prompt
		}
	}

	// A tool update ends any text stream; the next chunk is a new entry.
	c.endStream()
	return node
}

// attach places a new node either under its parent, when the parent is
// already known, or at the top of the open group. A missing group means a
// new tool_call_group entry starts here.
func (c *conversation) attach(node *ToolCallNode, parentID string) {
	if parentID != "" {
		if parent, ok := c.nodes[parentID]; ok {
			node.ParentToolCallID = parentID
			parent.Children = append(parent.Children, node)
			return
		}
	}
	if c.openGroup == nil {
		c.openGroup = &ChatEntry{
			ID:        c.newID(),
			Role:      RoleToolCallGroup,
			Timestamp: c.now(),
		}
		c.entries = append(c.entries, c.openGroup)
	}
	c.openGroup.ToolCalls = append(c.openGroup.ToolCalls, node)
}

// findEntry returns the entry with the given id, or nil.
func (c *conversation) findEntry(id string) *ChatEntry {
	for _, entry := range c.entries {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}
