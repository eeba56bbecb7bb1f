package payload

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Status is the normalized tool-call status.
type Status string

const (
	// StatusRunning covers pending, in-progress, and unknown statuses.
	StatusRunning Status = "running"
	// StatusCompleted marks a successfully finished tool call.
	StatusCompleted Status = "completed"
	// StatusError marks a failed or cancelled tool call.
	StatusError Status = "error"
)

// ToolStatus maps a raw agent-reported status onto the three-state model.
// Unknown strings default to running so a newer agent never breaks the
// client.
func ToolStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "done", "success":
		return StatusCompleted
	case "failed", "error", "cancelled":
		return StatusError
	default:
		return StatusRunning
	}
}

// RoundStatus is the terminal status of one prompt/response round.
type RoundStatus string

const (
	// RoundProcessing marks a round still awaiting its stop reason.
	RoundProcessing RoundStatus = "processing"
	// RoundCompleted marks a normally finished round.
	RoundCompleted RoundStatus = "completed"
	// RoundCancelled marks an interrupted round.
	RoundCancelled RoundStatus = "cancelled"
	// RoundError marks a failed round.
	RoundError RoundStatus = "error"
)

// StopStatus maps a free-text stop reason onto a round status. The substring
// heuristic is inherited from the agents in the wild and kept verbatim for
// compatibility.
func StopStatus(stopReason string) RoundStatus {
	lowered := strings.ToLower(stopReason)
	if strings.Contains(lowered, "cancel") || strings.Contains(lowered, "interrupt") {
		return RoundCancelled
	}
	if strings.Contains(lowered, "error") || strings.Contains(lowered, "fail") {
		return RoundError
	}
	return RoundCompleted
}

// ContentText extracts display text from the loosely shaped content field of
// tool-call payloads. It accepts a plain string, {text}, {content:{text}},
// or an ordered list of typed items. The second return is false when nothing
// was extracted; callers must then leave existing content untouched.
func ContentText(payload any) (string, bool) {
	switch typed := payload.(type) {
	case string:
		if typed == "" {
			return "", false
		}
		return typed, true
	case map[string]any:
		if text, ok := typed["text"].(string); ok && text != "" {
			return text, true
		}
		if nested, ok := typed["content"].(map[string]any); ok {
			if text, ok := nested["text"].(string); ok && text != "" {
				return text, true
			}
		}
		return "", false
	case []any:
		var fragments []string
		for _, item := range typed {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if fragment, ok := contentItemText(entry); ok {
				fragments = append(fragments, fragment)
			}
		}
		if len(fragments) == 0 {
			return "", false
		}
		return strings.Join(fragments, "\n"), true
	default:
		return "", false
	}
}

// contentItemText extracts text from one typed content item.
func contentItemText(item map[string]any) (string, bool) {
	switch item["type"] {
	case "content":
		if nested, ok := item["content"].(map[string]any); ok {
			if text, ok := nested["text"].(string); ok && text != "" {
				return text, true
			}
		}
	case "diff":
		if path, ok := item["path"].(string); ok && path != "" {
			return "Updated " + path, true
		}
	case "terminal":
		if terminalID, ok := item["terminalId"].(string); ok && terminalID != "" {
			return "Terminal " + terminalID, true
		}
	}
	return "", false
}

// Usage holds per-round token and cost accounting. Fields are pointers so a
// later partial payload merges without clobbering earlier values.
type Usage struct {
	// InputTokens counts prompt-side tokens.
	InputTokens *int64
	// OutputTokens counts completion-side tokens.
	OutputTokens *int64
	// CacheReadTokens counts tokens served from prompt cache.
	CacheReadTokens *int64
	// CacheWriteTokens counts tokens written to prompt cache.
	CacheWriteTokens *int64
	// CostUSD is the reported dollar cost.
	CostUSD *float64
}

// Merge applies the present fields of overlay on top of the receiver.
// Absent overlay fields never clear existing values.
func (u *Usage) Merge(overlay *Usage) {
	if overlay == nil {
		return
	}
	if overlay.InputTokens != nil {
		u.InputTokens = overlay.InputTokens
	}
	if overlay.OutputTokens != nil {
		u.OutputTokens = overlay.OutputTokens
	}
	if overlay.CacheReadTokens != nil {
		u.CacheReadTokens = overlay.CacheReadTokens
	}
	if overlay.CacheWriteTokens != nil {
		u.CacheWriteTokens = overlay.CacheWriteTokens
	}
	if overlay.CostUSD != nil {
		u.CostUSD = overlay.CostUSD
	}
}

// UsageFrom reads usage out of a loosely shaped payload, tolerating both
// camelCase and snake_case field names. It returns false only when every
// field is absent.
func UsageFrom(payload map[string]any) (*Usage, bool) {
	if payload == nil {
		return nil, false
	}
	usage := &Usage{}
	found := false
	if value, ok := intField(payload, "inputTokens", "input_tokens"); ok {
		usage.InputTokens = &value
		found = true
	}
	if value, ok := intField(payload, "outputTokens", "output_tokens"); ok {
		usage.OutputTokens = &value
		found = true
	}
	if value, ok := intField(payload, "cacheReadTokens", "cache_read_tokens", "cacheReadInputTokens", "cache_read_input_tokens"); ok {
		usage.CacheReadTokens = &value
		found = true
	}
	if value, ok := intField(payload, "cacheWriteTokens", "cache_write_tokens", "cacheCreationInputTokens", "cache_creation_input_tokens"); ok {
		usage.CacheWriteTokens = &value
		found = true
	}
	if value, ok := floatField(payload, "costUsd", "cost_usd", "totalCostUsd", "total_cost_usd"); ok {
		usage.CostUSD = &value
		found = true
	}
	if !found {
		return nil, false
	}
	return usage, true
}

// Option is one selectable mode or model entry.
type Option struct {
	// ID is the protocol identifier sent back on selection.
	ID string
	// Name is the human-readable label.
	Name string
	// Description is optional explanatory text.
	Description string
}

// SelectionState is a validated mode or model catalog.
type SelectionState struct {
	// CurrentID is the active option id.
	CurrentID string
	// Options lists the available choices in catalog order.
	Options []Option
}

// ModeState validates a session-mode catalog payload. A payload without a
// current id or without any valid option is treated as absent so fallback
// defaults remain in place.
func ModeState(payload map[string]any) (*SelectionState, bool) {
	return selectionState(payload, "currentModeId", "availableModes")
}

// ModelState validates a session-model catalog payload.
func ModelState(payload map[string]any) (*SelectionState, bool) {
	return selectionState(payload, "currentModelId", "availableModels")
}

// selectionState reads a {currentXId, availableXs} catalog shape.
func selectionState(payload map[string]any, currentKey string, optionsKey string) (*SelectionState, bool) {
	if payload == nil {
		return nil, false
	}
	currentID, ok := payload[currentKey].(string)
	if !ok || currentID == "" {
		return nil, false
	}
	rawOptions, ok := payload[optionsKey].([]any)
	if !ok || len(rawOptions) == 0 {
		return nil, false
	}

	var options []Option
	for _, raw := range rawOptions {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		id := StringField(entry, "id", "modeId", "modelId")
		if id == "" {
			continue
		}
		options = append(options, Option{
			ID:          id,
			Name:        StringField(entry, "name", "label"),
			Description: StringField(entry, "description"),
		})
	}
	if len(options) == 0 {
		return nil, false
	}
	return &SelectionState{CurrentID: currentID, Options: options}, true
}

// StringField extracts the first matching string field from a map.
func StringField(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := payload[key].(string); ok {
			return value
		}
	}
	return ""
}

// MapField extracts the first matching object field from a map.
func MapField(payload map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if value, ok := payload[key].(map[string]any); ok {
			return value
		}
	}
	return nil
}

// intField extracts a finite integer under any of the given keys.
func intField(payload map[string]any, keys ...string) (int64, bool) {
	value, ok := floatField(payload, keys...)
	if !ok {
		return 0, false
	}
	return int64(value), true
}

// floatField extracts a finite number under any of the given keys, coercing
// numeric strings as some agents emit token counts as strings.
func floatField(payload map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		switch typed := raw.(type) {
		case float64:
			if math.IsNaN(typed) || math.IsInf(typed, 0) {
				continue
			}
			return typed, true
		case int:
			return float64(typed), true
		case int64:
			return float64(typed), true
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
			if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
				continue
			}
			return parsed, true
		case fmt.Stringer:
			parsed, err := strconv.ParseFloat(typed.String(), 64)
			if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
				continue
			}
			return parsed, true
		}
	}
	return 0, false
}
