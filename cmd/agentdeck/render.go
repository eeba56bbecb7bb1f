package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agentdeck/agentdeck/internal/client"
	"github.com/agentdeck/agentdeck/internal/payload"
)

// statusGlyph maps a tool status onto a compact ASCII marker.
func statusGlyph(status payload.Status) string {
	switch status {
	case payload.StatusCompleted:
		return "[ok]"
	case payload.StatusError:
		return "[!!]"
	default:
		return "[..]"
	}
}

// renderToolTree formats a tool-call forest with two-space indentation per
// nesting level.
func renderToolTree(nodes []*client.ToolCallNode, depth int) string {
	var lines []string
	renderToolNodes(&lines, nodes, depth)
	return strings.Join(lines, "\n")
}

func renderToolNodes(lines *[]string, nodes []*client.ToolCallNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, node := range nodes {
		title := node.Title
		if title == "" {
			title = node.ToolName
		}
		if title == "" {
			title = node.ToolCallID
		}
		line := fmt.Sprintf("%s%s %s", indent, statusGlyph(node.Status), title)
		if node.PromptText != "" {
			line = fmt.Sprintf("%s: %s", line, firstLine(node.PromptText))
		}
		*lines = append(*lines, line)
		if node.Content != "" {
			for _, contentLine := range strings.Split(node.Content, "\n") {
				*lines = append(*lines, indent+"     "+contentLine)
			}
		}
		renderToolNodes(lines, node.Children, depth+1)
	}
}

// renderPermission formats a permission request with numbered options.
func renderPermission(request *client.PermissionRequest) string {
	if request == nil {
		return ""
	}
	var builder strings.Builder
	title := request.Title
	if title == "" {
		title = "Permission requested"
	}
	builder.WriteString("? " + title)
	if request.IsQuestion {
		for _, raw := range request.Questions {
			question, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := question["question"].(string); ok && text != "" {
				builder.WriteString("\n  " + text)
			}
		}
		if request.Resolved {
			builder.WriteString("\n  -> answered")
		} else {
			builder.WriteString("\n  (type an answer and press Enter)")
		}
		return builder.String()
	}
	for index, option := range request.Options {
		marker := fmt.Sprintf("%d", index+1)
		if request.Resolved && option.OptionID == request.SelectedOptionID {
			marker = ">"
		}
		builder.WriteString(fmt.Sprintf("\n  %s. %s", marker, option.Name))
	}
	if request.Resolved {
		builder.WriteString(fmt.Sprintf("\n  -> %s", request.SelectedOptionID))
	} else {
		builder.WriteString("\n  (press a number, y/n, or esc)")
	}
	return builder.String()
}

// formatRound summarizes a finished round for display under its prompt.
func formatRound(round client.RoundMetrics) string {
	if round.EndedAt.IsZero() {
		return ""
	}
	parts := []string{string(round.Status)}
	if duration := round.EndedAt.Sub(round.StartedAt); duration > 0 {
		parts = append(parts, duration.Round(100*time.Millisecond).String())
	}
	if usage := formatUsage(round.Usage); usage != "" {
		parts = append(parts, usage)
	}
	if round.ModelLabel != "" {
		parts = append(parts, round.ModelLabel)
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

// formatUsage renders token and cost counters, skipping absent fields.
func formatUsage(usage payload.Usage) string {
	var parts []string
	if usage.InputTokens != nil {
		parts = append(parts, fmt.Sprintf("%d in", *usage.InputTokens))
	}
	if usage.OutputTokens != nil {
		parts = append(parts, fmt.Sprintf("%d out", *usage.OutputTokens))
	}
	if usage.CostUSD != nil {
		parts = append(parts, fmt.Sprintf("$%.4f", *usage.CostUSD))
	}
	return strings.Join(parts, " / ")
}

// totalUsageLine sums completed-round usage for the status bar.
func totalUsageLine(rounds map[string]client.RoundMetrics) string {
	var inputTokens, outputTokens int64
	var cost float64
	found := false

	keys := make([]string, 0, len(rounds))
	for key := range rounds {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		round := rounds[key]
		if round.Usage.InputTokens != nil {
			inputTokens += *round.Usage.InputTokens
			found = true
		}
		if round.Usage.OutputTokens != nil {
			outputTokens += *round.Usage.OutputTokens
			found = true
		}
		if round.Usage.CostUSD != nil {
			cost += *round.Usage.CostUSD
			found = true
		}
	}
	if !found {
		return ""
	}
	line := fmt.Sprintf("tokens:%d/%d", inputTokens, outputTokens)
	if cost > 0 {
		line = fmt.Sprintf("%s cost:$%.4f", line, cost)
	}
	return line
}

// firstLine truncates text to its first line for compact display.
func firstLine(text string) string {
	if index := strings.IndexByte(text, '\n'); index >= 0 {
		return text[:index] + "..."
	}
	return text
}
