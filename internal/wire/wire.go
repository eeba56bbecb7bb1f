package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// Counter allocates strictly increasing request ids.
// It is injected into the codec so tests can construct a fresh counter
// instead of relying on process-wide state. Reconnecting must not reset it:
// stale responses from a previous connection can then never collide with a
// new request id.
type Counter struct {
	last atomic.Int64
}

// Next returns the next request id.
func (c *Counter) Next() int64 {
	return c.last.Add(1)
}

// Request is an outgoing JSON-RPC 2.0 request envelope.
type Request struct {
	// JSONRPC is always "2.0".
	JSONRPC string `json:"jsonrpc"`
	// ID correlates the eventual response.
	ID int64 `json:"id"`
	// Method names the remote operation.
	Method string `json:"method"`
	// Params carries the method parameters.
	Params any `json:"params,omitempty"`
}

// Notification is an outgoing JSON-RPC 2.0 notification envelope (no id).
type Notification struct {
	// JSONRPC is always "2.0".
	JSONRPC string `json:"jsonrpc"`
	// Method names the remote operation.
	Method string `json:"method"`
	// Params carries the method parameters.
	Params any `json:"params,omitempty"`
}

// Response is an outgoing JSON-RPC 2.0 response answering a server request.
type Response struct {
	// JSONRPC is always "2.0".
	JSONRPC string `json:"jsonrpc"`
	// ID echoes the inbound request id.
	ID any `json:"id"`
	// Result carries the response payload.
	Result any `json:"result,omitempty"`
}

// ErrorObject is a JSON-RPC 2.0 error object.
type ErrorObject struct {
	// Code is the JSON-RPC error code.
	Code int `json:"code"`
	// Message is a short error description.
	Message string `json:"message"`
	// Data carries optional error details.
	Data any `json:"data,omitempty"`
}

// EncodeRequest serializes a request envelope drawing its id from counter.
// It returns the wire bytes and the allocated id.
func EncodeRequest(counter *Counter, method string, params any) ([]byte, int64, error) {
	id := counter.Next()
	data, err := json.Marshal(Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("encode request %s: %w", method, err)
	}
	return data, id, nil
}

// EncodeNotification serializes a notification envelope.
func EncodeNotification(method string, params any) ([]byte, error) {
	data, err := json.Marshal(Notification{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("encode notification %s: %w", method, err)
	}
	return data, nil
}

// EncodeResponse serializes a response to a server-initiated request.
func EncodeResponse(id any, result any) ([]byte, error) {
	data, err := json.Marshal(Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return data, nil
}

// FrameKind discriminates decoded inbound frames.
type FrameKind int

const (
	// FrameRaw marks a payload that is not valid JSON. It is retained
	// verbatim for diagnostics and never fed to the state machine.
	FrameRaw FrameKind = iota
	// FrameServerRequest marks an inbound request (method and id present).
	FrameServerRequest
	// FrameResponse marks a successful response (result, no method).
	FrameResponse
	// FrameError marks an error response (error, no method).
	FrameError
	// FrameNotification marks a notification (method, no id).
	FrameNotification
)

// Frame is one decoded inbound message.
type Frame struct {
	// Kind discriminates the variant.
	Kind FrameKind
	// ID is the request or response id, when present.
	ID any
	// Method is the request or notification method, when present.
	Method string
	// Params carries request/notification parameters.
	Params map[string]any
	// Result carries a successful response payload.
	Result map[string]any
	// Error carries an error response payload.
	Error *ErrorObject
	// Raw retains the original payload text.
	Raw string
}

// inboundEnvelope is the loose shape every inbound JSON-RPC message fits.
type inboundEnvelope struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Params map[string]any  `json:"params"`
	Result json.RawMessage `json:"result"`
	Error  *ErrorObject    `json:"error"`
}

// Decode classifies a raw inbound payload into a Frame variant.
// Payloads that do not parse as a JSON object come back as FrameRaw.
func Decode(raw []byte) Frame {
	trimmed := bytes.TrimSpace(raw)
	var envelope inboundEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return Frame{Kind: FrameRaw, Raw: string(raw)}
	}

	switch {
	case envelope.Method != "" && envelope.ID != nil:
		return Frame{
			Kind:   FrameServerRequest,
			ID:     envelope.ID,
			Method: envelope.Method,
			Params: envelope.Params,
			Raw:    string(raw),
		}
	case envelope.Method != "":
		return Frame{
			Kind:   FrameNotification,
			Method: envelope.Method,
			Params: envelope.Params,
			Raw:    string(raw),
		}
	case envelope.Error != nil:
		return Frame{
			Kind:  FrameError,
			ID:    envelope.ID,
			Error: envelope.Error,
			Raw:   string(raw),
		}
	case envelope.Result != nil:
		result := map[string]any{}
		// Non-object results (null, strings) decode to an empty map so the
		// router still sees the response id.
		_ = json.Unmarshal(envelope.Result, &result)
		return Frame{
			Kind:   FrameResponse,
			ID:     envelope.ID,
			Result: result,
			Raw:    string(raw),
		}
	default:
		return Frame{Kind: FrameRaw, Raw: string(raw)}
	}
}

// ResponseID normalizes a decoded response id for comparison against the
// int64 ids allocated by Counter. JSON numbers decode as float64.
func ResponseID(id any) (int64, bool) {
	switch typed := id.(type) {
	case float64:
		return int64(typed), true
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case json.Number:
		value, err := typed.Int64()
		if err != nil {
			return 0, false
		}
		return value, true
	default:
		return 0, false
	}
}
