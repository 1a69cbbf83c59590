package gateway

import (
	"encoding/json"
	"fmt"
)

// Message roles accepted on inbound requests.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the gateway's canonical chat-completion request. Model and
// Messages are pulled out of the JSON body; every other top-level field is
// preserved in Extra so it can be forwarded (or overridden by query
// parameters) without the gateway having to know about it.
type ChatRequest struct {
	Model    string
	Messages []Message
	Extra    map[string]any
}

// UnmarshalJSON decodes the OpenAI-style payload, splitting known fields
// from the open parameter mapping.
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["model"]; ok {
		if err := json.Unmarshal(v, &r.Model); err != nil {
			return fmt.Errorf("field 'model': %w", err)
		}
		delete(raw, "model")
	}

	if v, ok := raw["messages"]; ok {
		if err := json.Unmarshal(v, &r.Messages); err != nil {
			return fmt.Errorf("field 'messages': %w", err)
		}
		delete(raw, "messages")
	}

	r.Extra = make(map[string]any, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		r.Extra[k] = val
	}

	return nil
}

// Validate checks the canonical-request invariants: a non-empty message
// sequence and only recognized roles. It runs before any outbound call.
func (r *ChatRequest) Validate() *Error {
	if len(r.Messages) == 0 {
		return NewError(KindMalformedRequest, "'messages' must be a non-empty array")
	}
	for i, msg := range r.Messages {
		if !ValidRole(msg.Role) {
			return NewError(KindInvalidRole, "message %d has unsupported role %q", i, msg.Role)
		}
	}
	return nil
}

// ValidRole reports whether role is one of the three recognized chat roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Payload flattens the request back into the wire shape sent to forwarding
// providers: model, messages, and every extra parameter at the top level.
func (r *ChatRequest) Payload() map[string]any {
	payload := make(map[string]any, len(r.Extra)+2)
	for k, v := range r.Extra {
		payload[k] = v
	}
	payload["model"] = r.Model

	messages := make([]map[string]any, len(r.Messages))
	for i, m := range r.Messages {
		messages[i] = map[string]any{"role": m.Role, "content": m.Content}
	}
	payload["messages"] = messages

	return payload
}

// FloatParam returns a float parameter from Extra, accepting both float and
// integer JSON values, or fallback when the key is absent or not numeric.
func (r *ChatRequest) FloatParam(key string, fallback float64) float64 {
	switch v := r.Extra[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return fallback
}

// IntParam returns an integer parameter from Extra, or 0 when absent.
// JSON numbers decode as float64; coerced query parameters arrive as int64.
func (r *ChatRequest) IntParam(key string) int {
	switch v := r.Extra[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
