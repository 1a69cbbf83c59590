package gateway

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewChatResponse(t *testing.T) {
	usage := json.RawMessage(`{"prompt_tokens":5,"completion_tokens":7,"total_tokens":12}`)
	before := time.Now().Unix()
	resp := NewChatResponse("openai/gpt-oss-20b", "Hello! How can I help?", usage)

	if resp.Object != ObjectChatCompletion {
		t.Errorf("Object = %q, want %q", resp.Object, ObjectChatCompletion)
	}
	if resp.Created < before || resp.Created > time.Now().Unix() {
		t.Errorf("Created = %d, want server-side current time", resp.Created)
	}
	if resp.Model != "openai/gpt-oss-20b" {
		t.Errorf("Model = %q", resp.Model)
	}
	if len(resp.Choices) != 1 {
		t.Fatalf("len(Choices) = %d, want 1", len(resp.Choices))
	}
	choice := resp.Choices[0]
	if choice.FinishReason != "stop" {
		t.Errorf("FinishReason = %q, want stop", choice.FinishReason)
	}
	if choice.Message.Role != RoleAssistant {
		t.Errorf("Role = %q, want assistant", choice.Message.Role)
	}
}

func TestNewChatResponseOmitsAbsentUsage(t *testing.T) {
	resp := NewChatResponse("m", "c", nil)

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"usage"`) {
		t.Errorf("usage should be omitted when upstream reported none: %s", data)
	}
}

func TestNewCompletionID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewCompletionID()
		if !strings.HasPrefix(id, "chatcmpl-") {
			t.Fatalf("id %q missing chatcmpl- prefix", id)
		}
		if len(id) != len("chatcmpl-")+29 {
			t.Fatalf("id %q has wrong length %d", id, len(id))
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindAuth, 401},
		{KindMissingRoutingKey, 400},
		{KindUnknownProvider, 404},
		{KindMalformedRequest, 400},
		{KindInvalidRole, 400},
		{KindCredentialLoad, 500},
		{KindUpstreamNetwork, 502},
		{KindUpstreamNonJSON, 502},
		{KindUnexpected, 500},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := NewError(tt.kind, "boom")
			if got := err.HTTPStatus(); got != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.status)
			}
		})
	}
}
