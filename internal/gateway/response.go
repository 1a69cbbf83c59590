package gateway

import (
	"crypto/rand"
	"encoding/json"
	"time"
)

// ObjectChatCompletion is the literal object tag carried by every response.
const ObjectChatCompletion = "chat.completion"

// Choice is one completion alternative. The gateway's SDK-backed providers
// always produce exactly one.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatResponse is the canonical chat-completion response. Usage is carried
// opaquely: whatever token accounting the upstream reported, or omitted
// entirely when it reported none.
type ChatResponse struct {
	ID      string          `json:"id"`
	Object  string          `json:"object"`
	Created int64           `json:"created"`
	Model   string          `json:"model"`
	Choices []Choice        `json:"choices"`
	Usage   json.RawMessage `json:"usage,omitempty"`
}

// NewChatResponse assembles a fresh canonical response around a single
// assistant reply. The id is newly generated and created is the current
// server time, regardless of anything the upstream reported.
func NewChatResponse(model, content string, usage json.RawMessage) *ChatResponse {
	return &ChatResponse{
		ID:      NewCompletionID(),
		Object:  ObjectChatCompletion,
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []Choice{
			{
				Index:        0,
				Message:      Message{Role: RoleAssistant, Content: content},
				FinishReason: "stop",
			},
		},
		Usage: usage,
	}
}

const completionIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

// NewCompletionID returns an OpenAI-shaped completion id: "chatcmpl-"
// followed by 29 random alphanumerics.
func NewCompletionID() string {
	buf := make([]byte, 29)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = completionIDAlphabet[int(b)%len(completionIDAlphabet)]
	}
	return "chatcmpl-" + string(buf)
}
