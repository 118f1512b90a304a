package llmtools

import (
	"context"
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Tool is the narrow agent-tool capability: a stable name, a concise
// description, and a single-string-in/single-string-out invocation. Invoke
// never returns an error; failures are surfaced as descriptive text because
// the transcript is the only channel back to the model.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, input string) string
}

// ToolSpec captures a single callable tool exposed to the model.
// Name must be a stable, lowercase, snake_case identifier.
type ToolSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolCall is a simplified representation of a tool call returned by the model.
// Arguments holds the raw JSON argument object for the call.
type ToolCall struct {
	ID        string          // provider-assigned call id
	Name      string          // function name
	Arguments json.RawMessage // raw JSON arguments
}

// singleStringSchema is the argument schema shared by every tool: one
// free-form input string, either a bare URL or a serialized parameter object.
var singleStringSchema = json.RawMessage(`{
	"type":"object",
	"properties":{ "input": {"type":"string"} },
	"required":["input"]
}`)

// EncodeTools converts ToolSpec entries into an OpenAI-compatible tools array.
func EncodeTools(specs []ToolSpec) []openai.Tool {
	out := make([]openai.Tool, 0, len(specs))
	for _, s := range specs {
		out = append(out, openai.Tool{
			Type: "function",
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  singleStringSchema,
			},
		})
	}
	return out
}

// ParseToolCalls extracts function tool calls from a chat completion response.
func ParseToolCalls(resp openai.ChatCompletionResponse) []ToolCall {
	if len(resp.Choices) == 0 {
		return nil
	}
	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return nil
	}
	out := make([]ToolCall, 0, len(msg.ToolCalls))
	for _, tc := range msg.ToolCalls {
		if tc.Type != "function" {
			continue
		}
		out = append(out, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return out
}

// DecodeInput recovers the tool input string from raw call arguments.
// Models occasionally send a bare JSON string instead of the {"input": ...}
// object; both forms are accepted.
func DecodeInput(args json.RawMessage) string {
	var obj struct {
		Input string `json:"input"`
	}
	if err := json.Unmarshal(args, &obj); err == nil && obj.Input != "" {
		return obj.Input
	}
	var s string
	if err := json.Unmarshal(args, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(args))
}
