package llmtools

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// ChatClient abstracts the OpenAI client dependency for testability.
// It mirrors the minimal method we use across the codebase.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Orchestrator coordinates a tool-enabled chat loop until a final answer.
// It sends tool specs, invokes any returned tool calls via the registry,
// appends tool results as role=tool messages, and stops on final assistant
// text. Tool failures never break the loop; they travel back to the model as
// descriptive text, matching the tools' error-as-string calling convention.
type Orchestrator struct {
	Client   ChatClient
	Registry *Registry
	// MaxToolCalls limits the total number of tool calls executed during a
	// single Run. If zero or negative, a default of 8 is used.
	MaxToolCalls int
}

// Run executes the orchestration loop.
// baseReq supplies Model and other request settings; Messages and Tools are
// managed here. Returns the final assistant text and the transcript used.
func (o *Orchestrator) Run(ctx context.Context, baseReq openai.ChatCompletionRequest, system, user string) (string, []openai.ChatCompletionMessage, error) {
	if o.Client == nil {
		return "", nil, fmt.Errorf("orchestrator: Client is nil")
	}
	if o.Registry == nil {
		return "", nil, fmt.Errorf("orchestrator: Registry is nil")
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: user})

	tools := EncodeTools(o.Registry.Specs())
	maxCalls := o.MaxToolCalls
	if maxCalls <= 0 {
		maxCalls = 8
	}
	toolCallsUsed := 0

	for {
		req := baseReq
		req.Messages = messages
		req.Tools = tools

		resp, err := o.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", messages, err
		}
		if len(resp.Choices) == 0 {
			return "", messages, fmt.Errorf("orchestrator: empty choices from model")
		}
		assistantMsg := resp.Choices[0].Message
		messages = append(messages, assistantMsg)

		calls := ParseToolCalls(resp)
		if len(calls) == 0 {
			return assistantMsg.Content, messages, nil
		}
		if toolCallsUsed+len(calls) > maxCalls {
			return "", messages, fmt.Errorf("orchestrator: max tool calls exceeded: used=%d, pending=%d, max=%d", toolCallsUsed, len(calls), maxCalls)
		}

		for _, call := range calls {
			started := time.Now()
			var result string
			if tool, ok := o.Registry.Get(call.Name); ok {
				result = tool.Invoke(ctx, DecodeInput(call.Arguments))
			} else {
				result = "Error: unknown tool " + call.Name
			}
			log.Info().
				Str("stage", "tool").
				Str("tool", call.Name).
				Str("tool_call_id", call.ID).
				Int("args_bytes", len(call.Arguments)).
				Int("result_bytes", len(result)).
				Int64("duration_ms", time.Since(started).Milliseconds()).
				Msg("tool call")
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Name:       call.Name,
				ToolCallID: call.ID,
				Content:    result,
			})
			toolCallsUsed++
		}
	}
}
