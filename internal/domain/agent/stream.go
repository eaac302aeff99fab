package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"shopagent/internal/domain/llm"
	"shopagent/internal/domain/tool"
)

// Observer receives live updates while a run is in flight.
type Observer interface {
	// OnToken is called with each chunk of assistant text as it streams in.
	OnToken(text string)

	// OnToolCall is called when the model requests a tool.
	OnToolCall(call tool.Call)

	// OnToolResult is called when a requested tool finishes.
	OnToolResult(exec Execution)
}

// accumulateStream drains an SSE stream into a single completion choice,
// merging tool call fragments that arrive across chunks.
func accumulateStream(stream llm.Stream, observer Observer) (*llm.ChatCompletionChoice, error) {
	acc := choiceAccumulator{role: "assistant"}
	sawDelta := false

	for {
		delta, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if delta == nil || len(delta.Choices) == 0 {
			continue
		}
		sawDelta = true

		first := delta.Choices[0]
		if text := llm.ContentText(first.Delta.Content); text != "" && observer != nil {
			observer.OnToken(text)
		}
		acc.apply(first)
	}

	if !sawDelta {
		return nil, errors.New("stream produced no choices")
	}
	choice := acc.build()
	return &choice, nil
}

type choiceAccumulator struct {
	role         string
	finishReason string
	content      strings.Builder
	callIDs      []string
	callByID     map[string]*partialToolCall
	idByIndex    map[int]string
}

type partialToolCall struct {
	id       string
	callType string
	name     string
	args     strings.Builder
}

func (a *choiceAccumulator) apply(choice llm.ChatCompletionDeltaChoice) {
	if choice.Delta.Role != "" {
		a.role = choice.Delta.Role
	}
	if text := llm.ContentText(choice.Delta.Content); text != "" {
		a.content.WriteString(text)
	}
	for idx, call := range choice.Delta.ToolCalls {
		a.applyToolCall(idx, call)
	}
	if choice.FinishReason != "" {
		a.finishReason = choice.FinishReason
	}
}

// applyToolCall merges one fragment. Fragments after the first usually omit
// the call ID and carry only argument bytes; the wire index correlates them
// with their call. Position inside the chunk is the fallback for providers
// that omit the index too.
func (a *choiceAccumulator) applyToolCall(pos int, call llm.ToolCall) {
	if a.callByID == nil {
		a.callByID = make(map[string]*partialToolCall)
		a.idByIndex = make(map[int]string)
	}

	id := call.ID
	if id == "" {
		switch {
		case call.Index != nil:
			if known, ok := a.idByIndex[*call.Index]; ok {
				id = known
			} else {
				id = fmt.Sprintf("tool_%d", *call.Index)
			}
		case pos < len(a.callIDs):
			id = a.callIDs[pos]
		default:
			id = fmt.Sprintf("tool_%d", len(a.callIDs))
		}
	}
	if call.Index != nil {
		a.idByIndex[*call.Index] = id
	}

	partial, ok := a.callByID[id]
	if !ok {
		partial = &partialToolCall{id: id}
		a.callByID[id] = partial
		a.callIDs = append(a.callIDs, id)
	}

	if call.Type != "" {
		partial.callType = call.Type
	}
	if call.Function.Name != "" {
		partial.name = call.Function.Name
	}
	if len(call.Function.Arguments) > 0 {
		partial.args.Write(call.Function.Arguments)
	}
}

func (a *choiceAccumulator) build() llm.ChatCompletionChoice {
	message := llm.ChatMessage{Role: a.role}
	if a.content.Len() > 0 {
		message.Content = a.content.String()
	}

	for _, id := range a.callIDs {
		partial := a.callByID[id]
		message.ToolCalls = append(message.ToolCalls, llm.ToolCall{
			ID:   partial.id,
			Type: partial.callType,
			Function: llm.ToolFunction{
				Name:      partial.name,
				Arguments: json.RawMessage(partial.args.String()),
			},
		})
	}

	return llm.ChatCompletionChoice{
		Message:      message,
		FinishReason: a.finishReason,
	}
}
