// Package tool implements the registry of named, schema-described operations
// the LLM may invoke, plus argument decoding and validation.
package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"shopagent/internal/domain/llm"
)

// Handler executes one tool invocation and returns its textual output.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool is a named capability with a declared argument schema.
type Tool struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Handler     Handler
}

// Definition converts the tool into the OpenAI function declaration.
func (t Tool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.ToolFunctionSchema{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		},
	}
}

// Call is one tool invocation requested by the LLM.
type Call struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ParseToolCall converts an LLM provided tool call into the domain Call.
func ParseToolCall(call llm.ToolCall) (Call, error) {
	if call.Function.Name == "" {
		return Call{}, fmt.Errorf("tool call %q has no function name", call.ID)
	}
	return Call{
		ID:        call.ID,
		Name:      call.Function.Name,
		Arguments: call.Function.Arguments,
	}, nil
}

// ArgumentError reports a missing or mistyped tool argument. It is fed back
// to the LLM as tool output rather than failing the run.
type ArgumentError struct {
	Tool    string
	Field   string
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid argument for %s: %s: %s", e.Tool, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Message)
}

// UnknownToolError reports a dispatch for a name no tool was registered
// under.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// DecodeArgs strictly decodes raw JSON arguments into v. Empty arguments
// decode as an empty object so tools with only optional parameters accept
// bare calls.
func DecodeArgs(toolName string, raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ArgumentError{Tool: toolName, Message: err.Error()}
	}
	return nil
}

// Schema reflects a typed argument struct into an inline JSON schema
// suitable for an OpenAI function declaration.
func Schema(v any) *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	return reflector.Reflect(v)
}
