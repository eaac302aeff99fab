package tool_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"shopagent/internal/domain/llm"
	"shopagent/internal/domain/tool"
)

type echoArgs struct{}

func echoTool(name string) tool.Tool {
	return tool.Tool{
		Name:        name,
		Description: "echoes its arguments",
		Parameters:  tool.Schema(echoArgs{}),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			return string(args), nil
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name    string
		tool    tool.Tool
		wantErr bool
	}{
		{name: "valid", tool: echoTool("echo"), wantErr: false},
		{name: "empty name", tool: tool.Tool{Handler: func(context.Context, json.RawMessage) (string, error) { return "", nil }}, wantErr: true},
		{name: "nil handler", tool: tool.Tool{Name: "broken"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := tool.NewRegistry()
			err := registry.Register(tt.tool)
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	registry := tool.NewRegistry()
	if err := registry.Register(echoTool("echo")); err != nil {
		t.Fatalf("first Register error = %v", err)
	}
	if err := registry.Register(echoTool("echo")); err == nil {
		t.Fatal("second Register succeeded, want duplicate error")
	}
}

func TestRegistry_DefinitionsPreserveOrder(t *testing.T) {
	registry := tool.NewRegistry()
	registry.MustRegister(echoTool("charlie"), echoTool("alpha"), echoTool("bravo"))

	want := []string{"charlie", "alpha", "bravo"}
	defs := registry.Definitions()
	if len(defs) != len(want) {
		t.Fatalf("len(Definitions) = %d, want %d", len(defs), len(want))
	}
	for i, name := range want {
		if defs[i].Function.Name != name {
			t.Errorf("Definitions[%d] = %s, want %s", i, defs[i].Function.Name, name)
		}
		if defs[i].Type != "function" {
			t.Errorf("Definitions[%d].Type = %s, want function", i, defs[i].Type)
		}
	}
}

func TestRegistry_DispatchUnknownTool(t *testing.T) {
	registry := tool.NewRegistry()

	_, err := registry.Dispatch(context.Background(), tool.Call{Name: "nope"})

	var unknown *tool.UnknownToolError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *tool.UnknownToolError", err)
	}
	if unknown.Name != "nope" {
		t.Errorf("Name = %q, want nope", unknown.Name)
	}
}

func TestDecodeArgs(t *testing.T) {
	type args struct {
		Limit int `json:"limit,omitempty"`
	}

	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "valid", raw: `{"limit": 7}`, want: 7},
		{name: "empty payload decodes as empty object", raw: "", want: 0},
		{name: "unknown field", raw: `{"max": 7}`, wantErr: true},
		{name: "wrong type", raw: `{"limit": "seven"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got args
			err := tool.DecodeArgs("echo", json.RawMessage(tt.raw), &got)
			if tt.wantErr {
				var argErr *tool.ArgumentError
				if !errors.As(err, &argErr) {
					t.Fatalf("error = %v, want *tool.ArgumentError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeArgs error = %v", err)
			}
			if got.Limit != tt.want {
				t.Errorf("Limit = %d, want %d", got.Limit, tt.want)
			}
		})
	}
}

func TestParseToolCall(t *testing.T) {
	call, err := tool.ParseToolCall(llm.ToolCall{
		ID:   "call_42",
		Type: "function",
		Function: llm.ToolFunction{
			Name:      "get_products",
			Arguments: json.RawMessage(`{"limit": 3}`),
		},
	})
	if err != nil {
		t.Fatalf("ParseToolCall error = %v", err)
	}
	if call.ID != "call_42" || call.Name != "get_products" {
		t.Errorf("call = %+v", call)
	}

	if _, err := tool.ParseToolCall(llm.ToolCall{ID: "call_43"}); err == nil {
		t.Error("ParseToolCall accepted a call without a function name")
	}
}

func TestSchema_MarksFieldsWithoutOmitemptyRequired(t *testing.T) {
	type args struct {
		ProductID int64 `json:"product_id"`
		Limit     int   `json:"limit,omitempty"`
	}

	data, err := json.Marshal(tool.Schema(args{}))
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}

	var schema struct {
		Type                 string         `json:"type"`
		Required             []string       `json:"required"`
		AdditionalProperties any            `json:"additionalProperties"`
		Properties           map[string]any `json:"properties"`
	}
	if err := json.Unmarshal(data, &schema); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}

	if schema.Type != "object" {
		t.Errorf("type = %q, want object", schema.Type)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "product_id" {
		t.Errorf("required = %v, want [product_id]", schema.Required)
	}
	if allow, ok := schema.AdditionalProperties.(bool); !ok || allow {
		t.Errorf("additionalProperties = %v, want false", schema.AdditionalProperties)
	}
	if _, ok := schema.Properties["limit"]; !ok {
		t.Error("properties missing limit")
	}
}
