package httpserver_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"shopagent/internal/config"
	"shopagent/internal/domain/agent"
	"shopagent/internal/interfaces/httpserver"
)

// MockRunner is a func-field implementation of httpserver.AgentRunner.
type MockRunner struct {
	RunFunc func(ctx context.Context, params agent.RunParams) (*agent.RunResult, error)
}

func (m *MockRunner) Run(ctx context.Context, params agent.RunParams) (*agent.RunResult, error) {
	return m.RunFunc(ctx, params)
}

func newTestServer(runner httpserver.AgentRunner) *httpserver.Server {
	cfg := &config.Config{
		Environment: "development",
		HTTPPort:    8084,
		RunTimeout:  time.Minute,
	}
	return httpserver.New(cfg, zerolog.Nop(), runner, "You are a store assistant.")
}

func doAsk(t *testing.T, server *httpserver.Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Engine().ServeHTTP(rec, req)
	return rec
}

func TestAsk(t *testing.T) {
	var gotParams agent.RunParams
	runner := &MockRunner{
		RunFunc: func(ctx context.Context, params agent.RunParams) (*agent.RunResult, error) {
			gotParams = params
			return &agent.RunResult{
				RunID:       "run-1",
				FinalAnswer: "The price is 19.99.",
				Steps:       2,
			}, nil
		},
	}

	rec := doAsk(t, newTestServer(runner), `{"question": "What is the price of product 12345?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if gotParams.Question != "What is the price of product 12345?" {
		t.Errorf("question = %q", gotParams.Question)
	}
	if gotParams.SystemPrompt == "" {
		t.Error("system prompt not forwarded")
	}

	var resp httpserver.AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.RunID != "run-1" || !strings.Contains(resp.Answer, "19.99") {
		t.Errorf("response = %+v", resp)
	}
}

func TestAsk_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing question", body: `{}`},
		{name: "empty question", body: `{"question": ""}`},
		{name: "malformed json", body: `{"question": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			runner := &MockRunner{
				RunFunc: func(ctx context.Context, params agent.RunParams) (*agent.RunResult, error) {
					called = true
					return nil, nil
				},
			}

			rec := doAsk(t, newTestServer(runner), tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if called {
				t.Error("runner was called for an invalid request")
			}
		})
	}
}

func TestAsk_RunErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "timeout", err: agent.ErrRunTimeout, want: http.StatusGatewayTimeout},
		{name: "loop limit", err: fmt.Errorf("%w after 8 steps", agent.ErrLoopLimitExceeded), want: http.StatusBadGateway},
		{name: "other", err: fmt.Errorf("chat completion: connection refused"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &MockRunner{
				RunFunc: func(ctx context.Context, params agent.RunParams) (*agent.RunResult, error) {
					return nil, tt.err
				},
			}

			rec := doAsk(t, newTestServer(runner), `{"question": "hello"}`)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	server := newTestServer(&MockRunner{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(&MockRunner{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	server.Engine().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
