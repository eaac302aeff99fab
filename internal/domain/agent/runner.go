// Package agent drives the bounded reasoning loop: the LLM decides whether
// to call catalog tools, tool output is fed back, and the loop ends when the
// model answers without requesting a tool.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"shopagent/internal/domain/llm"
	"shopagent/internal/domain/tool"
	"shopagent/internal/infrastructure/metrics"
	"shopagent/internal/infrastructure/observability"
)

var (
	// ErrLoopLimitExceeded is returned when the step bound is hit before the
	// model produces a final answer.
	ErrLoopLimitExceeded = errors.New("agent loop limit exceeded")

	// ErrRunTimeout is returned when the run deadline expires mid-loop.
	ErrRunTimeout = errors.New("agent run timed out")
)

const defaultMaxSteps = 8

// Options bound and parameterize a runner.
type Options struct {
	Model           string
	Temperature     *float64
	MaxTokens       *int
	MaxSteps        int
	ToolCallTimeout time.Duration
}

// Runner owns loop control: the step bound and termination condition are
// enforced here, not delegated to the provider.
type Runner struct {
	provider llm.Provider
	registry *tool.Registry
	opts     Options
	log      zerolog.Logger
}

// NewRunner constructs a runner over a provider and a tool registry.
func NewRunner(provider llm.Provider, registry *tool.Registry, opts Options, log zerolog.Logger) *Runner {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = defaultMaxSteps
	}
	return &Runner{
		provider: provider,
		registry: registry,
		opts:     opts,
		log:      log,
	}
}

// RunParams carries one user request into the loop.
type RunParams struct {
	Question     string
	SystemPrompt string
	History      []llm.ChatMessage
	Observer     Observer
}

// ExecutionStatus is the lifecycle of one tool invocation.
type ExecutionStatus string

const (
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Execution records one tool call made during a run.
type Execution struct {
	CallID       string          `json:"call_id"`
	ToolName     string          `json:"tool_name"`
	Arguments    json.RawMessage `json:"arguments,omitempty"`
	Output       string          `json:"output,omitempty"`
	Status       ExecutionStatus `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  time.Time       `json:"completed_at"`
}

// RunResult is the outcome of a terminated loop.
type RunResult struct {
	RunID       string            `json:"run_id"`
	FinalAnswer string            `json:"final_answer"`
	Messages    []llm.ChatMessage `json:"messages"`
	Usage       *llm.Usage        `json:"usage,omitempty"`
	Executions  []Execution       `json:"executions,omitempty"`
	Steps       int               `json:"steps"`
}

// Run drains the loop until the model responds without requesting tools.
// Tool failures are reported back to the model as tool output; only LLM
// transport failures, the run deadline, and the step bound are fatal.
func (r *Runner) Run(ctx context.Context, params RunParams) (*RunResult, error) {
	runID := uuid.NewString()
	ctx, span := observability.StartRunSpan(ctx, runID, r.opts.Model)
	defer span.End()

	log := r.log.With().Str("run_id", runID).Logger()

	messages := make([]llm.ChatMessage, 0, len(params.History)+2)
	if params.SystemPrompt != "" {
		messages = append(messages, llm.ChatMessage{Role: "system", Content: params.SystemPrompt})
	}
	messages = append(messages, params.History...)
	messages = append(messages, llm.ChatMessage{Role: "user", Content: params.Question})

	var (
		executions []Execution
		usage      *llm.Usage
	)

	for step := 1; step <= r.opts.MaxSteps; step++ {
		req := llm.ChatCompletionRequest{
			Model:       r.opts.Model,
			Messages:    messages,
			Tools:       r.registry.Definitions(),
			Temperature: r.opts.Temperature,
			MaxTokens:   r.opts.MaxTokens,
		}

		choice, stepUsage, err := r.complete(ctx, req, params.Observer)
		if err != nil {
			metrics.LLMRequestsTotal.WithLabelValues(r.opts.Model, "error").Inc()
			metrics.RunsTotal.WithLabelValues("error").Inc()
			observability.RecordError(span, err)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", ErrRunTimeout, err)
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		metrics.LLMRequestsTotal.WithLabelValues(r.opts.Model, "ok").Inc()
		if stepUsage != nil {
			usage = stepUsage
		}

		messages = append(messages, choice.Message)

		if len(choice.Message.ToolCalls) == 0 {
			metrics.RunsTotal.WithLabelValues("ok").Inc()
			metrics.RunSteps.Observe(float64(step))
			log.Debug().Int("steps", step).Int("tool_calls", len(executions)).Msg("run finished")
			return &RunResult{
				RunID:       runID,
				FinalAnswer: llm.ContentText(choice.Message.Content),
				Messages:    messages,
				Usage:       usage,
				Executions:  executions,
				Steps:       step,
			}, nil
		}

		for _, rawCall := range choice.Message.ToolCalls {
			exec, msg := r.executeToolCall(ctx, rawCall, params.Observer, log)
			executions = append(executions, exec)
			messages = append(messages, msg)
		}
	}

	metrics.RunsTotal.WithLabelValues("loop_limit").Inc()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		observability.RecordError(span, ErrRunTimeout)
		return nil, ErrRunTimeout
	}
	observability.RecordError(span, ErrLoopLimitExceeded)
	return nil, fmt.Errorf("%w after %d steps", ErrLoopLimitExceeded, r.opts.MaxSteps)
}

// executeToolCall dispatches one tool call. Failures are converted into an
// error payload for the model, never into a run failure.
func (r *Runner) executeToolCall(ctx context.Context, rawCall llm.ToolCall, observer Observer, log zerolog.Logger) (Execution, llm.ChatMessage) {
	exec := Execution{
		CallID:    rawCall.ID,
		ToolName:  rawCall.Function.Name,
		Arguments: rawCall.Function.Arguments,
		StartedAt: time.Now(),
	}

	call, err := tool.ParseToolCall(rawCall)
	if err == nil {
		if observer != nil {
			observer.OnToolCall(call)
		}

		callCtx := ctx
		var cancel context.CancelFunc
		if r.opts.ToolCallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(callCtx, r.opts.ToolCallTimeout)
		}

		toolCtx, toolSpan := observability.StartToolSpan(callCtx, call.Name, call.ID)
		var output string
		output, err = r.registry.Dispatch(toolCtx, call)
		observability.RecordError(toolSpan, err)
		toolSpan.End()
		if cancel != nil {
			cancel()
		}
		exec.Output = output
	}

	exec.CompletedAt = time.Now()
	metrics.ToolDuration.WithLabelValues(exec.ToolName).Observe(exec.CompletedAt.Sub(exec.StartedAt).Seconds())

	var content string
	if err != nil {
		exec.Status = ExecutionStatusFailed
		exec.ErrorMessage = err.Error()
		content = errorPayload(err)
		metrics.ToolCallsTotal.WithLabelValues(exec.ToolName, "error").Inc()
		log.Warn().Str("tool", exec.ToolName).Err(err).Msg("tool call failed")
	} else {
		exec.Status = ExecutionStatusCompleted
		content = exec.Output
		metrics.ToolCallsTotal.WithLabelValues(exec.ToolName, "ok").Inc()
		log.Debug().Str("tool", exec.ToolName).Msg("tool call completed")
	}

	if observer != nil {
		observer.OnToolResult(exec)
	}

	callID := exec.CallID
	return exec, llm.ChatMessage{
		Role:       "tool",
		Content:    content,
		ToolCallID: &callID,
	}
}

// complete performs one LLM round trip, streaming through the observer when
// one is attached.
func (r *Runner) complete(ctx context.Context, req llm.ChatCompletionRequest, observer Observer) (*llm.ChatCompletionChoice, *llm.Usage, error) {
	if observer == nil {
		resp, err := r.provider.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, nil, errors.New("llm returned no choices")
		}
		return &resp.Choices[0], resp.Usage, nil
	}

	req.Stream = true
	stream, err := r.provider.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	defer stream.Close()

	choice, err := accumulateStream(stream, observer)
	if err != nil {
		return nil, nil, err
	}
	return choice, nil, nil
}

func errorPayload(err error) string {
	data, merr := json.Marshal(map[string]string{"error": err.Error()})
	if merr != nil {
		return `{"error":"tool execution failed"}`
	}
	return string(data)
}
