package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shopagent/internal/domain/agent"
	"shopagent/internal/domain/llm"
)

// AskRequest is one question for the agent, optionally with prior turns.
type AskRequest struct {
	Question string            `json:"question" binding:"required"`
	History  []llm.ChatMessage `json:"history,omitempty"`
}

// AskResponse carries the final answer and the tool calls that produced it.
type AskResponse struct {
	RunID      string            `json:"run_id"`
	Answer     string            `json:"answer"`
	Executions []agent.Execution `json:"executions,omitempty"`
	Usage      *llm.Usage        `json:"usage,omitempty"`
}

type askHandler struct {
	runner       AgentRunner
	systemPrompt string
	runTimeout   time.Duration
	log          zerolog.Logger
}

func newAskHandler(runner AgentRunner, systemPrompt string, runTimeout time.Duration, log zerolog.Logger) *askHandler {
	return &askHandler{
		runner:       runner,
		systemPrompt: systemPrompt,
		runTimeout:   runTimeout,
		log:          log,
	}
}

func (h *askHandler) ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if h.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.runTimeout)
		defer cancel()
	}

	result, err := h.runner.Run(ctx, agent.RunParams{
		Question:     req.Question,
		SystemPrompt: h.systemPrompt,
		History:      req.History,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("agent run failed")
		c.JSON(statusForRunError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, AskResponse{
		RunID:      result.RunID,
		Answer:     result.FinalAnswer,
		Executions: result.Executions,
		Usage:      result.Usage,
	})
}

func statusForRunError(err error) int {
	switch {
	case errors.Is(err, agent.ErrRunTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, agent.ErrLoopLimitExceeded):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
