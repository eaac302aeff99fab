package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts completed agent runs by outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopagent",
			Subsystem: "agent",
			Name:      "runs_total",
			Help:      "Total agent runs",
		},
		[]string{"status"},
	)

	// RunSteps observes how many LLM round trips a run needed.
	RunSteps = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shopagent",
			Subsystem: "agent",
			Name:      "run_steps",
			Help:      "LLM round trips per agent run",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12, 16},
		},
	)

	// LLMRequestsTotal counts chat completion calls by model and outcome.
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopagent",
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Total chat completion requests",
		},
		[]string{"model", "status"},
	)

	// ToolCallsTotal counts tool invocations by tool and outcome.
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopagent",
			Subsystem: "tools",
			Name:      "calls_total",
			Help:      "Total tool invocations",
		},
		[]string{"tool_name", "status"},
	)

	// ToolDuration observes tool execution latency.
	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopagent",
			Subsystem: "tools",
			Name:      "duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name"},
	)
)
