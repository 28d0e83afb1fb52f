package mcp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	// toolCalls counts tool calls by tool and outcome.
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aspects_mcp_tool_calls_total",
		Help: "Total MCP tool calls by tool and outcome",
	}, []string{"tool", "outcome"})

	// toolDuration tracks tool call latency.
	toolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aspects_mcp_tool_duration_seconds",
		Help:    "MCP tool call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~400ms
	}, []string{"tool"})
)

func observe(tool string, start time.Time, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}

	toolCalls.WithLabelValues(tool, outcome).Inc()
	toolDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
}
