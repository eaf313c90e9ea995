package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentActivities(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	activities, err := h.ds.Activities(ctx, start, end)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(activities)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) latestHealth(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -7)

	health, err := h.ds.HealthSummaries(ctx, start, end)
	if err != nil {
		return nil, err
	}

	sleep, err := h.ds.SleepSessions(ctx, start, end)
	if err != nil {
		h.log.Warn("latest_health: sleep query failed", "error", err)
	}

	data, err := json.Marshal(map[string]any{
		"health": health,
		"sleep":  sleep,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
