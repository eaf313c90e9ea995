// Package mcp exposes the stored fitness data to LLM assistants over the
// Model Context Protocol.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("StrideFlow", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("StrideFlow fitness data server. Query synced activities with GPS tracks, daily health summaries, and sleep sessions."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetActivities, Handler: h.getActivities},
		server.ServerTool{Tool: toolGetActivityTrack, Handler: h.getActivityTrack},
		server.ServerTool{Tool: toolGetMaxValues, Handler: h.getMaxValues},
		server.ServerTool{Tool: toolGetHealthSummaries, Handler: h.getHealthSummaries},
		server.ServerTool{Tool: toolGetSleepSessions, Handler: h.getSleepSessions},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentActivities, Handler: h.recentActivities},
		server.ServerResource{Resource: resLatestHealth, Handler: h.latestHealth},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentActivities = mcp.NewResource(
	"strideflow://recent_activities",
	"Recent Activities",
	mcp.WithResourceDescription("Activities from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resLatestHealth = mcp.NewResource(
	"strideflow://latest_health",
	"Latest Health",
	mcp.WithResourceDescription("Daily health summaries and sleep sessions from the last 7 days"),
	mcp.WithMIMEType("application/json"),
)
