package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetActivities = mcp.NewTool("get_activities",
	mcp.WithDescription("Query synced activities. Returns sport, distance (km), elapsed time, speeds (km/h), calories, heart rates, and training scores per activity, newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetActivityTrack = mcp.NewTool("get_activity_track",
	mcp.WithDescription("Retrieve an activity's recorded GPS track: ordered samples with coordinates, altitude, heart rate, and speed."),
	mcp.WithString("activity_id", mcp.Required(), mcp.Description("Activity id as returned by get_activities")),
)

var toolGetMaxValues = mcp.NewTool("get_max_values",
	mcp.WithDescription("Per-metric maxima across all stored activities: longest distance, longest duration, highest average speed, most calories, highest average heart rate."),
)

var toolGetHealthSummaries = mcp.NewTool("get_health_summaries",
	mcp.WithDescription("Daily health summaries: resting/avg/max heart rate, stress, steps, intensity minutes, active calories, and body battery per day."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetSleepSessions = mcp.NewTool("get_sleep_sessions",
	mcp.WithDescription("Nightly sleep sessions with stage durations (deep/light/REM/awake), total sleep, respiration, and sleep stress."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

// --- Tool handlers ---

func (h *handlers) getActivities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	activities, err := h.ds.Activities(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_activities", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(activities)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getActivityTrack(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activityID, err := req.RequireString("activity_id")
	if err != nil {
		return mcp.NewToolResultError("activity_id parameter is required"), nil
	}

	points, err := h.ds.ActivityGPS(ctx, activityID)
	if err != nil {
		h.log.Error("mcp get_activity_track", "activity_id", activityID, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if len(points) == 0 {
		return mcp.NewToolResultError("no track stored for activity " + activityID), nil
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMaxValues(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mv, err := h.ds.MaxValues(ctx)
	if err != nil {
		h.log.Error("mcp get_max_values", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(mv)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHealthSummaries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	summaries, err := h.ds.HealthSummaries(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_health_summaries", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summaries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSleepSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sessions, err := h.ds.SleepSessions(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_sleep_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
