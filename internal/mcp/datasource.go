package mcp

import (
	"context"
	"time"

	"github.com/strideflow/strideflow/internal/models"
	"github.com/strideflow/strideflow/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB
// (local) and HTTPClient (remote via the REST API) satisfy this interface.
type DataSource interface {
	Activities(ctx context.Context, start, end time.Time) ([]models.Activity, error)
	ActivityGPS(ctx context.Context, activityID string) ([]models.TrackPoint, error)
	MaxValues(ctx context.Context) (models.MaxValues, error)
	HealthSummaries(ctx context.Context, start, end time.Time) ([]models.HealthSummary, error)
	SleepSessions(ctx context.Context, start, end time.Time) ([]models.SleepSession, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
