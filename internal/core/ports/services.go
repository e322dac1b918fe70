package ports

import (
	"context"
	"time"

	"github.com/asahq/jira-analytics-backend/internal/core/domain"
)

// AggregateParams is the full input of one aggregation pass. Now anchors
// open-ended In Progress intervals so the computation stays a pure function
// of its inputs.
type AggregateParams struct {
	Tickets []domain.Ticket
	Range   domain.DateRange
	Now     time.Time
}

// AnalyticsService defines the port for per-person activity aggregation.
type AnalyticsService interface {
	Aggregate(params AggregateParams) *domain.ActivityReport
}

// BuildReportParams defines the input for building an activity report.
// An empty ProjectKey means every project visible under the configured
// prefix.
type BuildReportParams struct {
	ProjectKey string
	Range      domain.DateRange
}

// ReportService defines the core use case: fetch tickets for a window and
// aggregate them into an activity report.
type ReportService interface {
	BuildActivityReport(ctx context.Context, params BuildReportParams) (*domain.ActivityReport, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
}
