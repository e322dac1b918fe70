package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/asahq/jira-analytics-backend/internal/core/domain"
	"github.com/asahq/jira-analytics-backend/internal/core/ports"
	"github.com/asahq/jira-analytics-backend/internal/infrastructure/logging"
)

// ReportService implements the fetch-then-aggregate use case. Fetching is
// synchronous and sequential: the caller blocks until every page of every
// project has been retrieved, then the aggregate is computed. Nothing is
// cached or persisted between calls.
type ReportService struct {
	source    ports.TicketSource
	analytics ports.AnalyticsService
	logger    *slog.Logger
}

var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a new report service
func NewReportService(source ports.TicketSource, analytics ports.AnalyticsService, logger *slog.Logger) *ReportService {
	return &ReportService{
		source:    source,
		analytics: analytics,
		logger:    logger.With("service", "report"),
	}
}

// BuildActivityReport fetches the tickets for the requested window and
// aggregates them. An empty project key fans out to every project visible
// under the configured prefix. Zero tickets is a valid outcome and yields
// an empty report, not an error.
func (s *ReportService) BuildActivityReport(ctx context.Context, params ports.BuildReportParams) (*domain.ActivityReport, error) {
	if params.ProjectKey != "" {
		ctx = logging.WithProjectKey(ctx, params.ProjectKey)
	}

	keys := []string{params.ProjectKey}
	if params.ProjectKey == "" {
		projects, err := s.source.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
		keys = keys[:0]
		for _, p := range projects {
			keys = append(keys, p.Key)
		}
		if len(keys) == 0 {
			s.logger.Warn("no projects visible to the configured credentials")
		}
	}

	var tickets []domain.Ticket
	for _, key := range keys {
		fetched, err := s.source.SearchTickets(ctx, ports.TicketQuery{
			ProjectKey: key,
			Range:      params.Range,
		})
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, fetched...)
	}

	report := s.analytics.Aggregate(ports.AggregateParams{
		Tickets: tickets,
		Range:   params.Range,
		Now:     time.Now().UTC(),
	})

	s.logger.InfoContext(ctx, "activity report built",
		"projects", len(keys),
		"tickets", report.Totals.Tickets,
		"people", len(report.Summaries),
	)

	return report, nil
}

// ListProjects exposes the source's project listing for the dashboard
// selector.
func (s *ReportService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.source.ListProjects(ctx)
}
