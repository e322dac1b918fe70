package databricks

import (
	"context"
	"log/slog"

	"github.com/asahq/jira-analytics-backend/internal/core/domain"
	"github.com/asahq/jira-analytics-backend/internal/core/ports"
)

// Config holds the Databricks workspace connection parameters.
type Config struct {
	Enabled bool
	Host    string
	Token   string
}

// Exporter is the integration point for pushing reports into a Databricks
// workspace. The push itself is not implemented yet: Push validates the
// input, logs what would be shipped, and acknowledges without writing
// anything. A real warehouse writer can replace this without touching the
// aggregator.
type Exporter struct {
	cfg    Config
	logger *slog.Logger
}

var _ ports.Exporter = (*Exporter)(nil)

// NewExporter creates a new Databricks exporter
func NewExporter(cfg Config, logger *slog.Logger) *Exporter {
	return &Exporter{
		cfg:    cfg,
		logger: logger.With("adapter", "databricks"),
	}
}

// Push acknowledges the export request. No rows are written today.
func (e *Exporter) Push(ctx context.Context, tickets []domain.Ticket, report *domain.ActivityReport) (*domain.ExportAck, error) {
	ack := &domain.ExportAck{
		Accepted: false,
		Tickets:  len(tickets),
		People:   len(report.Summaries),
	}

	if !e.cfg.Enabled {
		ack.Reason = "databricks export is disabled"
		e.logger.Info("export skipped", "reason", ack.Reason, "tickets", ack.Tickets)
		return ack, nil
	}

	ack.Reason = "databricks push is not implemented"
	e.logger.Info("export acknowledged without writing",
		"host", e.cfg.Host,
		"tickets", ack.Tickets,
		"people", ack.People,
	)
	return ack, nil
}
