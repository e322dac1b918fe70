package ports

import (
	"context"

	"github.com/asahq/jira-analytics-backend/internal/core/domain"
)

// TicketQuery describes one paginated Jira search: a single project key and
// an inclusive updated-date window.
type TicketQuery struct {
	ProjectKey string
	Range      domain.DateRange
}

// TicketSource is the secondary port for the issue tracker. Implementations
// page through the upstream API transparently and return one flat slice.
// An empty result is a valid response, not an error.
type TicketSource interface {
	// Verify checks the configured credentials against the tracker.
	Verify(ctx context.Context) error

	// ListProjects returns the projects visible to the credentials,
	// filtered by the configured key prefix.
	ListProjects(ctx context.Context) ([]domain.Project, error)

	// SearchTickets returns every ticket of the project updated within the
	// query range, including comments and status-transition history.
	SearchTickets(ctx context.Context, query TicketQuery) ([]domain.Ticket, error)
}

// Exporter is the secondary port for pushing a finished report to a data
// warehouse. The only implementation today is a documented no-op; a real
// destination can be substituted without touching the aggregator.
type Exporter interface {
	Push(ctx context.Context, tickets []domain.Ticket, report *domain.ActivityReport) (*domain.ExportAck, error)
}
