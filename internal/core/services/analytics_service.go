package services

import (
	"github.com/asahq/jira-analytics-backend/internal/core/domain"
	"github.com/asahq/jira-analytics-backend/internal/core/ports"
)

// AnalyticsService aggregates a fetched ticket set into per-person activity
// summaries. Aggregate is a pure function: the same tickets, range and
// anchor time always produce the same report, regardless of ticket order.
type AnalyticsService struct{}

var _ ports.AnalyticsService = (*AnalyticsService)(nil)

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

// Aggregate groups tickets by their current assignee and accumulates the
// per-person metrics. Every ticket is counted exactly once: tickets without
// an assignee land in the Unassigned bucket rather than being dropped.
// Comment authors are credited individually, so a person can appear in the
// summary without holding any tickets.
func (s *AnalyticsService) Aggregate(params ports.AggregateParams) *domain.ActivityReport {
	report := &domain.ActivityReport{
		Range:     params.Range,
		Summaries: make(map[string]domain.PersonSummary),
		Tickets:   make([]domain.TicketActivity, 0, len(params.Tickets)),
	}

	for _, ticket := range params.Tickets {
		days := ticket.DaysInProgress(params.Range, params.Now)
		report.Tickets = append(report.Tickets, domain.TicketActivity{
			Ticket:         ticket,
			DaysInProgress: days,
		})

		bucket := ticket.AssigneeBucket()
		summary := report.Summaries[bucket]
		summary.Person = bucket
		if summary.Email == "" && ticket.Assignee != nil {
			summary.Email = ticket.Assignee.Email
		}
		summary.TicketsAssigned++
		summary.StoryPoints += ticket.Points()
		summary.DaysInProgress += days
		report.Summaries[bucket] = summary

		for _, comment := range ticket.Comments {
			author := comment.Author.DisplayName
			if author == "" {
				author = domain.UnassignedBucket
			}
			commenter := report.Summaries[author]
			commenter.Person = author
			if commenter.Email == "" {
				commenter.Email = comment.Author.Email
			}
			commenter.CommentsMade++
			report.Summaries[author] = commenter
		}

		report.Totals.Tickets++
		report.Totals.StoryPoints += ticket.Points()
		report.Totals.Comments += len(ticket.Comments)
		report.Totals.DaysInProgress += days
	}

	return report
}
