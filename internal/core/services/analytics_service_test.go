package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asahq/jira-analytics-backend/internal/core/domain"
	"github.com/asahq/jira-analytics-backend/internal/core/ports"
	"github.com/asahq/jira-analytics-backend/internal/core/services"
)

func points(p float64) *float64 { return &p }

func testRange(t *testing.T) domain.DateRange {
	t.Helper()
	dr, err := domain.NewDateRange(
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return dr
}

// inProgressFor builds a changelog that keeps a ticket In Progress for the
// given number of inclusive days starting March 10.
func inProgressFor(days int) []domain.StatusTransition {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return []domain.StatusTransition{
		{To: domain.StatusInProgress, At: start},
		{To: "Done", At: start.AddDate(0, 0, days-1).Add(time.Hour)},
	}
}

func TestAnalyticsService_Aggregate(t *testing.T) {
	svc := services.NewAnalyticsService()
	dr := testRange(t)
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	alice := domain.Person{DisplayName: "Alice", Email: "alice@example.com"}
	bob := domain.Person{DisplayName: "Bob", Email: "bob@example.com"}

	tickets := []domain.Ticket{
		{
			Key:         "ASA-1",
			Assignee:    &alice,
			StoryPoints: points(5),
			Transitions: inProgressFor(3),
			Comments: []domain.Comment{
				{Author: alice, CreatedAt: time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)},
				{Author: bob, CreatedAt: time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)},
			},
		},
		{
			Key:         "ASA-2",
			Assignee:    &alice,
			StoryPoints: points(3),
			Transitions: inProgressFor(2),
			Comments: []domain.Comment{
				{Author: alice, CreatedAt: time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)},
			},
		},
		{
			Key:         "ASA-3",
			Assignee:    &bob,
			StoryPoints: points(2),
		},
	}

	t.Run("groups activity by assignee and commenter", func(t *testing.T) {
		report := svc.Aggregate(ports.AggregateParams{Tickets: tickets, Range: dr, Now: now})

		require.Len(t, report.Summaries, 2)

		a := report.Summaries["Alice"]
		assert.Equal(t, 2, a.TicketsAssigned)
		assert.Equal(t, 8.0, a.StoryPoints)
		assert.Equal(t, 2, a.CommentsMade)
		assert.Equal(t, 5, a.DaysInProgress)
		assert.Equal(t, 4, a.TotalActivity())
		assert.Equal(t, "alice@example.com", a.Email)

		b := report.Summaries["Bob"]
		assert.Equal(t, 1, b.TicketsAssigned)
		assert.Equal(t, 2.0, b.StoryPoints)
		assert.Equal(t, 1, b.CommentsMade)
		assert.Equal(t, 0, b.DaysInProgress)
		assert.Equal(t, 2, b.TotalActivity())

		assert.Equal(t, 3, report.Totals.Tickets)
		assert.Equal(t, 10.0, report.Totals.StoryPoints)
		assert.Equal(t, 3, report.Totals.Comments)
		assert.Equal(t, 5, report.Totals.DaysInProgress)
	})

	t.Run("result does not depend on ticket order", func(t *testing.T) {
		baseline := svc.Aggregate(ports.AggregateParams{Tickets: tickets, Range: dr, Now: now})

		reversed := []domain.Ticket{tickets[2], tickets[1], tickets[0]}
		report := svc.Aggregate(ports.AggregateParams{Tickets: reversed, Range: dr, Now: now})

		assert.Equal(t, baseline.Totals, report.Totals)
		assert.Equal(t, baseline.Summaries, report.Summaries)
	})

	t.Run("every ticket is counted exactly once", func(t *testing.T) {
		report := svc.Aggregate(ports.AggregateParams{Tickets: tickets, Range: dr, Now: now})

		assigned := 0
		for _, s := range report.Summaries {
			assigned += s.TicketsAssigned
		}
		assert.Equal(t, len(tickets), assigned)
		assert.Len(t, report.Tickets, len(tickets))
	})

	t.Run("empty input yields an empty report", func(t *testing.T) {
		report := svc.Aggregate(ports.AggregateParams{Tickets: nil, Range: dr, Now: now})

		assert.Empty(t, report.Summaries)
		assert.Empty(t, report.Tickets)
		assert.Equal(t, domain.ActivityTotals{}, report.Totals)
	})

	t.Run("unassigned tickets land in the unassigned bucket", func(t *testing.T) {
		report := svc.Aggregate(ports.AggregateParams{
			Tickets: []domain.Ticket{{Key: "ASA-4"}, {Key: "ASA-5"}},
			Range:   dr,
			Now:     now,
		})

		require.Contains(t, report.Summaries, domain.UnassignedBucket)
		assert.Equal(t, 2, report.Summaries[domain.UnassignedBucket].TicketsAssigned)
		assert.Equal(t, 2, report.Totals.Tickets)
	})

	t.Run("missing story points count as zero but the ticket still counts", func(t *testing.T) {
		report := svc.Aggregate(ports.AggregateParams{
			Tickets: []domain.Ticket{{Key: "ASA-6", Assignee: &alice}},
			Range:   dr,
			Now:     now,
		})

		a := report.Summaries["Alice"]
		assert.Equal(t, 1, a.TicketsAssigned)
		assert.Equal(t, 0.0, a.StoryPoints)
		assert.Equal(t, 0.0, report.Totals.StoryPoints)
	})

	t.Run("commenters appear without holding tickets", func(t *testing.T) {
		carol := domain.Person{DisplayName: "Carol", Email: "carol@example.com"}
		report := svc.Aggregate(ports.AggregateParams{
			Tickets: []domain.Ticket{{
				Key:      "ASA-7",
				Assignee: &alice,
				Comments: []domain.Comment{{Author: carol}},
			}},
			Range: dr,
			Now:   now,
		})

		require.Contains(t, report.Summaries, "Carol")
		c := report.Summaries["Carol"]
		assert.Equal(t, 0, c.TicketsAssigned)
		assert.Equal(t, 1, c.CommentsMade)
		assert.Equal(t, 1, c.TotalActivity())
		assert.Equal(t, "carol@example.com", c.Email)
	})

	t.Run("comments without an author credit the unassigned bucket", func(t *testing.T) {
		report := svc.Aggregate(ports.AggregateParams{
			Tickets: []domain.Ticket{{
				Key:      "ASA-8",
				Assignee: &alice,
				Comments: []domain.Comment{{Author: domain.Person{}}},
			}},
			Range: dr,
			Now:   now,
		})

		require.Contains(t, report.Summaries, domain.UnassignedBucket)
		assert.Equal(t, 1, report.Summaries[domain.UnassignedBucket].CommentsMade)
	})
}
