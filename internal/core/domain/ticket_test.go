package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asahq/jira-analytics-backend/internal/core/domain"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC)
}

func marchRange(t *testing.T) domain.DateRange {
	t.Helper()
	dr, err := domain.NewDateRange(
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return dr
}

func TestNewDateRange(t *testing.T) {
	t.Run("expands dates to full days", func(t *testing.T) {
		dr, err := domain.NewDateRange(
			time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC),
			time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)

		assert.True(t, dr.Contains(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, dr.Contains(time.Date(2025, 3, 2, 23, 59, 59, 0, time.UTC)))
		assert.False(t, dr.Contains(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("same day is a valid range", func(t *testing.T) {
		_, err := domain.NewDateRange(day(5), day(5))
		assert.NoError(t, err)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := domain.NewDateRange(day(10), day(5))
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})
}

func TestTicket_AssigneeBucket(t *testing.T) {
	tests := []struct {
		name     string
		assignee *domain.Person
		want     string
	}{
		{"assigned ticket uses display name", &domain.Person{DisplayName: "Alice"}, "Alice"},
		{"nil assignee falls into the unassigned bucket", nil, domain.UnassignedBucket},
		{"blank display name falls into the unassigned bucket", &domain.Person{}, domain.UnassignedBucket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := domain.Ticket{Assignee: tt.assignee}
			assert.Equal(t, tt.want, ticket.AssigneeBucket())
		})
	}
}

func TestTicket_Points(t *testing.T) {
	points := 5.0

	assert.Equal(t, 5.0, (&domain.Ticket{StoryPoints: &points}).Points())
	assert.Equal(t, 0.0, (&domain.Ticket{}).Points())
}

func TestTicket_DaysInProgress(t *testing.T) {
	dr := marchRange(t)
	now := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

	t.Run("no history contributes zero", func(t *testing.T) {
		ticket := domain.Ticket{}
		assert.Equal(t, 0, ticket.DaysInProgress(dr, now))
	})

	t.Run("closed interval counts inclusive days", func(t *testing.T) {
		ticket := domain.Ticket{Transitions: []domain.StatusTransition{
			{To: domain.StatusInProgress, At: day(3)},
			{To: "Done", At: day(7)},
		}}
		// March 3 through March 7 inclusive.
		assert.Equal(t, 5, ticket.DaysInProgress(dr, now))
	})

	t.Run("same-day enter and leave counts one day", func(t *testing.T) {
		ticket := domain.Ticket{Transitions: []domain.StatusTransition{
			{To: domain.StatusInProgress, At: day(3)},
			{To: "Done", At: time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)},
		}}
		assert.Equal(t, 1, ticket.DaysInProgress(dr, now))
	})

	t.Run("open interval runs to the range end", func(t *testing.T) {
		ticket := domain.Ticket{Transitions: []domain.StatusTransition{
			{To: domain.StatusInProgress, At: day(25)},
		}}
		// March 25 through March 31: still in progress when now is past
		// the end of the range.
		assert.Equal(t, 7, ticket.DaysInProgress(dr, now))
	})

	t.Run("open interval runs to now when now is inside the range", func(t *testing.T) {
		ticket := domain.Ticket{Transitions: []domain.StatusTransition{
			{To: domain.StatusInProgress, At: day(25)},
		}}
		inRangeNow := time.Date(2025, 3, 28, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, 4, ticket.DaysInProgress(dr, inRangeNow))
	})

	t.Run("interval starting before the range is clipped to its start", func(t *testing.T) {
		ticket := domain.Ticket{Transitions: []domain.StatusTransition{
			{To: domain.StatusInProgress, At: time.Date(2025, 2, 20, 12, 0, 0, 0, time.UTC)},
			{To: "Done", At: day(4)},
		}}
		// Clipped to March 1 through March 4.
		assert.Equal(t, 4, ticket.DaysInProgress(dr, now))
	})

	t.Run("interval entirely outside the range contributes zero", func(t *testing.T) {
		ticket := domain.Ticket{Transitions: []domain.StatusTransition{
			{To: domain.StatusInProgress, At: time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)},
			{To: "Done", At: time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)},
		}}
		assert.Equal(t, 0, ticket.DaysInProgress(dr, now))
	})

	t.Run("multiple in-progress stints accumulate", func(t *testing.T) {
		ticket := domain.Ticket{Transitions: []domain.StatusTransition{
			{To: domain.StatusInProgress, At: day(2)},
			{To: "Blocked", At: day(4)},
			{To: domain.StatusInProgress, At: day(10)},
			{To: "Done", At: day(12)},
		}}
		// March 2-4 and March 10-12, both inclusive.
		assert.Equal(t, 6, ticket.DaysInProgress(dr, now))
	})

	t.Run("non in-progress statuses are ignored", func(t *testing.T) {
		ticket := domain.Ticket{Transitions: []domain.StatusTransition{
			{To: "To Do", At: day(1)},
			{To: "In Review", At: day(5)},
			{To: "Done", At: day(9)},
		}}
		assert.Equal(t, 0, ticket.DaysInProgress(dr, now))
	})
}
