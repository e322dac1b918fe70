package domain

import (
	"time"
)

// StatusInProgress is the workflow status that counts toward elapsed-time
// metrics. Jira reports status names as display strings, so the comparison
// is against the human-readable name.
const StatusInProgress = "In Progress"

// UnassignedBucket is the sentinel grouping key for tickets without an
// assignee.
const UnassignedBucket = "Unassigned"

// Person identifies an assignee or comment author.
type Person struct {
	DisplayName string
	Email       string
}

// Comment is a single comment on a ticket.
type Comment struct {
	Author    Person
	CreatedAt time.Time
}

// StatusTransition records one entry of a ticket's changelog: the ticket
// entered status To at time At. Transitions are ordered oldest first.
type StatusTransition struct {
	To string
	At time.Time
}

// Ticket is the core domain entity, fetched fresh from Jira on every query
// and never persisted.
type Ticket struct {
	Key         string
	Summary     string
	Status      string
	Assignee    *Person // nil when unassigned
	StoryPoints *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Comments    []Comment
	Transitions []StatusTransition
	URL         string
}

// AssigneeBucket returns the grouping key for per-person aggregation.
// Tickets whose assignee changed mid-lifecycle are attributed entirely to
// the current assignee; there is no historical re-attribution.
func (t *Ticket) AssigneeBucket() string {
	if t.Assignee == nil || t.Assignee.DisplayName == "" {
		return UnassignedBucket
	}
	return t.Assignee.DisplayName
}

// Points returns the story point estimate, treating a missing estimate as 0.
func (t *Ticket) Points() float64 {
	if t.StoryPoints == nil {
		return 0
	}
	return *t.StoryPoints
}

// DaysInProgress computes how many days the ticket spent in the In Progress
// status within the given range. Each In Progress interval from the
// changelog is clipped to the range boundaries and counted inclusively
// (a same-day enter/leave counts as one day). A trailing interval that is
// still open runs to min(now, range end). Tickets with no transition
// history contribute zero.
func (t *Ticket) DaysInProgress(dr DateRange, now time.Time) int {
	days := 0
	for i, tr := range t.Transitions {
		if tr.To != StatusInProgress {
			continue
		}

		intervalEnd := now
		if i+1 < len(t.Transitions) {
			intervalEnd = t.Transitions[i+1].At
		}

		days += clippedDays(tr.At, intervalEnd, dr)
	}
	return days
}

// clippedDays counts the inclusive days of [from, to] that overlap the
// range, or 0 when there is no overlap.
func clippedDays(from, to time.Time, dr DateRange) int {
	periodStart := from
	if dr.Start.After(periodStart) {
		periodStart = dr.Start
	}
	periodEnd := to
	if dr.End.Before(periodEnd) {
		periodEnd = dr.End
	}
	if periodEnd.Before(periodStart) {
		return 0
	}
	return int(periodEnd.Sub(periodStart).Hours()/24) + 1
}
