package domain

// PersonSummary holds the aggregated activity of one person over a date
// range. A person appears either because tickets are assigned to them or
// because they commented on a fetched ticket.
type PersonSummary struct {
	Person          string
	Email           string
	TicketsAssigned int
	StoryPoints     float64
	CommentsMade    int
	DaysInProgress  int
}

// TotalActivity is the combined activity score: tickets assigned plus
// comments made.
func (s PersonSummary) TotalActivity() int {
	return s.TicketsAssigned + s.CommentsMade
}

// TicketActivity pairs a ticket with its derived per-range metrics.
type TicketActivity struct {
	Ticket         Ticket
	DaysInProgress int
}

// ActivityTotals are the headline metrics across the whole fetched set.
type ActivityTotals struct {
	Tickets        int
	StoryPoints    float64
	Comments       int
	DaysInProgress int
}

// ActivityReport is the result of aggregating a ticket set over a date
// range. Summaries maps grouping key (assignee display name, or the
// Unassigned bucket) to that person's summary.
type ActivityReport struct {
	Range     DateRange
	Totals    ActivityTotals
	Summaries map[string]PersonSummary
	Tickets   []TicketActivity
}

// Project is a Jira project visible to the configured credentials.
type Project struct {
	Key  string
	Name string
}

// ExportAck is the acknowledgement returned by an export destination.
type ExportAck struct {
	Accepted bool
	Tickets  int
	People   int
	Reason   string
}
