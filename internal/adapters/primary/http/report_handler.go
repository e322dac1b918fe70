package http

import (
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/asahq/jira-analytics-backend/internal/adapters/primary/validation"
	"github.com/asahq/jira-analytics-backend/internal/core/domain"
	"github.com/asahq/jira-analytics-backend/internal/core/ports"
)

const dateLayout = "2006-01-02"

// projectKeyRegex matches Jira project keys. Keys are interpolated into
// JQL, so anything else is rejected up front.
var projectKeyRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// ReportHandler handles HTTP requests for activity reports
type ReportHandler struct {
	reportService ports.ReportService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService ports.ReportService, errorHandler *ErrorHandler, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "report"),
	}
}

// RegisterRoutes sets up the routing for the report endpoints.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/projects", h.HandleListProjects)
	r.Get("/reports/activity", h.HandleActivityReport)
}

// --- Response DTOs ---

// DateRangeDTO is the reporting window as calendar dates.
type DateRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TotalsDTO holds the headline metrics for the whole fetched set.
type TotalsDTO struct {
	Tickets        int     `json:"tickets"`
	StoryPoints    float64 `json:"storyPoints"`
	Comments       int     `json:"comments"`
	DaysInProgress int     `json:"daysInProgress"`
}

// PersonSummaryDTO is one row of the per-person table.
type PersonSummaryDTO struct {
	Person          string  `json:"person"`
	Email           string  `json:"email,omitempty"`
	TicketsAssigned int     `json:"ticketsAssigned"`
	StoryPoints     float64 `json:"storyPoints"`
	CommentsMade    int     `json:"commentsMade"`
	DaysInProgress  int     `json:"daysInProgress"`
	TotalActivity   int     `json:"totalActivity"`
}

// TicketDTO is one row of the per-ticket table, with the outbound link to
// the original ticket.
type TicketDTO struct {
	Key            string   `json:"key"`
	Summary        string   `json:"summary"`
	Status         string   `json:"status"`
	Assignee       string   `json:"assignee"`
	StoryPoints    *float64 `json:"storyPoints"`
	CommentCount   int      `json:"commentCount"`
	DaysInProgress int      `json:"daysInProgress"`
	LastModified   string   `json:"lastModified,omitempty"`
	URL            string   `json:"url"`
}

// ActivityReportDTO is the full report payload.
type ActivityReportDTO struct {
	Range   DateRangeDTO       `json:"range"`
	Totals  TotalsDTO          `json:"totals"`
	People  []PersonSummaryDTO `json:"people"`
	Tickets []TicketDTO        `json:"tickets"`
}

// ProjectDTO is one selectable project.
type ProjectDTO struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// HandleListProjects handles GET /projects
func (h *ReportHandler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.reportService.ListProjects(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		response = append(response, ProjectDTO{Key: p.Key, Name: p.Name})
	}

	WriteList(w, response)
}

// HandleActivityReport handles GET /reports/activity
func (h *ReportHandler) HandleActivityReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := buildReportParams(q.Get("project"), q.Get("start"), q.Get("end"))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	report, err := h.reportService.BuildActivityReport(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toActivityReportDTO(report))
}

// buildReportParams validates the raw query/body fields shared by the
// report and export endpoints.
func buildReportParams(project, start, end string) (ports.BuildReportParams, error) {
	v := validation.NewValidator()

	v.Required("start", start)
	v.Required("end", end)

	if project != "" {
		v.Matches("project", project, projectKeyRegex, "Must be a Jira project key (e.g. ASA)")
	}

	var startDate, endDate time.Time
	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			v.Custom("start", false, "Must be a date in YYYY-MM-DD format")
		}
		startDate = t
	}
	if end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			v.Custom("end", false, "Must be a date in YYYY-MM-DD format")
		}
		endDate = t
	}

	if v.HasErrors() {
		return ports.BuildReportParams{}, v.Errors()
	}

	dr, err := domain.NewDateRange(startDate, endDate)
	if err != nil {
		return ports.BuildReportParams{}, err
	}

	return ports.BuildReportParams{ProjectKey: project, Range: dr}, nil
}

func toActivityReportDTO(report *domain.ActivityReport) ActivityReportDTO {
	dto := ActivityReportDTO{
		Range: DateRangeDTO{
			Start: report.Range.Start.Format(dateLayout),
			End:   report.Range.End.Format(dateLayout),
		},
		Totals: TotalsDTO{
			Tickets:        report.Totals.Tickets,
			StoryPoints:    report.Totals.StoryPoints,
			Comments:       report.Totals.Comments,
			DaysInProgress: report.Totals.DaysInProgress,
		},
		People:  make([]PersonSummaryDTO, 0, len(report.Summaries)),
		Tickets: make([]TicketDTO, 0, len(report.Tickets)),
	}

	for _, summary := range report.Summaries {
		dto.People = append(dto.People, PersonSummaryDTO{
			Person:          summary.Person,
			Email:           summary.Email,
			TicketsAssigned: summary.TicketsAssigned,
			StoryPoints:     summary.StoryPoints,
			CommentsMade:    summary.CommentsMade,
			DaysInProgress:  summary.DaysInProgress,
			TotalActivity:   summary.TotalActivity(),
		})
	}
	sort.Slice(dto.People, func(i, j int) bool {
		return dto.People[i].Person < dto.People[j].Person
	})

	for _, activity := range report.Tickets {
		ticket := activity.Ticket
		row := TicketDTO{
			Key:            ticket.Key,
			Summary:        ticket.Summary,
			Status:         ticket.Status,
			Assignee:       ticket.AssigneeBucket(),
			StoryPoints:    ticket.StoryPoints,
			CommentCount:   len(ticket.Comments),
			DaysInProgress: activity.DaysInProgress,
			URL:            ticket.URL,
		}
		if !ticket.UpdatedAt.IsZero() {
			row.LastModified = ticket.UpdatedAt.Format(time.RFC3339)
		}
		dto.Tickets = append(dto.Tickets, row)
	}

	return dto
}
