package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asahq/jira-analytics-backend/internal/adapters/primary/validation"
	"github.com/asahq/jira-analytics-backend/internal/core/domain"
	"github.com/asahq/jira-analytics-backend/internal/core/ports"
)

// ExportHandler rebuilds the requested report and hands it to the export
// destination.
type ExportHandler struct {
	reportService ports.ReportService
	exporter      ports.Exporter
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(reportService ports.ReportService, exporter ports.Exporter, errorHandler *ErrorHandler, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		reportService: reportService,
		exporter:      exporter,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "export"),
	}
}

// RegisterRoutes sets up the routing for the export endpoints.
func (h *ExportHandler) RegisterRoutes(r chi.Router) {
	r.Post("/exports", h.HandleExport)
}

// ExportRequest defines the expected JSON body for an export
type ExportRequest struct {
	Project string `json:"project"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// ExportAckDTO is the destination's acknowledgement
type ExportAckDTO struct {
	Accepted bool   `json:"accepted"`
	Tickets  int    `json:"tickets"`
	People   int    `json:"people"`
	Reason   string `json:"reason,omitempty"`
}

// HandleExport handles POST /exports
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[ExportRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params, err := buildReportParams(req.Project, req.Start, req.End)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	report, err := h.reportService.BuildActivityReport(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	tickets := make([]domain.Ticket, 0, len(report.Tickets))
	for _, activity := range report.Tickets {
		tickets = append(tickets, activity.Ticket)
	}

	ack, err := h.exporter.Push(r.Context(), tickets, report)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteAccepted(w, ExportAckDTO{
		Accepted: ack.Accepted,
		Tickets:  ack.Tickets,
		People:   ack.People,
		Reason:   ack.Reason,
	})
}
