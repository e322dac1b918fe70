package http

import (
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asahq/jira-analytics-backend/internal/core/domain"
	apperrors "github.com/asahq/jira-analytics-backend/internal/core/errors"
	"github.com/asahq/jira-analytics-backend/internal/core/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newReportRouter(service *mocks.MockReportService) *chi.Mux {
	logger := testLogger()
	handler := NewReportHandler(service, NewErrorHandler(logger), logger)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func sampleReport(t *testing.T) *domain.ActivityReport {
	t.Helper()
	dr, err := domain.NewDateRange(
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	points := 5.0
	ticket := domain.Ticket{
		Key:         "ASA-1",
		Summary:     "Fix login flow",
		Status:      "Done",
		Assignee:    &domain.Person{DisplayName: "Alice", Email: "alice@example.com"},
		StoryPoints: &points,
		UpdatedAt:   time.Date(2025, 3, 20, 14, 0, 0, 0, time.UTC),
		Comments:    []domain.Comment{{Author: domain.Person{DisplayName: "Bob"}}},
		URL:         "https://example.atlassian.net/browse/ASA-1",
	}

	return &domain.ActivityReport{
		Range: dr,
		Totals: domain.ActivityTotals{
			Tickets:        1,
			StoryPoints:    5,
			Comments:       1,
			DaysInProgress: 3,
		},
		Summaries: map[string]domain.PersonSummary{
			"Bob":   {Person: "Bob", CommentsMade: 1},
			"Alice": {Person: "Alice", Email: "alice@example.com", TicketsAssigned: 1, StoryPoints: 5, DaysInProgress: 3},
		},
		Tickets: []domain.TicketActivity{{Ticket: ticket, DaysInProgress: 3}},
	}
}

func TestHandleActivityReport(t *testing.T) {
	t.Run("returns the aggregated report", func(t *testing.T) {
		service := mocks.NewMockReportService()
		service.On("BuildActivityReport", mock.Anything, mock.Anything).Return(sampleReport(t), nil)

		router := newReportRouter(service)
		req := httptest.NewRequest(stdhttp.MethodGet, "/reports/activity?project=ASA&start=2025-03-01&end=2025-03-31", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, stdhttp.StatusOK, w.Code)

		var dto ActivityReportDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))

		assert.Equal(t, "2025-03-01", dto.Range.Start)
		assert.Equal(t, "2025-03-31", dto.Range.End)
		assert.Equal(t, 1, dto.Totals.Tickets)
		assert.Equal(t, 5.0, dto.Totals.StoryPoints)

		// People are sorted by name for a stable payload.
		require.Len(t, dto.People, 2)
		assert.Equal(t, "Alice", dto.People[0].Person)
		assert.Equal(t, 1, dto.People[0].TotalActivity)
		assert.Equal(t, "Bob", dto.People[1].Person)
		assert.Equal(t, 1, dto.People[1].TotalActivity)

		require.Len(t, dto.Tickets, 1)
		assert.Equal(t, "ASA-1", dto.Tickets[0].Key)
		assert.Equal(t, "Alice", dto.Tickets[0].Assignee)
		assert.Equal(t, 3, dto.Tickets[0].DaysInProgress)
		assert.Equal(t, "https://example.atlassian.net/browse/ASA-1", dto.Tickets[0].URL)
	})

	t.Run("missing dates fail validation", func(t *testing.T) {
		service := mocks.NewMockReportService()
		router := newReportRouter(service)

		req := httptest.NewRequest(stdhttp.MethodGet, "/reports/activity?project=ASA", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, stdhttp.StatusUnprocessableEntity, w.Code)

		var resp ValidationErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Contains(t, resp.Fields, "start")
		assert.Contains(t, resp.Fields, "end")
		service.AssertNotCalled(t, "BuildActivityReport", mock.Anything, mock.Anything)
	})

	t.Run("malformed dates fail validation", func(t *testing.T) {
		service := mocks.NewMockReportService()
		router := newReportRouter(service)

		req := httptest.NewRequest(stdhttp.MethodGet, "/reports/activity?start=03-01-2025&end=2025-03-31", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, stdhttp.StatusUnprocessableEntity, w.Code)

		var resp ValidationErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Contains(t, resp.Fields, "start")
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		service := mocks.NewMockReportService()
		router := newReportRouter(service)

		req := httptest.NewRequest(stdhttp.MethodGet, "/reports/activity?start=2025-03-31&end=2025-03-01", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, stdhttp.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	})

	t.Run("lowercase project key is rejected", func(t *testing.T) {
		service := mocks.NewMockReportService()
		router := newReportRouter(service)

		req := httptest.NewRequest(stdhttp.MethodGet, "/reports/activity?project=asa&start=2025-03-01&end=2025-03-31", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, stdhttp.StatusUnprocessableEntity, w.Code)

		var resp ValidationErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Contains(t, resp.Fields, "project")
	})

	t.Run("jira auth failure maps to bad gateway", func(t *testing.T) {
		service := mocks.NewMockReportService()
		service.On("BuildActivityReport", mock.Anything, mock.Anything).Return(nil, apperrors.ErrJiraAuth)

		router := newReportRouter(service)
		req := httptest.NewRequest(stdhttp.MethodGet, "/reports/activity?start=2025-03-01&end=2025-03-31", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, stdhttp.StatusBadGateway, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "JIRA_AUTH_FAILED", resp.Code)
	})

	t.Run("jira outage maps to bad gateway", func(t *testing.T) {
		service := mocks.NewMockReportService()
		service.On("BuildActivityReport", mock.Anything, mock.Anything).Return(nil, apperrors.ErrJiraUnavailable)

		router := newReportRouter(service)
		req := httptest.NewRequest(stdhttp.MethodGet, "/reports/activity?start=2025-03-01&end=2025-03-31", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, stdhttp.StatusBadGateway, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "JIRA_UNAVAILABLE", resp.Code)
	})
}

func TestHandleListProjects(t *testing.T) {
	t.Run("returns the visible projects", func(t *testing.T) {
		service := mocks.NewMockReportService()
		service.On("ListProjects", mock.Anything).Return([]domain.Project{
			{Key: "ASA", Name: "Analytics"},
			{Key: "ASAP", Name: "Platform"},
		}, nil)

		router := newReportRouter(service)
		req := httptest.NewRequest(stdhttp.MethodGet, "/projects", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, stdhttp.StatusOK, w.Code)

		var resp ListResponse[ProjectDTO]
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "ASA", resp.Data[0].Key)
		assert.Equal(t, 2, resp.Count)
	})

	t.Run("empty project list is a valid response", func(t *testing.T) {
		service := mocks.NewMockReportService()
		service.On("ListProjects", mock.Anything).Return([]domain.Project{}, nil)

		router := newReportRouter(service)
		req := httptest.NewRequest(stdhttp.MethodGet, "/projects", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, stdhttp.StatusOK, w.Code)

		var resp ListResponse[ProjectDTO]
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Empty(t, resp.Data)
		assert.Equal(t, 0, resp.Count)
	})
}
