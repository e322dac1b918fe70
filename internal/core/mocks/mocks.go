package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/asahq/jira-analytics-backend/internal/core/domain"
	"github.com/asahq/jira-analytics-backend/internal/core/ports"
)

// MockTicketSource is a mock implementation of ports.TicketSource
type MockTicketSource struct {
	mock.Mock
}

func NewMockTicketSource() *MockTicketSource {
	return &MockTicketSource{}
}

func (m *MockTicketSource) Verify(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTicketSource) ListProjects(ctx context.Context) ([]domain.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockTicketSource) SearchTickets(ctx context.Context, query ports.TicketQuery) ([]domain.Ticket, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

// MockReportService is a mock implementation of ports.ReportService
type MockReportService struct {
	mock.Mock
}

func NewMockReportService() *MockReportService {
	return &MockReportService{}
}

func (m *MockReportService) BuildActivityReport(ctx context.Context, params ports.BuildReportParams) (*domain.ActivityReport, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActivityReport), args.Error(1)
}

func (m *MockReportService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

// MockExporter is a mock implementation of ports.Exporter
type MockExporter struct {
	mock.Mock
}

func NewMockExporter() *MockExporter {
	return &MockExporter{}
}

func (m *MockExporter) Push(ctx context.Context, tickets []domain.Ticket, report *domain.ActivityReport) (*domain.ExportAck, error) {
	args := m.Called(ctx, tickets, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExportAck), args.Error(1)
}
