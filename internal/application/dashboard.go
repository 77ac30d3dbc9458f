package app

import (
	"context"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// DashboardSummary счётчики обращений по статусам.
type DashboardSummary struct {
	Total      int64 `json:"total"`
	Received   int64 `json:"received"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

// DashboardService строит сводку по всем обращениям.
type DashboardService struct {
	reports port.ReportRepository
}

func NewDashboardService(reports port.ReportRepository) *DashboardService {
	return &DashboardService{reports: reports}
}

// Summarize считает обращения по статусам; доступно только работнику.
// Total всегда равен сумме четырёх счётчиков.
func (s *DashboardService) Summarize(ctx context.Context, actor *entity.User) (*DashboardSummary, error) {
	if !entity.CanViewDashboard(actor) {
		return nil, ErrPermissionDenied
	}

	counts, err := s.reports.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Received:   counts[entity.StatusReceived],
		Pending:    counts[entity.StatusPending],
		InProgress: counts[entity.StatusInProgress],
		Completed:  counts[entity.StatusCompleted],
	}
	summary.Total = summary.Received + summary.Pending + summary.InProgress + summary.Completed
	return summary, nil
}
