package app

import (
	"context"
	"errors"
	"log"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// StatusChange фиксирует прежний и новый статус для аудита.
type StatusChange struct {
	ReportID uint
	Old      entity.ReportStatus
	New      entity.ReportStatus
}

// ReportService управляет жизненным циклом обращений.
type ReportService struct {
	reports port.ReportRepository
	ops     port.OperationRepository
}

func NewReportService(reports port.ReportRepository, ops port.OperationRepository) *ReportService {
	return &ReportService{reports: reports, ops: ops}
}

// Submit создаёт обращение по ещё не занятой операции.
// Работнику создание недоступно; статус всегда начальный RECEIVED.
func (s *ReportService) Submit(ctx context.Context, actor *entity.User, operationID uint, description string) (*entity.Report, error) {
	if !entity.CanSubmitReport(actor) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.ops.GetOperation(ctx, operationID); err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, ErrOperationNotFound
		}
		return nil, err
	}

	claimed, err := s.reports.ExistsForOperation(ctx, operationID)
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, ErrOperationClaimed
	}

	report := entity.NewReport(operationID, actor.ID, description)
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// UpdateStatus переводит обращение в новый статус; доступно только работнику.
// Граф переходов свободный: проверяется лишь сам литерал статуса.
func (s *ReportService) UpdateStatus(ctx context.Context, actor *entity.User, reportID uint, status string) (*StatusChange, error) {
	if !entity.CanUpdateReportStatus(actor) {
		return nil, ErrPermissionDenied
	}

	parsed, ok := entity.ParseReportStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	old := report.SetStatus(parsed)
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}

	log.Printf("Report %d status: %s -> %s", report.ID, old, parsed)
	return &StatusChange{ReportID: report.ID, Old: old, New: parsed}, nil
}

// List возвращает обращения в зоне видимости пользователя:
// работник видит все, обычный пользователь — только свои.
func (s *ReportService) List(ctx context.Context, actor *entity.User, statusFilter string) ([]entity.Report, error) {
	if actor == nil {
		return nil, ErrPermissionDenied
	}

	filter := port.ReportFilter{}
	if statusFilter != "" {
		parsed, ok := entity.ParseReportStatus(statusFilter)
		if !ok {
			return nil, ErrInvalidStatus
		}
		filter.Status = &parsed
	}
	if !entity.CanViewAllReports(actor) {
		filter.UserID = &actor.ID
	}
	return s.reports.List(ctx, filter)
}

// Get возвращает одно обращение с учётом зоны видимости.
// Чужое обращение для обычного пользователя неотличимо от несуществующего.
func (s *ReportService) Get(ctx context.Context, actor *entity.User, reportID uint) (*entity.Report, error) {
	if actor == nil {
		return nil, ErrPermissionDenied
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if !entity.CanViewAllReports(actor) && report.UserID != actor.ID {
		return nil, ErrReportNotFound
	}
	return report, nil
}
