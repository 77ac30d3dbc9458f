package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// ReportRepository хранилище обращений поверх GORM
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *entity.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) GetByID(ctx context.Context, id uint) (*entity.Report, error) {
	var report entity.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, port.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) Update(ctx context.Context, report *entity.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

// ExistsForOperation сообщает, привязано ли к операции обращение
func (r *ReportRepository) ExistsForOperation(ctx context.Context, operationID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Report{}).
		Where("operation_id = ?", operationID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List возвращает обращения по фильтру, новые первыми
func (r *ReportRepository) List(ctx context.Context, filter port.ReportFilter) ([]entity.Report, error) {
	q := r.db.WithContext(ctx).Model(&entity.Report{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var reports []entity.Report
	if err := q.Order("id desc").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// CountByStatus считает обращения в разрезе статусов
func (r *ReportRepository) CountByStatus(ctx context.Context) (map[entity.ReportStatus]int64, error) {
	var rows []struct {
		Status entity.ReportStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Report{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.ReportStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Проверка реализации интерфейса
var _ port.ReportRepository = (*ReportRepository)(nil)
