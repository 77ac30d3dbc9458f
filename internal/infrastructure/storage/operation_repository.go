package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// OperationRepository хранилище операций поверх GORM
type OperationRepository struct {
	db *gorm.DB
}

func NewOperationRepository(db *gorm.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

// CreateOperation создаёт пустую операцию
func (r *OperationRepository) CreateOperation(ctx context.Context) (*entity.Operation, error) {
	op := &entity.Operation{}
	if err := r.db.WithContext(ctx).Create(op).Error; err != nil {
		return nil, err
	}
	return op, nil
}

// AddImage добавляет снимок к операции
func (r *OperationRepository) AddImage(ctx context.Context, image *entity.OperationImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// AddFinding сохраняет находку по снимку
func (r *OperationRepository) AddFinding(ctx context.Context, finding *entity.Finding) error {
	return r.db.WithContext(ctx).Create(finding).Error
}

// SetAnnotated проставляет снимку ссылку на размеченную копию
func (r *OperationRepository) SetAnnotated(ctx context.Context, imageID uint, path string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.OperationImage{}).
		Where("id = ?", imageID).
		Update("operated_path", path)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return port.ErrNotFound
	}
	return nil
}

// GetOperation возвращает операцию со снимками и находками
func (r *OperationRepository) GetOperation(ctx context.Context, id uint) (*entity.Operation, error) {
	var op entity.Operation
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("operation_images.id") }).
		Preload("Images.Findings").
		First(&op, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, port.ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// Проверка реализации интерфейса
var _ port.OperationRepository = (*OperationRepository)(nil)
