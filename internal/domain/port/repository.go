package port

import (
	"context"
	"errors"

	"road-vision/internal/domain/entity"
)

// ErrNotFound возвращают хранилища, когда запись отсутствует.
var ErrNotFound = errors.New("record not found")

// OperationRepository интерфейс хранилища операций
type OperationRepository interface {
	// CreateOperation создаёт пустую операцию — корень одной отправки
	CreateOperation(ctx context.Context) (*entity.Operation, error)

	// AddImage добавляет снимок к операции и присваивает ему id
	AddImage(ctx context.Context, image *entity.OperationImage) error

	// AddFinding сохраняет находку по снимку
	AddFinding(ctx context.Context, finding *entity.Finding) error

	// SetAnnotated проставляет снимку ссылку на размеченную копию
	SetAnnotated(ctx context.Context, imageID uint, path string) error

	// GetOperation возвращает операцию со снимками (в порядке добавления) и находками
	GetOperation(ctx context.Context, id uint) (*entity.Operation, error)
}

// ReportFilter параметры выборки обращений
type ReportFilter struct {
	UserID *uint
	Status *entity.ReportStatus
}

// ReportRepository интерфейс хранилища обращений
type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id uint) (*entity.Report, error)
	Update(ctx context.Context, report *entity.Report) error

	// ExistsForOperation сообщает, привязано ли к операции обращение
	ExistsForOperation(ctx context.Context, operationID uint) (bool, error)

	// List возвращает обращения по фильтру, новые первыми
	List(ctx context.Context, filter ReportFilter) ([]entity.Report, error)

	// CountByStatus считает обращения в разрезе статусов
	CountByStatus(ctx context.Context) (map[entity.ReportStatus]int64, error)
}

// UserRepository интерфейс хранилища пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
}
