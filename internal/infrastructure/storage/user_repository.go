package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// UserRepository хранилище пользователей поверх GORM.
// Выпуском учётных данных занимается внешний сервис аутентификации,
// здесь пользователи только читаются и сохраняются.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, port.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Save(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*UserRepository)(nil)
