package storage

import (
	"context"
	"sync"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей
type MemoryUserRepository struct {
	mu     sync.RWMutex
	lastID uint
	users  map[uint]entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[uint]entity.User),
	}
}

// GetByID возвращает пользователя по id
func (r *MemoryUserRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &user, nil
}

// Save сохраняет пользователя, присваивая id новому
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == 0 {
		r.lastID++
		user.ID = r.lastID
	} else if user.ID > r.lastID {
		r.lastID = user.ID
	}
	r.users[user.ID] = *user
	return nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
