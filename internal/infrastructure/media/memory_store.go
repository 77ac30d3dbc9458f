package media

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"road-vision/internal/domain/port"
)

// MemoryStore in-memory хранилище снимков для тестов
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryStore создаёт новое in-memory хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

// SaveOriginal сохраняет исходный снимок под новым ключом
func (s *MemoryStore) SaveOriginal(data []byte, contentType string) (string, error) {
	key := originalBucket + "/" + uuid.NewString() + extensionFor(contentType)
	s.mu.Lock()
	s.files[key] = data
	s.mu.Unlock()
	return key, nil
}

// SaveAnnotated перезаписывает размеченную копию снимка
func (s *MemoryStore) SaveAnnotated(imageID uint, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%d_labeled.jpg", operatedBucket, imageID)
	s.mu.Lock()
	s.files[key] = data
	s.mu.Unlock()
	return key, nil
}

// Get возвращает сохранённые байты по ключу
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[key]
	return data, ok
}

// Len возвращает число сохранённых файлов
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Проверка реализации интерфейса
var _ port.ArtifactStore = (*MemoryStore)(nil)
