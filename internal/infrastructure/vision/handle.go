package vision

import (
	"context"
	"fmt"
	"sync"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// Backend объединяет инференс и отрисовку одной реализации модели.
type Backend interface {
	port.DamageDetector
	port.BoxRenderer
}

// ModelHandle — ленивый общий доступ к модели детекции.
// Модель дорогая в конструировании и создаётся ровно один раз на процесс,
// при первом обращении. Ошибка конструирования кэшируется и отдаётся
// всем последующим вызовам — повторных попыток с новым экземпляром нет.
type ModelHandle struct {
	factory func() (Backend, error)

	once    sync.Once
	backend Backend
	err     error

	// Net в gocv не рассчитан на параллельный Forward, поэтому
	// вызовы инференса сериализуются.
	mu sync.Mutex
}

// NewModelHandle создаёт хэндл с фабрикой модели.
func NewModelHandle(factory func() (Backend, error)) *ModelHandle {
	return &ModelHandle{factory: factory}
}

func (h *ModelHandle) get() (Backend, error) {
	h.once.Do(func() {
		h.backend, h.err = h.factory()
	})
	if h.err != nil {
		return nil, fmt.Errorf("model is not available: %w", h.err)
	}
	return h.backend, nil
}

// Detect выполняет инференс через общий экземпляр модели.
func (h *ModelHandle) Detect(ctx context.Context, imageData []byte) ([]entity.RawDetection, error) {
	backend, err := h.get()
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return backend.Detect(ctx, imageData)
}

// Render рисует детекции той же моделью; отрисовка не трогает сеть
// и не требует сериализации.
func (h *ModelHandle) Render(imageData []byte, detections []entity.RawDetection) ([]byte, error) {
	backend, err := h.get()
	if err != nil {
		return nil, err
	}
	return backend.Render(imageData, detections)
}

// Проверка реализации интерфейсов
var (
	_ port.DamageDetector = (*ModelHandle)(nil)
	_ port.BoxRenderer    = (*ModelHandle)(nil)
)
