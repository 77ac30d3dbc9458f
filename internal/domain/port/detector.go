package port

import (
	"context"

	"road-vision/internal/domain/entity"
)

// DamageDetector интерфейс детектора повреждений
type DamageDetector interface {
	// Detect анализирует изображение и возвращает сырые детекции модели
	Detect(ctx context.Context, imageData []byte) ([]entity.RawDetection, error)
}

// BoxRenderer интерфейс отрисовки найденных повреждений
type BoxRenderer interface {
	// Render возвращает копию изображения с рамками и подписями детекций
	Render(imageData []byte, detections []entity.RawDetection) ([]byte, error)
}
