//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"road-vision/internal/domain/entity"
)

// YOLODetector детектор-заглушка (сборка без OpenCV)
type YOLODetector struct{}

// NewYOLODetector возвращает заглушку, если сборка без тега gocv.
// Операции при этом создаются без находок: пайплайн переживает
// отсутствие модели.
func NewYOLODetector(modelPath string) (*YOLODetector, error) {
	_ = modelPath
	return &YOLODetector{}, nil
}

// Close ничего не освобождает в заглушке.
func (d *YOLODetector) Close() error {
	return nil
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *YOLODetector) Detect(ctx context.Context, imageData []byte) ([]entity.RawDetection, error) {
	_ = ctx
	_ = imageData
	return nil, errors.New("gocv build tag is not enabled")
}

// Render возвращает ошибку, если сборка без тега gocv.
func (d *YOLODetector) Render(imageData []byte, detections []entity.RawDetection) ([]byte, error) {
	_ = imageData
	_ = detections
	return nil, errors.New("gocv build tag is not enabled")
}

var _ Backend = (*YOLODetector)(nil)
