package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// ImageUpload один файл из принятой партии
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// ImageResult итог обработки одного снимка
type ImageResult struct {
	ImageID uint // 0, если снимок не удалось сохранить
	Err     error
}

// OK сообщает, обработан ли снимок без ошибок.
func (r ImageResult) OK() bool {
	return r.Err == nil
}

// BatchSummary итог обработки партии снимков
type BatchSummary struct {
	Results []ImageResult
}

// SuccessCount возвращает число полностью обработанных снимков.
func (s BatchSummary) SuccessCount() int {
	n := 0
	for _, r := range s.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// DetectionPipeline прогоняет партию снимков через детектор повреждений.
type DetectionPipeline struct {
	ops           port.OperationRepository
	detector      port.DamageDetector
	renderer      port.BoxRenderer
	artifacts     port.ArtifactStore
	detectTimeout time.Duration
}

// NewDetectionPipeline создаёт пайплайн обработки партий.
func NewDetectionPipeline(
	ops port.OperationRepository,
	detector port.DamageDetector,
	renderer port.BoxRenderer,
	artifacts port.ArtifactStore,
	detectTimeout time.Duration,
) *DetectionPipeline {
	return &DetectionPipeline{
		ops:           ops,
		detector:      detector,
		renderer:      renderer,
		artifacts:     artifacts,
		detectTimeout: detectTimeout,
	}
}

// Process создаёт операцию и обрабатывает снимки по одному в порядке отправки.
// Сбой одного снимка не прерывает партию и не откатывает операцию:
// детекция — необязательное обогащение, операция существует в любом случае.
func (p *DetectionPipeline) Process(ctx context.Context, uploads []ImageUpload, longitude, latitude float64) (*entity.Operation, BatchSummary, error) {
	op, err := p.ops.CreateOperation(ctx)
	if err != nil {
		return nil, BatchSummary{}, fmt.Errorf("create operation: %w", err)
	}

	summary := BatchSummary{Results: make([]ImageResult, 0, len(uploads))}
	for _, upload := range uploads {
		res := p.processImage(ctx, op.ID, upload, longitude, latitude)
		if res.Err != nil {
			log.Printf("Image processing failed for operation %d: %v", op.ID, res.Err)
		}
		summary.Results = append(summary.Results, res)
	}

	log.Printf("Processed %d/%d images for operation %d", summary.SuccessCount(), len(uploads), op.ID)
	return op, summary, nil
}

func (p *DetectionPipeline) processImage(ctx context.Context, operationID uint, upload ImageUpload, longitude, latitude float64) ImageResult {
	key, err := p.artifacts.SaveOriginal(upload.Data, upload.ContentType)
	if err != nil {
		return ImageResult{Err: fmt.Errorf("save original: %w", err)}
	}

	img := &entity.OperationImage{
		OperationID:  operationID,
		Longitude:    longitude,
		Latitude:     latitude,
		OriginalPath: key,
	}
	if err := p.ops.AddImage(ctx, img); err != nil {
		return ImageResult{Err: fmt.Errorf("save image record: %w", err)}
	}

	detections, err := p.detect(ctx, upload.Data)
	if err != nil {
		return ImageResult{ImageID: img.ID, Err: fmt.Errorf("detect: %w", err)}
	}

	for _, det := range detections {
		finding := entity.NewFinding(img.ID, det)
		if err := p.ops.AddFinding(ctx, &finding); err != nil {
			return ImageResult{ImageID: img.ID, Err: fmt.Errorf("save finding: %w", err)}
		}
	}

	if len(detections) > 0 {
		if err := p.annotate(ctx, img, upload.Data, detections); err != nil {
			// Разметка — необязательное обогащение: снимок остаётся без размеченной копии.
			log.Printf("Annotation failed for image %d: %v", img.ID, err)
		}
	}

	return ImageResult{ImageID: img.ID}
}

// detect ограничивает время одного инференса, чтобы зависший вызов
// засчитывался как сбой только этого снимка.
func (p *DetectionPipeline) detect(ctx context.Context, imageData []byte) ([]entity.RawDetection, error) {
	if p.detectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.detectTimeout)
		defer cancel()
	}
	return p.detector.Detect(ctx, imageData)
}

func (p *DetectionPipeline) annotate(ctx context.Context, img *entity.OperationImage, imageData []byte, detections []entity.RawDetection) error {
	rendered, err := p.renderer.Render(imageData, detections)
	if err != nil {
		return fmt.Errorf("render boxes: %w", err)
	}

	key, err := p.artifacts.SaveAnnotated(img.ID, rendered)
	if err != nil {
		return fmt.Errorf("save annotated: %w", err)
	}

	if err := p.ops.SetAnnotated(ctx, img.ID, key); err != nil {
		return fmt.Errorf("update image record: %w", err)
	}

	img.OperatedPath = key
	return nil
}
