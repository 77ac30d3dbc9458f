package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
)

// MemoryStore in-memory хранилище для тестов и запуска без базы
type MemoryStore struct {
	mu sync.RWMutex

	lastOperationID uint
	lastImageID     uint
	lastFindingID   uint
	lastReportID    uint

	operations map[uint]struct{}
	images     map[uint]entity.OperationImage
	findings   map[uint]entity.Finding
	reports    map[uint]entity.Report
}

// NewMemoryStore создаёт новое in-memory хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		operations: make(map[uint]struct{}),
		images:     make(map[uint]entity.OperationImage),
		findings:   make(map[uint]entity.Finding),
		reports:    make(map[uint]entity.Report),
	}
}

// CreateOperation создаёт пустую операцию
func (s *MemoryStore) CreateOperation(ctx context.Context) (*entity.Operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastOperationID++
	s.operations[s.lastOperationID] = struct{}{}
	return &entity.Operation{ID: s.lastOperationID}, nil
}

// AddImage добавляет снимок к операции
func (s *MemoryStore) AddImage(ctx context.Context, image *entity.OperationImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.operations[image.OperationID]; !ok {
		return port.ErrNotFound
	}

	s.lastImageID++
	image.ID = s.lastImageID
	s.images[image.ID] = *image
	return nil
}

// AddFinding сохраняет находку по снимку
func (s *MemoryStore) AddFinding(ctx context.Context, finding *entity.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.images[finding.OperationImageID]; !ok {
		return port.ErrNotFound
	}

	s.lastFindingID++
	finding.ID = s.lastFindingID
	s.findings[finding.ID] = *finding
	return nil
}

// SetAnnotated проставляет снимку ссылку на размеченную копию
func (s *MemoryStore) SetAnnotated(ctx context.Context, imageID uint, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, ok := s.images[imageID]
	if !ok {
		return port.ErrNotFound
	}
	img.OperatedPath = path
	s.images[imageID] = img
	return nil
}

// GetOperation собирает операцию со снимками и находками
func (s *MemoryStore) GetOperation(ctx context.Context, id uint) (*entity.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.operations[id]; !ok {
		return nil, port.ErrNotFound
	}

	op := &entity.Operation{ID: id}
	for _, img := range s.images {
		if img.OperationID != id {
			continue
		}
		for _, f := range s.findings {
			if f.OperationImageID == img.ID {
				img.Findings = append(img.Findings, f)
			}
		}
		sort.Slice(img.Findings, func(a, b int) bool { return img.Findings[a].ID < img.Findings[b].ID })
		op.Images = append(op.Images, img)
	}
	// Снимки — в порядке добавления, то есть в порядке отправки.
	sort.Slice(op.Images, func(a, b int) bool { return op.Images[a].ID < op.Images[b].ID })
	return op, nil
}

// Create сохраняет новое обращение
func (s *MemoryStore) Create(ctx context.Context, report *entity.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastReportID++
	report.ID = s.lastReportID
	report.CreatedAt = time.Now()
	s.reports[report.ID] = *report
	return nil
}

// GetByID возвращает обращение по id
func (s *MemoryStore) GetByID(ctx context.Context, id uint) (*entity.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, port.ErrNotFound
	}
	return &report, nil
}

// Update перезаписывает обращение
func (s *MemoryStore) Update(ctx context.Context, report *entity.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[report.ID]; !ok {
		return port.ErrNotFound
	}
	s.reports[report.ID] = *report
	return nil
}

// ExistsForOperation сообщает, привязано ли к операции обращение
func (s *MemoryStore) ExistsForOperation(ctx context.Context, operationID uint) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, report := range s.reports {
		if report.OperationID == operationID {
			return true, nil
		}
	}
	return false, nil
}

// List возвращает обращения по фильтру, новые первыми
func (s *MemoryStore) List(ctx context.Context, filter port.ReportFilter) ([]entity.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]entity.Report, 0)
	for _, report := range s.reports {
		if filter.UserID != nil && report.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && report.Status != *filter.Status {
			continue
		}
		reports = append(reports, report)
	}
	sort.Slice(reports, func(a, b int) bool { return reports[a].ID > reports[b].ID })
	return reports, nil
}

// CountByStatus считает обращения в разрезе статусов
func (s *MemoryStore) CountByStatus(ctx context.Context) (map[entity.ReportStatus]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[entity.ReportStatus]int64)
	for _, report := range s.reports {
		counts[report.Status]++
	}
	return counts, nil
}

// Проверка реализации интерфейсов
var (
	_ port.OperationRepository = (*MemoryStore)(nil)
	_ port.ReportRepository    = (*MemoryStore)(nil)
)
