package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"road-vision/internal/domain/port"
)

// Снимки лежат в двух корзинах: исходники и размеченные копии.
const (
	originalBucket = "operation_images/original"
	operatedBucket = "operation_images/operated"
)

// FileStore хранит снимки на диске под корневым каталогом медиа.
type FileStore struct {
	root string
}

// NewFileStore создаёт хранилище и каталоги корзин.
func NewFileStore(root string) (*FileStore, error) {
	for _, bucket := range []string{originalBucket, operatedBucket} {
		if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("create media bucket: %w", err)
		}
	}
	return &FileStore{root: root}, nil
}

// SaveOriginal сохраняет исходный снимок под новым ключом.
func (s *FileStore) SaveOriginal(data []byte, contentType string) (string, error) {
	name := uuid.NewString() + extensionFor(contentType)
	key := filepath.ToSlash(filepath.Join(originalBucket, name))
	if err := os.WriteFile(filepath.Join(s.root, key), data, 0o644); err != nil {
		return "", fmt.Errorf("write original image: %w", err)
	}
	return key, nil
}

// SaveAnnotated перезаписывает размеченную копию снимка.
// Имя детерминированное, поэтому повторная разметка не плодит файлы.
func (s *FileStore) SaveAnnotated(imageID uint, data []byte) (string, error) {
	key := filepath.ToSlash(filepath.Join(operatedBucket, fmt.Sprintf("%d_labeled.jpg", imageID)))
	if err := os.WriteFile(filepath.Join(s.root, key), data, 0o644); err != nil {
		return "", fmt.Errorf("write annotated image: %w", err)
	}
	return key, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}

// Проверка реализации интерфейса
var _ port.ArtifactStore = (*FileStore)(nil)
