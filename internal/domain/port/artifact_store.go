package port

// ArtifactStore интерфейс хранилища файлов снимков
type ArtifactStore interface {
	// SaveOriginal сохраняет исходный снимок под новым ключом
	SaveOriginal(data []byte, contentType string) (string, error)

	// SaveAnnotated сохраняет размеченную копию снимка.
	// Имя детерминированное по id снимка: повторная разметка перезаписывает файл.
	SaveAnnotated(imageID uint, data []byte) (string, error)
}
