package storage

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"road-vision/internal/domain/entity"
)

// Open открывает базу SQLite и выполняет автомиграцию схемы.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Каскадные связи объявлены на моделях: удаление операции
	// уносит её снимки и их находки.
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Operation{},
		&entity.OperationImage{},
		&entity.Finding{},
		&entity.Report{},
	); err != nil {
		return nil, fmt.Errorf("auto migration failed: %w", err)
	}

	return db, nil
}
