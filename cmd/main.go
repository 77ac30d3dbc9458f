package main

import (
	"log"

	"road-vision/config"
	"road-vision/internal/api"
	"road-vision/internal/container"
	"road-vision/internal/infrastructure/media"
	"road-vision/internal/infrastructure/storage"
	"road-vision/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	artifacts, err := media.NewFileStore(cfg.MediaDir)
	if err != nil {
		log.Fatalf("Failed to prepare media storage: %v", err)
	}

	// Модель строится лениво при первом обращении; хэндл гарантирует
	// единственный экземпляр на процесс.
	model := vision.NewModelHandle(func() (vision.Backend, error) {
		return vision.NewYOLODetector(cfg.ModelPath)
	})

	appContainer := container.New(
		storage.NewOperationRepository(db),
		storage.NewReportRepository(db),
		model,
		model,
		artifacts,
		cfg.DetectTimeout,
	)

	server := api.NewServer(appContainer, storage.NewUserRepository(db), cfg.MediaDir, cfg.BaseURL)

	log.Printf("Server is running on :%s", cfg.Port)
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
