package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabasePath  string
	MediaDir      string
	ModelPath     string
	BaseURL       string
	DetectTimeout time.Duration
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	timeoutMs, err := strconv.Atoi(getEnv("DETECT_TIMEOUT_MS", "30000"))
	if err != nil {
		return nil, fmt.Errorf("invalid DETECT_TIMEOUT_MS: %w", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "road-vision.db"),
		MediaDir:      getEnv("MEDIA_DIR", "media"),
		ModelPath:     getEnv("MODEL_PATH", "models/best.onnx"),
		BaseURL:       os.Getenv("BASE_URL"),
		DetectTimeout: time.Duration(timeoutMs) * time.Millisecond,
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
