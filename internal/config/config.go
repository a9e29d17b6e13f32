package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"aoe4coach/internal/aoe4world"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	AoE4World  aoe4world.Config
	DataPath   string
	LogDir     string
	ReportsDir string
	// RulesPath optionally points at a YAML file overriding the built-in
	// analysis rules (thresholds, composition vocabulary, metric set).
	RulesPath string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	reportsDir := filepath.Join(dataPath, "reports")

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", reportsDir).Msg("Failed to create reports directory")
	}

	delaySecs, _ := strconv.Atoi(getEnv("AOE4WORLD_REQUEST_DELAY_SECONDS", "2"))

	cfg := &AppConfig{
		AoE4World: aoe4world.Config{
			BaseURL:      getEnv("AOE4WORLD_URL", "https://aoe4world.com"),
			DataURL:      getEnv("AOE4WORLD_DATA_URL", "https://data.aoe4world.com"),
			RequestDelay: time.Duration(delaySecs) * time.Second,
		},
		DataPath:   dataPath,
		LogDir:     logDir,
		ReportsDir: reportsDir,
		RulesPath:  getEnv("RULES_FILE", ""),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
