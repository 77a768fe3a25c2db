package main

import (
	"log/slog"
	"os"

	"github.com/pressdeck/pressdeck/internal/storage/factory"
	"github.com/pressdeck/pressdeck/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type APIConfig struct {
	StorageConfig factory.Config
}

func (as *AppConfig) Load() (*APIConfig, error) {
	if err := env.LoadDotEnv(as.ENV, "cmd/api/.env"); err != nil {
		slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, err
	}

	return &APIConfig{
		StorageConfig: *storageCfg,
	}, nil
}
