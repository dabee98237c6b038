package repository

import (
	"context"

	"github.com/kai-65537/AOLOT-scoreboard/internal/models"
)

// LoadRepository records configuration load attempts
type LoadRepository interface {
	RecordLoad(ctx context.Context, load models.ConfigLoad) error
	ListLoads(ctx context.Context, limit int) ([]models.ConfigLoad, error)
	LastSuccessfulLoad(ctx context.Context) (*models.ConfigLoad, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FullRepository combines all repository interfaces
type FullRepository interface {
	LoadRepository
	SettingsRepository
	Ping(ctx context.Context) error
	Close() error
}

// Ensure Repository implements FullRepository
var _ FullRepository = (*Repository)(nil)
