package mock

import (
	"context"

	"github.com/kai-65537/AOLOT-scoreboard/internal/models"
	"github.com/kai-65537/AOLOT-scoreboard/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.RecordLoadError = errors.New("database error")
//	svc := services.NewScoreboardService(log, state, mockRepo)
//	// loads still succeed; the audit failure is only logged
type Repository struct {
	repository.FullRepository

	RecordLoadError         error
	ListLoadsError          error
	LastSuccessfulLoadError error
	GetSettingError         error
	SetSettingError         error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{FullRepository: real}
}

func (m *Repository) RecordLoad(ctx context.Context, load models.ConfigLoad) error {
	if m.RecordLoadError != nil {
		return m.RecordLoadError
	}
	return m.FullRepository.RecordLoad(ctx, load)
}

func (m *Repository) ListLoads(ctx context.Context, limit int) ([]models.ConfigLoad, error) {
	if m.ListLoadsError != nil {
		return nil, m.ListLoadsError
	}
	return m.FullRepository.ListLoads(ctx, limit)
}

func (m *Repository) LastSuccessfulLoad(ctx context.Context) (*models.ConfigLoad, error) {
	if m.LastSuccessfulLoadError != nil {
		return nil, m.LastSuccessfulLoadError
	}
	return m.FullRepository.LastSuccessfulLoad(ctx)
}

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}
