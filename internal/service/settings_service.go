package service

import (
	"errors"

	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/websocket"
)

// SettingsService handles the household forecast settings
type SettingsService struct {
	settingsRepo   domain.SettingsRepository
	eventPublisher websocket.EventPublisher
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo domain.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SettingsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// GetSettings returns the current settings, falling back to defaults when
// nothing has been saved yet
func (s *SettingsService) GetSettings() (*domain.ForecastSettings, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DefaultForecastSettings(), nil
		}
		return nil, err
	}
	return settings, nil
}

// UpdateSettings validates and persists the settings row
func (s *SettingsService) UpdateSettings(settings *domain.ForecastSettings) (*domain.ForecastSettings, error) {
	if settings.DailyRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if settings.PensionMonthly.IsNegative() || settings.PaymentDelayDays < 0 {
		return nil, domain.ErrInvalidInput
	}
	if settings.EstimatedFixed.IsNegative() || settings.EstimatedVariable.IsNegative() || settings.EstimatedBills.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if settings.UseCustomInitialBalance && settings.InitialBalanceDate == nil {
		return nil, domain.ErrInvalidInput
	}

	updated, err := s.settingsRepo.Update(settings)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.SettingsUpdated(updated))
	}
	return updated, nil
}
