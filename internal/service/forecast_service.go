package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/engine"
	"github.com/soldi-app/soldi-backend/internal/util"
)

// ForecastService wires the persistence layer to the forecast engine. The
// engine itself is pure; this service fetches the input snapshot, resolves
// the starting-balance policy, and hands everything over in one call.
type ForecastService struct {
	expenseRepo  domain.ExpenseRepository
	invoiceRepo  domain.InvoiceRepository
	settingsRepo domain.SettingsRepository
	now          func() time.Time
}

// NewForecastService creates a new ForecastService
func NewForecastService(expenseRepo domain.ExpenseRepository, invoiceRepo domain.InvoiceRepository, settingsRepo domain.SettingsRepository) *ForecastService {
	return &ForecastService{
		expenseRepo:  expenseRepo,
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		now:          time.Now,
	}
}

// SetClock overrides the reference time source, for tests
func (s *ForecastService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *ForecastService) loadSettings() (*domain.ForecastSettings, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		if err == domain.ErrNotFound {
			return domain.DefaultForecastSettings(), nil
		}
		return nil, err
	}
	return settings, nil
}

// GetSnapshot builds the classified monthly snapshot for the given month key,
// defaulting to the current month
func (s *ForecastService) GetSnapshot(monthKey string) (*domain.MonthlySnapshot, error) {
	if monthKey == "" {
		monthKey = util.MonthKey(s.now().UTC())
	}
	if _, err := util.ParseMonthKey(monthKey); err != nil {
		return nil, domain.ErrInvalidInput
	}

	expenses, err := s.expenseRepo.List(&domain.ExpenseFilters{})
	if err != nil {
		return nil, err
	}

	return engine.BuildSnapshot(expenses, monthKey), nil
}

// GetForecast produces the rolling 12-month cash-flow projection together
// with the historical comparison baseline
func (s *ForecastService) GetForecast() (*domain.ForecastResult, error) {
	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	expenses, err := s.expenseRepo.List(&domain.ExpenseFilters{})
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.List(&domain.InvoiceFilters{})
	if err != nil {
		return nil, err
	}

	snapshot := engine.BuildSnapshot(expenses, util.MonthKey(now))
	history := engine.AggregateHistory(invoices, settings.DailyRate, now)
	starting := s.startingBalance(settings, invoices, expenses, now)

	return engine.Forecast(invoices, snapshot, history, settings, starting, now), nil
}

// startingBalance resolves the starting-balance policy: the user's real
// banking balance when configured, otherwise the carryover derived from the
// last three completed months of realized cash flow.
func (s *ForecastService) startingBalance(settings *domain.ForecastSettings, invoices []*domain.InvoiceRecord, expenses []*domain.ExpenseRecord, now time.Time) decimal.Decimal {
	if settings.UseCustomInitialBalance {
		return settings.InitialBalance
	}
	return engine.CarryoverBalance(invoices, expenses, now)
}

// GetHistory returns the trailing-12-month realized income summary
func (s *ForecastService) GetHistory() (*domain.HistoricalSummary, error) {
	settings, err := s.loadSettings()
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.List(&domain.InvoiceFilters{})
	if err != nil {
		return nil, err
	}

	return engine.AggregateHistory(invoices, settings.DailyRate, s.now().UTC()), nil
}

// GetPensionProjection computes the future value of a monthly contribution.
// A zero contribution falls back to the configured monthly pension amount.
func (s *ForecastService) GetPensionProjection(monthlyContribution decimal.Decimal, years int, annualRate decimal.Decimal) (*domain.PensionProjection, error) {
	if years < 0 || annualRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	if monthlyContribution.IsZero() {
		settings, err := s.loadSettings()
		if err != nil {
			return nil, err
		}
		monthlyContribution = settings.PensionMonthly
	}

	return engine.ProjectPension(monthlyContribution, years, annualRate), nil
}

// GetRequiredContribution solves for the monthly contribution needed to
// reach a target amount
func (s *ForecastService) GetRequiredContribution(target decimal.Decimal, years int, annualRate decimal.Decimal) (decimal.Decimal, error) {
	if target.LessThanOrEqual(decimal.Zero) || years <= 0 || annualRate.IsNegative() {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return engine.RequiredContribution(target, years, annualRate), nil
}
