package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/soldi-app/soldi-backend/internal/domain"
)

// SettingsRepository implements domain.SettingsRepository using PostgreSQL.
// The forecast_settings table holds a single row keyed by id = 1.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

const settingsColumns = `daily_rate, pension_monthly, payment_delay_days, use_manual_estimates, estimated_fixed, estimated_variable, estimated_bills, use_custom_initial_balance, initial_balance, initial_balance_date, include_drafts, updated_at`

func scanSettings(row pgx.Row) (*domain.ForecastSettings, error) {
	var s domain.ForecastSettings
	var dailyRate, pension, estFixed, estVariable, estBills, initial pgtype.Numeric

	err := row.Scan(
		&dailyRate,
		&pension,
		&s.PaymentDelayDays,
		&s.UseManualEstimates,
		&estFixed,
		&estVariable,
		&estBills,
		&s.UseCustomInitialBalance,
		&initial,
		&s.InitialBalanceDate,
		&s.IncludeDrafts,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.DailyRate = pgNumericToDecimal(dailyRate)
	s.PensionMonthly = pgNumericToDecimal(pension)
	s.EstimatedFixed = pgNumericToDecimal(estFixed)
	s.EstimatedVariable = pgNumericToDecimal(estVariable)
	s.EstimatedBills = pgNumericToDecimal(estBills)
	s.InitialBalance = pgNumericToDecimal(initial)
	return &s, nil
}

// Get retrieves the settings row
func (r *SettingsRepository) Get() (*domain.ForecastSettings, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+settingsColumns+` FROM forecast_settings WHERE id = 1`)

	settings, err := scanSettings(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return settings, nil
}

// Update upserts the settings row
func (r *SettingsRepository) Update(settings *domain.ForecastSettings) (*domain.ForecastSettings, error) {
	ctx := context.Background()

	dailyRate, err := decimalToPgNumeric(settings.DailyRate)
	if err != nil {
		return nil, fmt.Errorf("invalid daily rate: %w", err)
	}
	pension, err := decimalToPgNumeric(settings.PensionMonthly)
	if err != nil {
		return nil, fmt.Errorf("invalid pension amount: %w", err)
	}
	estFixed, err := decimalToPgNumeric(settings.EstimatedFixed)
	if err != nil {
		return nil, fmt.Errorf("invalid fixed estimate: %w", err)
	}
	estVariable, err := decimalToPgNumeric(settings.EstimatedVariable)
	if err != nil {
		return nil, fmt.Errorf("invalid variable estimate: %w", err)
	}
	estBills, err := decimalToPgNumeric(settings.EstimatedBills)
	if err != nil {
		return nil, fmt.Errorf("invalid bills estimate: %w", err)
	}
	initial, err := decimalToPgNumeric(settings.InitialBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid initial balance: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO forecast_settings (id, daily_rate, pension_monthly, payment_delay_days, use_manual_estimates,
			estimated_fixed, estimated_variable, estimated_bills,
			use_custom_initial_balance, initial_balance, initial_balance_date, include_drafts)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			daily_rate = EXCLUDED.daily_rate,
			pension_monthly = EXCLUDED.pension_monthly,
			payment_delay_days = EXCLUDED.payment_delay_days,
			use_manual_estimates = EXCLUDED.use_manual_estimates,
			estimated_fixed = EXCLUDED.estimated_fixed,
			estimated_variable = EXCLUDED.estimated_variable,
			estimated_bills = EXCLUDED.estimated_bills,
			use_custom_initial_balance = EXCLUDED.use_custom_initial_balance,
			initial_balance = EXCLUDED.initial_balance,
			initial_balance_date = EXCLUDED.initial_balance_date,
			include_drafts = EXCLUDED.include_drafts,
			updated_at = now()
		RETURNING `+settingsColumns,
		dailyRate, pension, settings.PaymentDelayDays, settings.UseManualEstimates,
		estFixed, estVariable, estBills,
		settings.UseCustomInitialBalance, initial, settings.InitialBalanceDate,
		settings.IncludeDrafts,
	)
	return scanSettings(row)
}
