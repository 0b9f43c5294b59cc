package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/soldi-app/soldi-backend/internal/domain"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, name, description, amount, expense_date, category, bill_type, recurring, is_paid, receipt_path, created_at, updated_at`

func scanExpense(row pgx.Row) (*domain.ExpenseRecord, error) {
	var e domain.ExpenseRecord
	var description *string
	var amount pgtype.Numeric
	var billType *string

	err := row.Scan(
		&e.ID,
		&e.Name,
		&description,
		&amount,
		&e.Date,
		&e.Category,
		&billType,
		&e.Recurring,
		&e.IsPaid,
		&e.ReceiptPath,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Amount = pgNumericToDecimal(amount)
	if description != nil {
		e.Description = *description
	}
	if billType != nil {
		bt := domain.BillType(*billType)
		e.BillType = &bt
	}
	return &e, nil
}

// Create creates a new expense
func (r *ExpenseRepository) Create(expense *domain.ExpenseRecord) (*domain.ExpenseRecord, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var description *string
	if expense.Description != "" {
		description = &expense.Description
	}
	var billType *string
	if expense.BillType != nil {
		bt := string(*expense.BillType)
		billType = &bt
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (id, name, description, amount, expense_date, category, bill_type, recurring, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+expenseColumns,
		expense.ID, expense.Name, description, amount, expense.Date,
		string(expense.Category), billType, expense.Recurring, expense.IsPaid,
	)
	return scanExpense(row)
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(id uuid.UUID) (*domain.ExpenseRecord, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)

	expense, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// List retrieves expenses matching the filters, newest first
func (r *ExpenseRepository) List(filters *domain.ExpenseFilters) ([]*domain.ExpenseRecord, error) {
	ctx := context.Background()

	var conditions []string
	var args []interface{}

	if filters != nil {
		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			conditions = append(conditions, fmt.Sprintf("expense_date >= $%d", len(args)))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			conditions = append(conditions, fmt.Sprintf("expense_date <= $%d", len(args)))
		}
		if filters.Category != nil {
			args = append(args, string(*filters.Category))
			conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
		}
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY expense_date DESC, created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.ExpenseRecord
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Update updates an existing expense
func (r *ExpenseRepository) Update(expense *domain.ExpenseRecord) (*domain.ExpenseRecord, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var description *string
	if expense.Description != "" {
		description = &expense.Description
	}
	var billType *string
	if expense.BillType != nil {
		bt := string(*expense.BillType)
		billType = &bt
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET name = $2, description = $3, amount = $4, expense_date = $5,
		    category = $6, bill_type = $7, recurring = $8, is_paid = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+expenseColumns,
		expense.ID, expense.Name, description, amount, expense.Date,
		string(expense.Category), billType, expense.Recurring, expense.IsPaid,
	)

	updated, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// TogglePaid flips the paid flag on an expense. A NULL flag counts as paid,
// so toggling it yields an explicit false.
func (r *ExpenseRepository) TogglePaid(id uuid.UUID) (*domain.ExpenseRecord, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET is_paid = NOT COALESCE(is_paid, true), updated_at = now()
		WHERE id = $1
		RETURNING `+expenseColumns, id)

	updated, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SetReceiptPath sets or clears the receipt object path on an expense
func (r *ExpenseRepository) SetReceiptPath(id uuid.UUID, path *string) (*domain.ExpenseRecord, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE expenses
		SET receipt_path = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+expenseColumns, id, path)

	updated, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}
