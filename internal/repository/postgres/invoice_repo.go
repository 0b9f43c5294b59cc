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

// InvoiceRepository implements domain.InvoiceRepository using PostgreSQL
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

const invoiceColumns = `id, client_name, invoice_date, due_date, total_amount, paid_amount, remaining_amount, status, paid_date, created_at, updated_at`

func scanInvoice(row pgx.Row) (*domain.InvoiceRecord, error) {
	var i domain.InvoiceRecord
	var total, paid, remaining pgtype.Numeric

	err := row.Scan(
		&i.ID,
		&i.ClientName,
		&i.InvoiceDate,
		&i.DueDate,
		&total,
		&paid,
		&remaining,
		&i.Status,
		&i.PaidDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	i.TotalAmount = pgNumericToDecimal(total)
	i.PaidAmount = pgNumericToDecimal(paid)
	i.RemainingAmount = pgNumericToDecimal(remaining)
	return &i, nil
}

// Create creates a new invoice
func (r *InvoiceRepository) Create(invoice *domain.InvoiceRecord) (*domain.InvoiceRecord, error) {
	ctx := context.Background()

	total, err := decimalToPgNumeric(invoice.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}
	paid, err := decimalToPgNumeric(invoice.PaidAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid paid amount: %w", err)
	}
	remaining, err := decimalToPgNumeric(invoice.RemainingAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid remaining amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO invoices (id, client_name, invoice_date, due_date, total_amount, paid_amount, remaining_amount, status, paid_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+invoiceColumns,
		invoice.ID, invoice.ClientName, invoice.InvoiceDate, invoice.DueDate,
		total, paid, remaining, string(invoice.Status), invoice.PaidDate,
	)
	return scanInvoice(row)
}

// GetByID retrieves an invoice by ID
func (r *InvoiceRepository) GetByID(id uuid.UUID) (*domain.InvoiceRecord, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)

	invoice, err := scanInvoice(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return invoice, nil
}

// List retrieves invoices matching the filters, newest first
func (r *InvoiceRepository) List(filters *domain.InvoiceFilters) ([]*domain.InvoiceRecord, error) {
	ctx := context.Background()

	var conditions []string
	var args []interface{}

	if filters != nil {
		if filters.Status != nil {
			args = append(args, string(*filters.Status))
			conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
		}
		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			conditions = append(conditions, fmt.Sprintf("invoice_date >= $%d", len(args)))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			conditions = append(conditions, fmt.Sprintf("invoice_date <= $%d", len(args)))
		}
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY invoice_date DESC, created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*domain.InvoiceRecord
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// Update updates an existing invoice
func (r *InvoiceRepository) Update(invoice *domain.InvoiceRecord) (*domain.InvoiceRecord, error) {
	ctx := context.Background()

	total, err := decimalToPgNumeric(invoice.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}
	paid, err := decimalToPgNumeric(invoice.PaidAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid paid amount: %w", err)
	}
	remaining, err := decimalToPgNumeric(invoice.RemainingAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid remaining amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE invoices
		SET client_name = $2, invoice_date = $3, due_date = $4,
		    total_amount = $5, paid_amount = $6, remaining_amount = $7,
		    status = $8, paid_date = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+invoiceColumns,
		invoice.ID, invoice.ClientName, invoice.InvoiceDate, invoice.DueDate,
		total, paid, remaining, string(invoice.Status), invoice.PaidDate,
	)

	updated, err := scanInvoice(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an invoice
func (r *InvoiceRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}
