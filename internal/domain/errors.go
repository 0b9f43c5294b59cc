package domain

import "errors"

// Domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrNameRequired     = errors.New("name is required")
	ErrNameTooLong      = errors.New("name exceeds maximum length")
	ErrInvalidCategory  = errors.New("invalid expense category")
	ErrInvalidStatus    = errors.New("invalid invoice status")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrOverpayment      = errors.New("payment exceeds remaining amount")
	ErrInvoiceFinalized = errors.New("paid invoices cannot be modified")
)
