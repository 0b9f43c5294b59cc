package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory is the user-facing category assigned when recording an expense
type ExpenseCategory string

const (
	CategoryFixed         ExpenseCategory = "fixed"
	CategoryHousing       ExpenseCategory = "housing"
	CategoryLoans         ExpenseCategory = "loans"
	CategoryFamily        ExpenseCategory = "family"
	CategorySubscriptions ExpenseCategory = "subscriptions"
	CategoryVariable      ExpenseCategory = "variable"
	CategoryFood          ExpenseCategory = "food"
	CategoryLeisure       ExpenseCategory = "leisure"
	CategoryMisc          ExpenseCategory = "misc"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryHealth        ExpenseCategory = "health"
	CategoryPets          ExpenseCategory = "pets"
	CategoryTravel        ExpenseCategory = "travel"
)

// BillType marks an expense as a utility bill of a specific kind
type BillType string

const (
	BillTypeElectricity BillType = "electricity"
	BillTypeWater       BillType = "water"
	BillTypeGas         BillType = "gas"
	BillTypeInternet    BillType = "internet"
	BillTypePhone       BillType = "phone"
	BillTypeMunicipal   BillType = "municipal"
)

// ExpenseBucket is the semantic bucket the classifier assigns to an expense.
// Exactly one bucket per expense; unrecognized input falls through to variable.
type ExpenseBucket string

const (
	BucketLoan         ExpenseBucket = "loan"
	BucketTransfer     ExpenseBucket = "transfer"
	BucketSubscription ExpenseBucket = "subscription"
	BucketBill         ExpenseBucket = "bill"
	BucketFixed        ExpenseBucket = "fixed"
	BucketVariable     ExpenseBucket = "variable"
)

// ExpenseRecord is a single outflow recorded by the household.
// Amount is positive for outflows; the engine treats records as immutable.
type ExpenseRecord struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Category    ExpenseCategory `json:"category"`
	BillType    *BillType       `json:"billType,omitempty"`
	Recurring   bool            `json:"recurring"`
	IsPaid      *bool           `json:"isPaid,omitempty"`
	ReceiptPath *string         `json:"receiptPath,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Paid reports whether the expense has actually been paid.
// Records without an explicit flag count as paid (cash expenses).
func (e *ExpenseRecord) Paid() bool {
	return e.IsPaid == nil || *e.IsPaid
}

type ExpenseFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *ExpenseCategory
}

const MaxExpenseNameLength = 255

type ExpenseRepository interface {
	Create(expense *ExpenseRecord) (*ExpenseRecord, error)
	GetByID(id uuid.UUID) (*ExpenseRecord, error)
	List(filters *ExpenseFilters) ([]*ExpenseRecord, error)
	Update(expense *ExpenseRecord) (*ExpenseRecord, error)
	Delete(id uuid.UUID) error
	TogglePaid(id uuid.UUID) (*ExpenseRecord, error)
	SetReceiptPath(id uuid.UUID, path *string) (*ExpenseRecord, error)
}
