package engine

import (
	"strings"

	"github.com/soldi-app/soldi-backend/internal/domain"
)

// Keyword heuristics applied to the expense name and description. These catch
// records filed under a generic category by bank imports.
var (
	loanKeywords         = []string{"loan", "installment", "instalment", "mortgage", "financing"}
	transferKeywords     = []string{"transfer", "allowance", "pocket money", "support"}
	subscriptionKeywords = []string{"subscription", "membership"}
)

// Classify assigns an expense to exactly one semantic bucket. Rules are
// evaluated in priority order and the fallback is the variable bucket, so no
// amount is ever dropped.
func Classify(e *domain.ExpenseRecord) domain.ExpenseBucket {
	switch {
	case isLoanPayment(e):
		return domain.BucketLoan
	case isFamilyTransfer(e):
		return domain.BucketTransfer
	case isSubscription(e):
		return domain.BucketSubscription
	case e.BillType != nil:
		return domain.BucketBill
	case e.Category == domain.CategoryFixed || e.Category == domain.CategoryHousing:
		return domain.BucketFixed
	default:
		return domain.BucketVariable
	}
}

func isLoanPayment(e *domain.ExpenseRecord) bool {
	if e.Category == domain.CategoryLoans {
		return true
	}
	return matchesAny(e, loanKeywords)
}

func isFamilyTransfer(e *domain.ExpenseRecord) bool {
	if e.Category == domain.CategoryFamily {
		return true
	}
	return e.Recurring && matchesAny(e, transferKeywords)
}

func isSubscription(e *domain.ExpenseRecord) bool {
	if e.Category == domain.CategorySubscriptions {
		return true
	}
	return e.Recurring && matchesAny(e, subscriptionKeywords)
}

func matchesAny(e *domain.ExpenseRecord, keywords []string) bool {
	text := strings.ToLower(e.Name + " " + e.Description)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
