package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ReceiptRepository defines the interface for receipt object storage
type ReceiptRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// ReceiptObjectPath builds the object path for a receipt variant. Variants
// of the same upload share the receiptID so one can be derived from another.
func ReceiptObjectPath(expenseID, receiptID uuid.UUID, variant string, ext string) string {
	filename := fmt.Sprintf("%s_%s%s", receiptID.String(), variant, ext)
	return path.Join("receipts", expenseID.String(), filename)
}
