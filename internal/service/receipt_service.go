package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/repository/storage"
	"github.com/soldi-app/soldi-backend/internal/websocket"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth  = 50
	MinReceiptHeight = 50
	ThumbnailWidth   = 200
	JPEGQuality      = 85
	ReceiptURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat        = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidReceiptData          = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage not configured")
	ErrNoReceipt                   = errors.New("expense has no receipt")
)

// allowedReceiptExtensions maps extensions to content types
var allowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptService handles receipt upload, thumbnailing and retrieval for
// expenses. Receipts live in a private bucket and are served through
// short-lived presigned URLs.
type ReceiptService struct {
	storage        storage.ReceiptRepository
	expenseRepo    domain.ExpenseRepository
	eventPublisher websocket.EventPublisher
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage storage.ReceiptRepository, expenseRepo domain.ExpenseRepository) *ReceiptService {
	return &ReceiptService{
		storage:     storage,
		expenseRepo: expenseRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ReceiptService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the receipt image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedReceiptExtensions[ext]; !ok {
		return nil, ErrInvalidReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

// AttachReceipt validates, thumbnails and uploads a receipt image, then
// links it to the expense. An existing receipt is replaced.
func (s *ReceiptService) AttachReceipt(ctx context.Context, expenseID uuid.UUID, data []byte, filename string) (*domain.ExpenseRecord, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"original", 0},
	}

	receiptID := uuid.New()
	uploaded := make([]string, 0, len(variants))
	var originalPath string

	for _, variant := range variants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := storage.ReceiptObjectPath(expenseID, receiptID, variant.name, ".jpg")
		if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			s.cleanupObjects(ctx, uploaded)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}

		uploaded = append(uploaded, objectPath)
		if variant.name == "original" {
			originalPath = objectPath
		}
	}

	// Replace a previous receipt after the new one is fully uploaded
	if expense.ReceiptPath != nil {
		s.deleteVariants(ctx, *expense.ReceiptPath)
	}

	updated, err := s.expenseRepo.SetReceiptPath(expenseID, &originalPath)
	if err != nil {
		s.cleanupObjects(ctx, uploaded)
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.ExpenseUpdated(updated))
	}
	return updated, nil
}

// GetReceiptURLs returns presigned URLs for the receipt variants of an expense
func (s *ReceiptService) GetReceiptURLs(ctx context.Context, expenseID uuid.UUID) (originalURL, thumbnailURL string, err error) {
	if !s.IsEnabled() {
		return "", "", ErrReceiptStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		return "", "", err
	}
	if expense.ReceiptPath == nil {
		return "", "", ErrNoReceipt
	}

	originalURL, err = s.storage.GeneratePresignedURL(ctx, *expense.ReceiptPath, ReceiptURLExpiry)
	if err != nil {
		return "", "", err
	}

	thumbPath := thumbnailPath(*expense.ReceiptPath)
	thumbnailURL, err = s.storage.GeneratePresignedURL(ctx, thumbPath, ReceiptURLExpiry)
	if err != nil {
		// Thumbnail is best effort; the original is what matters
		thumbnailURL = originalURL
	}
	return originalURL, thumbnailURL, nil
}

// RemoveReceipt deletes the stored receipt and clears the link on the expense
func (s *ReceiptService) RemoveReceipt(ctx context.Context, expenseID uuid.UUID) (*domain.ExpenseRecord, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	expense, err := s.expenseRepo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptPath == nil {
		return nil, ErrNoReceipt
	}

	s.deleteVariants(ctx, *expense.ReceiptPath)

	updated, err := s.expenseRepo.SetReceiptPath(expenseID, nil)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.ExpenseUpdated(updated))
	}
	return updated, nil
}

// deleteVariants removes the original and its thumbnail, best effort
func (s *ReceiptService) deleteVariants(ctx context.Context, originalPath string) {
	_ = s.storage.Delete(ctx, originalPath)
	_ = s.storage.Delete(ctx, thumbnailPath(originalPath))
}

// cleanupObjects removes objects uploaded during a failed operation
func (s *ReceiptService) cleanupObjects(ctx context.Context, paths []string) {
	for _, p := range paths {
		_ = s.storage.Delete(ctx, p)
	}
}

// thumbnailPath derives the thumbnail object path from the original path.
// Paths follow receipts/<expenseID>/<uuid>_<variant>.jpg.
func thumbnailPath(originalPath string) string {
	return strings.TrimSuffix(originalPath, "_original.jpg") + "_thumb.jpg"
}

// GetReceiptContentType returns the content type for a receipt file extension
func GetReceiptContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := allowedReceiptExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
