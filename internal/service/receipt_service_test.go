package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/soldi-app/soldi-backend/internal/domain"
	"github.com/soldi-app/soldi-backend/internal/testutil"
)

// createTestReceipt creates a test image of the specified size and format
func createTestReceipt(width, height int, format string) ([]byte, string) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 240, G: 240, B: 240, A: 255})
		}
	}

	var buf bytes.Buffer
	var filename string

	switch format {
	case "png":
		png.Encode(&buf, img)
		filename = "receipt.png"
	default:
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		filename = "receipt.jpg"
	}

	return buf.Bytes(), filename
}

func newReceiptFixture(t *testing.T) (*ReceiptService, *testutil.MockExpenseRepository, *testutil.MockReceiptStorage, uuid.UUID) {
	t.Helper()
	expenseRepo := testutil.NewMockExpenseRepository()
	store := testutil.NewMockReceiptStorage()
	svc := NewReceiptService(store, expenseRepo)

	id := uuid.New()
	expenseRepo.AddExpense(&domain.ExpenseRecord{
		ID:       id,
		Name:     "Office chair",
		Amount:   decimal.NewFromInt(240),
		Date:     time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC),
		Category: domain.CategoryMisc,
	})
	return svc, expenseRepo, store, id
}

func TestAttachReceipt_Success(t *testing.T) {
	svc, _, store, id := newReceiptFixture(t)

	data, filename := createTestReceipt(400, 300, "jpeg")
	expense, err := svc.AttachReceipt(context.Background(), id, data, filename)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if expense.ReceiptPath == nil {
		t.Fatal("expected receipt path to be set")
	}
	if !strings.HasSuffix(*expense.ReceiptPath, "_original.jpg") {
		t.Errorf("expected original variant path, got %s", *expense.ReceiptPath)
	}
	// Both variants uploaded
	if len(store.Objects) != 2 {
		t.Errorf("expected 2 stored objects, got %d", len(store.Objects))
	}
}

func TestAttachReceipt_PNGIsConvertedToJPEG(t *testing.T) {
	svc, _, _, id := newReceiptFixture(t)

	data, filename := createTestReceipt(300, 300, "png")
	expense, err := svc.AttachReceipt(context.Background(), id, data, filename)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasSuffix(*expense.ReceiptPath, ".jpg") {
		t.Errorf("expected stored variant to be JPEG, got %s", *expense.ReceiptPath)
	}
}

func TestAttachReceipt_ReplacesExistingReceipt(t *testing.T) {
	svc, _, store, id := newReceiptFixture(t)

	data, filename := createTestReceipt(400, 300, "jpeg")
	first, err := svc.AttachReceipt(context.Background(), id, data, filename)
	if err != nil {
		t.Fatalf("first attach failed: %v", err)
	}
	firstPath := *first.ReceiptPath

	second, err := svc.AttachReceipt(context.Background(), id, data, filename)
	if err != nil {
		t.Fatalf("second attach failed: %v", err)
	}

	if firstPath == *second.ReceiptPath {
		t.Error("expected a new receipt path after replacement")
	}
	// Old variants removed, new ones remain
	if len(store.Objects) != 2 {
		t.Errorf("expected 2 stored objects after replacement, got %d", len(store.Objects))
	}
}

func TestAttachReceipt_TooLarge(t *testing.T) {
	svc, _, _, id := newReceiptFixture(t)

	data := make([]byte, MaxReceiptSize+1)
	_, err := svc.AttachReceipt(context.Background(), id, data, "receipt.jpg")
	if err != ErrReceiptTooLarge {
		t.Errorf("expected ErrReceiptTooLarge, got %v", err)
	}
}

func TestAttachReceipt_InvalidFormat(t *testing.T) {
	svc, _, _, id := newReceiptFixture(t)

	data, _ := createTestReceipt(300, 300, "jpeg")
	_, err := svc.AttachReceipt(context.Background(), id, data, "receipt.gif")
	if err != ErrInvalidReceiptFormat {
		t.Errorf("expected ErrInvalidReceiptFormat, got %v", err)
	}
}

func TestAttachReceipt_TooSmall(t *testing.T) {
	svc, _, _, id := newReceiptFixture(t)

	data, filename := createTestReceipt(30, 30, "jpeg")
	_, err := svc.AttachReceipt(context.Background(), id, data, filename)
	if err != ErrReceiptTooSmall {
		t.Errorf("expected ErrReceiptTooSmall, got %v", err)
	}
}

func TestAttachReceipt_InvalidData(t *testing.T) {
	svc, _, _, id := newReceiptFixture(t)

	_, err := svc.AttachReceipt(context.Background(), id, []byte("not an image"), "receipt.jpg")
	if err != ErrInvalidReceiptData {
		t.Errorf("expected ErrInvalidReceiptData, got %v", err)
	}
}

func TestAttachReceipt_ExpenseNotFound(t *testing.T) {
	svc, _, _, _ := newReceiptFixture(t)

	data, filename := createTestReceipt(300, 300, "jpeg")
	_, err := svc.AttachReceipt(context.Background(), uuid.New(), data, filename)
	if err != domain.ErrExpenseNotFound {
		t.Errorf("expected ErrExpenseNotFound, got %v", err)
	}
}

func TestAttachReceipt_StorageNotConfigured(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	svc := NewReceiptService(nil, expenseRepo)

	data, filename := createTestReceipt(300, 300, "jpeg")
	_, err := svc.AttachReceipt(context.Background(), uuid.New(), data, filename)
	if err != ErrReceiptStorageNotConfigured {
		t.Errorf("expected ErrReceiptStorageNotConfigured, got %v", err)
	}
	if svc.IsEnabled() {
		t.Error("service without storage should report disabled")
	}
}

func TestGetReceiptURLs_Success(t *testing.T) {
	svc, _, _, id := newReceiptFixture(t)

	data, filename := createTestReceipt(400, 300, "jpeg")
	if _, err := svc.AttachReceipt(context.Background(), id, data, filename); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	originalURL, thumbnailURL, err := svc.GetReceiptURLs(context.Background(), id)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(originalURL, "_original.jpg") {
		t.Errorf("expected original URL, got %s", originalURL)
	}
	if !strings.Contains(thumbnailURL, "_thumb.jpg") {
		t.Errorf("expected thumbnail URL, got %s", thumbnailURL)
	}
}

func TestGetReceiptURLs_NoReceipt(t *testing.T) {
	svc, _, _, id := newReceiptFixture(t)

	_, _, err := svc.GetReceiptURLs(context.Background(), id)
	if err != ErrNoReceipt {
		t.Errorf("expected ErrNoReceipt, got %v", err)
	}
}

func TestRemoveReceipt_Success(t *testing.T) {
	svc, _, store, id := newReceiptFixture(t)

	data, filename := createTestReceipt(400, 300, "jpeg")
	if _, err := svc.AttachReceipt(context.Background(), id, data, filename); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	expense, err := svc.RemoveReceipt(context.Background(), id)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if expense.ReceiptPath != nil {
		t.Error("expected receipt path to be cleared")
	}
	if len(store.Objects) != 0 {
		t.Errorf("expected all objects removed, got %d", len(store.Objects))
	}
}

func TestRemoveReceipt_NoReceipt(t *testing.T) {
	svc, _, _, id := newReceiptFixture(t)

	_, err := svc.RemoveReceipt(context.Background(), id)
	if err != ErrNoReceipt {
		t.Errorf("expected ErrNoReceipt, got %v", err)
	}
}

func TestAttachReceipt_PublishesEvent(t *testing.T) {
	svc, _, _, id := newReceiptFixture(t)
	publisher := testutil.NewMockPublisher()
	svc.SetEventPublisher(publisher)

	data, filename := createTestReceipt(400, 300, "jpeg")
	if _, err := svc.AttachReceipt(context.Background(), id, data, filename); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	types := publisher.EventTypes()
	if len(types) != 1 || types[0] != "expense.updated" {
		t.Errorf("expected expense.updated event, got %v", types)
	}
}

func TestGetReceiptContentType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"receipt.jpg", "image/jpeg"},
		{"receipt.jpeg", "image/jpeg"},
		{"receipt.png", "image/png"},
		{"receipt.webp", "image/webp"},
		{"receipt.gif", "application/octet-stream"},
		{"receipt.pdf", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			ct := GetReceiptContentType(tt.filename)
			if ct != tt.expected {
				t.Errorf("GetReceiptContentType(%s) = %s, expected %s", tt.filename, ct, tt.expected)
			}
		})
	}
}
