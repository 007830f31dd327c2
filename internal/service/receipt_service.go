package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/repository/storage"
	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MaxReceiptSize     = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth    = 50
	MinReceiptHeight   = 50
	MaxReceiptWidth    = 1200
	ReceiptJPEGQuality = 85
	ReceiptURLExpiry   = 15 * time.Minute
)

// ReceiptInfo points at a stored receipt through a short-lived URL
type ReceiptInfo struct {
	TransactionID uuid.UUID `json:"transactionId"`
	URL           string    `json:"url"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// ReceiptService processes receipt images and keeps them in object storage
type ReceiptService struct {
	transactionRepo domain.TransactionRepository
	store           storage.ReceiptStore
	publisher       websocket.EventPublisher
	now             func() time.Time
}

// NewReceiptService creates a new ReceiptService. A nil store disables receipts.
func NewReceiptService(transactionRepo domain.TransactionRepository, store storage.ReceiptStore) *ReceiptService {
	return &ReceiptService{
		transactionRepo: transactionRepo,
		store:           store,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for receipt changes
func (s *ReceiptService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.store != nil
}

// Upload validates, normalizes and stores a receipt image for a transaction,
// replacing any previous receipt
func (s *ReceiptService) Upload(ctx context.Context, userID, transactionID uuid.UUID, data []byte, filename string) (*ReceiptInfo, error) {
	if !s.IsEnabled() {
		return nil, domain.ErrStorageNotConfigured
	}

	transaction, err := s.transactionRepo.GetByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	previous := transaction.ReceiptPath

	encoded, err := processReceipt(data, filename)
	if err != nil {
		return nil, err
	}

	objectPath := fmt.Sprintf("receipts/%s/%s/%s.jpg", userID, transactionID, uuid.New())
	if _, err := s.store.Upload(ctx, objectPath, bytes.NewReader(encoded), "image/jpeg", int64(len(encoded))); err != nil {
		return nil, fmt.Errorf("failed to upload receipt: %w", err)
	}

	if err := s.transactionRepo.SetReceiptPath(userID, transactionID, &objectPath); err != nil {
		_ = s.store.Delete(ctx, objectPath)
		return nil, err
	}

	if previous != nil && *previous != objectPath {
		if err := s.store.Delete(ctx, *previous); err != nil {
			log.Warn().Err(err).Str("path", *previous).Msg("Failed to delete replaced receipt")
		}
	}

	info, err := s.presign(ctx, transactionID, objectPath)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(userID, websocket.ReceiptUpdated(info))
	}
	return info, nil
}

// GetURL returns a presigned URL for the transaction's receipt
func (s *ReceiptService) GetURL(ctx context.Context, userID, transactionID uuid.UUID) (*ReceiptInfo, error) {
	if !s.IsEnabled() {
		return nil, domain.ErrStorageNotConfigured
	}

	transaction, err := s.transactionRepo.GetByID(userID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.ReceiptPath == nil {
		return nil, domain.ErrReceiptNotFound
	}

	return s.presign(ctx, transactionID, *transaction.ReceiptPath)
}

// Delete removes the transaction's receipt
func (s *ReceiptService) Delete(ctx context.Context, userID, transactionID uuid.UUID) error {
	if !s.IsEnabled() {
		return domain.ErrStorageNotConfigured
	}

	transaction, err := s.transactionRepo.GetByID(userID, transactionID)
	if err != nil {
		return err
	}
	if transaction.ReceiptPath == nil {
		return domain.ErrReceiptNotFound
	}

	path := *transaction.ReceiptPath
	if err := s.transactionRepo.SetReceiptPath(userID, transactionID, nil); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to delete receipt object")
	}

	if s.publisher != nil {
		s.publisher.Publish(userID, websocket.ReceiptDeleted(map[string]interface{}{
			"transactionId": transactionID,
		}))
	}
	return nil
}

func (s *ReceiptService) presign(ctx context.Context, transactionID uuid.UUID, objectPath string) (*ReceiptInfo, error) {
	url, err := s.store.GeneratePresignedURL(ctx, objectPath, ReceiptURLExpiry)
	if err != nil {
		return nil, err
	}
	return &ReceiptInfo{
		TransactionID: transactionID,
		URL:           url,
		ExpiresAt:     s.now().Add(ReceiptURLExpiry).UTC(),
	}, nil
}

// processReceipt checks an upload and re-encodes it as a JPEG no wider than MaxReceiptWidth
func processReceipt(data []byte, filename string) ([]byte, error) {
	if len(data) > MaxReceiptSize {
		return nil, domain.ErrImageTooLarge
	}

	format, err := imaging.FormatFromFilename(filename)
	if err != nil || (format != imaging.JPEG && format != imaging.PNG) {
		return nil, domain.ErrInvalidImageFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, domain.ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, domain.ErrImageTooSmall
	}

	if bounds.Dx() > MaxReceiptWidth {
		img = imaging.Resize(img, MaxReceiptWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(ReceiptJPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode receipt: %w", err)
	}
	return buf.Bytes(), nil
}
