package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/middleware"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles receipt image uploads for transactions
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ReceiptResponse carries a short-lived link to a receipt image
type ReceiptResponse struct {
	TransactionID string `json:"transactionId"`
	URL           string `json:"url"`
	ExpiresAt     string `json:"expiresAt"`
}

func toReceiptResponse(info *service.ReceiptInfo) ReceiptResponse {
	return ReceiptResponse{
		TransactionID: info.TransactionID.String(),
		URL:           info.URL,
		ExpiresAt:     info.ExpiresAt.Format(time.RFC3339),
	}
}

// receiptError maps service errors shared by the receipt endpoints
func receiptError(c echo.Context, err error) (bool, error) {
	switch {
	case errors.Is(err, domain.ErrStorageNotConfigured):
		return true, NewServiceUnavailableError(c, "Receipt storage is not configured")
	case errors.Is(err, domain.ErrTransactionNotFound):
		return true, NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrReceiptNotFound):
		return true, NewNotFoundError(c, "Receipt not found")
	}
	return asValidationError(c, err)
}

// UploadReceipt godoc
// @Summary Attach a receipt image to a transaction
// @Description JPEG or PNG up to 5MB and at least 50x50 pixels. Replaces any existing receipt.
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param file formData file true "Receipt image"
// @Success 201 {object} ReceiptResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /transactions/{id}/receipt [post]
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)

	if !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt storage is not configured")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}
	if file.Size > service.MaxReceiptSize {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: domain.ErrImageTooLarge.Error()},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	// One extra byte lets the service notice oversized streams
	data, err := io.ReadAll(io.LimitReader(src, service.MaxReceiptSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	info, err := h.receiptService.Upload(c.Request().Context(), userID, id, data, file.Filename)
	if err != nil {
		if ok, rerr := receiptError(c, err); ok {
			return rerr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to upload receipt")
		return NewInternalError(c, "Failed to upload receipt")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Receipt uploaded")
	return c.JSON(http.StatusCreated, toReceiptResponse(info))
}

// GetReceipt godoc
// @Summary Get a link to a transaction's receipt
// @Description The link expires after 15 minutes
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} ReceiptResponse
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /transactions/{id}/receipt [get]
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	info, err := h.receiptService.GetURL(c.Request().Context(), userID, id)
	if err != nil {
		if ok, rerr := receiptError(c, err); ok {
			return rerr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to sign receipt URL")
		return NewInternalError(c, "Failed to get receipt")
	}

	return c.JSON(http.StatusOK, toReceiptResponse(info))
}

// DeleteReceipt godoc
// @Summary Remove a transaction's receipt
// @Tags receipts
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /transactions/{id}/receipt [delete]
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.receiptService.Delete(c.Request().Context(), userID, id); err != nil {
		if ok, rerr := receiptError(c, err); ok {
			return rerr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to delete receipt")
		return NewInternalError(c, "Failed to delete receipt")
	}

	return c.NoContent(http.StatusNoContent)
}
