package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/middleware"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Amount        string  `json:"amount"`
	Type          string  `json:"type"`
	CategoryID    string  `json:"categoryId"`
	PaymentMethod string  `json:"paymentMethod"`
	Date          string  `json:"date,omitempty"`
	Time          string  `json:"time,omitempty"`
	Note          *string `json:"note,omitempty"`
}

// UpdateTransactionRequest represents the update transaction request body. Omitted fields are kept.
type UpdateTransactionRequest struct {
	Amount        *string `json:"amount,omitempty"`
	Type          *string `json:"type,omitempty"`
	CategoryID    *string `json:"categoryId,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	Date          *string `json:"date,omitempty"`
	Time          *string `json:"time,omitempty"`
	Note          *string `json:"note,omitempty"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            string            `json:"id"`
	Amount        string            `json:"amount"`
	Type          string            `json:"type"`
	CategoryID    string            `json:"categoryId"`
	Category      *CategoryResponse `json:"category,omitempty"`
	PaymentMethod string            `json:"paymentMethod"`
	TransactionAt string            `json:"transactionAt"`
	Note          *string           `json:"note,omitempty"`
	HasReceipt    bool              `json:"hasReceipt"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents a page of transactions
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// CreateTransaction godoc
// @Summary Record a transaction
// @Description date is YYYY-MM-DD and time HH:MM, both in the user's timezone
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be a valid number"},
		})
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category is required"},
		})
	}

	transaction, err := h.transactionService.CreateTransaction(userID, service.CreateTransactionInput{
		Amount:        amount,
		Type:          domain.TransactionType(req.Type),
		CategoryID:    categoryID,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Date:          req.Date,
		Time:          req.Time,
		Note:          req.Note,
	})
	if err != nil {
		if ok, verr := asValidationError(c, err); ok {
			return verr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", transaction.ID.String()).Msg("Transaction created")
	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param filter query string false "current, previous or all" default(current)
// @Param type query string false "income or expense"
// @Param sort query string false "newest or oldest" default(newest)
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 50)" default(20)
// @Success 200 {object} PaginatedTransactionsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)

	input := service.ListTransactionsInput{
		Filter: domain.TransactionFilter(c.QueryParam("filter")),
		Sort:   c.QueryParam("sort"),
	}

	if typeStr := c.QueryParam("type"); typeStr != "" {
		txType := domain.TransactionType(typeStr)
		input.Type = &txType
	}
	if _, err := parseIntParam(c.QueryParam("page"), &input.Page); err != nil {
		return NewValidationError(c, "Invalid page (must be positive integer)", []ValidationError{
			{Field: "page", Message: "Must be a positive integer"},
		})
	}
	if _, err := parseIntParam(c.QueryParam("pageSize"), &input.PageSize); err != nil {
		return NewValidationError(c, "Invalid pageSize (must be positive integer)", []ValidationError{
			{Field: "pageSize", Message: "Must be a positive integer"},
		})
	}

	result, err := h.transactionService.GetTransactions(userID, input)
	if err != nil {
		if ok, verr := asValidationError(c, err); ok {
			return verr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	data := make([]TransactionResponse, len(result.Data))
	for i, tx := range result.Data {
		data[i] = toTransactionResponse(tx)
	}

	return c.JSON(http.StatusOK, PaginatedTransactionsResponse{
		Data:       data,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Partial update; an empty note clears it
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateTransactionInput{
		Date: req.Date,
		Time: req.Time,
		Note: req.Note,
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be a valid number"},
			})
		}
		input.Amount = &amount
	}
	if req.Type != nil {
		txType := domain.TransactionType(*req.Type)
		input.Type = &txType
	}
	if req.PaymentMethod != nil {
		method := domain.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &method
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "categoryId", Message: "Category ID must be a UUID"},
			})
		}
		input.CategoryID = &categoryID
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, id, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, domain.ErrNoFieldsToUpdate):
			return NewValidationError(c, "At least one field must be provided", nil)
		}
		if ok, verr := asValidationError(c, err); ok {
			return verr
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to update transaction")
		return NewInternalError(c, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

// Helper function to parse int query params with overflow protection
func parseIntParam(s string, out *int32) (bool, error) {
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return false, errors.New("invalid integer")
	}
	*out = int32(v)
	return true, nil
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

func toCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:    cat.ID.String(),
		Name:  cat.Name,
		Color: cat.Color,
	}
}

func toTransactionResponse(transaction *domain.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:            transaction.ID.String(),
		Amount:        transaction.Amount.StringFixed(2),
		Type:          string(transaction.Type),
		CategoryID:    transaction.CategoryID.String(),
		PaymentMethod: string(transaction.PaymentMethod),
		TransactionAt: transaction.TransactionAt.Format(time.RFC3339),
		Note:          transaction.Note,
		HasReceipt:    transaction.ReceiptPath != nil,
		CreatedAt:     transaction.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     transaction.UpdatedAt.Format(time.RFC3339),
	}
	if transaction.Category != nil {
		cat := toCategoryResponse(transaction.Category)
		response.Category = &cat
	}
	return response
}
