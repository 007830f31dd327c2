package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is one of the two supported variants
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodOther  PaymentMethod = "other"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard, PaymentMethodWallet, PaymentMethodOther:
		return true
	}
	return false
}

type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type"`
	CategoryID    uuid.UUID       `json:"categoryId"`
	Category      *Category       `json:"category,omitempty"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	TransactionAt time.Time       `json:"transactionAt"`
	Note          *string         `json:"note,omitempty"`
	ReceiptPath   *string         `json:"-"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     *time.Time      `json:"deletedAt,omitempty"`
}

// IsDeleted reports whether the transaction was soft deleted
func (t *Transaction) IsDeleted() bool {
	return t.DeletedAt != nil
}

// TransactionFilter selects which financial month a listing covers
type TransactionFilter string

const (
	TransactionFilterCurrent  TransactionFilter = "current"
	TransactionFilterPrevious TransactionFilter = "previous"
	TransactionFilterAll      TransactionFilter = "all"
)

type TransactionFilters struct {
	StartDate   *time.Time
	EndDate     *time.Time
	Type        *TransactionType
	OldestFirst bool
	Page        int32
	PageSize    int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// TransactionUpdate carries the fields replaced by a partial update
type TransactionUpdate struct {
	Amount        *decimal.Decimal
	Type          *TransactionType
	CategoryID    *uuid.UUID
	PaymentMethod *PaymentMethod
	TransactionAt *time.Time
	Note          *string
	ClearNote     bool
}

// TransactionRepository persists transactions. Every read excludes soft-deleted rows.
type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID, id uuid.UUID) (*Transaction, error)
	GetByUser(userID uuid.UUID, filters *TransactionFilters) (*PaginatedTransactions, error)
	// GetInRange returns transactions with start <= transaction_at <= end
	GetInRange(userID uuid.UUID, start, end time.Time, txType *TransactionType) ([]*Transaction, error)
	Update(userID, id uuid.UUID, update TransactionUpdate) (*Transaction, error)
	SoftDelete(userID, id uuid.UUID) error
	SetReceiptPath(userID, id uuid.UUID, path *string) error
}
