package service

import (
	"strings"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/util"
	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"

	SortNewest = "newest"
	SortOldest = "oldest"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	userRepo        domain.UserRepository
	publisher       websocket.EventPublisher
	now             func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository, userRepo domain.UserRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		userRepo:        userRepo,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

func (s *TransactionService) publish(userID uuid.UUID, event websocket.Event) {
	if s.publisher != nil {
		s.publisher.Publish(userID, event)
	}
}

// CreateTransactionInput holds the input for creating a transaction.
// Date is YYYY-MM-DD in the user's timezone; Time is an optional HH:MM.
type CreateTransactionInput struct {
	Amount        decimal.Decimal
	Type          domain.TransactionType
	CategoryID    uuid.UUID
	PaymentMethod domain.PaymentMethod
	Date          string
	Time          string
	Note          *string
}

// CreateTransaction creates a new transaction with validation
func (s *TransactionService) CreateTransaction(userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	amount, err := normalizeAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if !input.PaymentMethod.IsValid() {
		return nil, domain.ErrInvalidPaymentMethod
	}

	note, err := normalizeNote(input.Note)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	loc := user.Location()

	// Default to the current moment when no date is given
	transactionAt := s.now().In(loc)
	if input.Date != "" {
		transactionAt, err = parseTransactionAt(input.Date, input.Time, loc)
		if err != nil {
			return nil, err
		}
	} else if input.Time != "" {
		return nil, domain.ErrInvalidDate
	}

	category, err := s.categoryRepo.GetByID(userID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	transaction, err := s.transactionRepo.Create(&domain.Transaction{
		UserID:        userID,
		Amount:        amount,
		Type:          input.Type,
		CategoryID:    category.ID,
		Category:      category,
		PaymentMethod: input.PaymentMethod,
		TransactionAt: transactionAt,
		Note:          note,
	})
	if err != nil {
		return nil, err
	}

	s.publish(userID, websocket.TransactionCreated(transaction))
	return transaction, nil
}

// ListTransactionsInput selects a page of transactions
type ListTransactionsInput struct {
	Filter   domain.TransactionFilter
	Type     *domain.TransactionType
	Sort     string
	Page     int32
	PageSize int32
}

// GetTransactions lists the user's transactions for the selected financial month
func (s *TransactionService) GetTransactions(userID uuid.UUID, input ListTransactionsInput) (*domain.PaginatedTransactions, error) {
	filters := &domain.TransactionFilters{
		Type:     input.Type,
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if filters.Page == 0 {
		filters.Page = 1
	}
	if filters.PageSize == 0 {
		filters.PageSize = domain.DefaultPageSize
	}
	if filters.Page < 1 || filters.PageSize < 1 || filters.PageSize > domain.MaxPageSize {
		return nil, domain.ErrInvalidPagination
	}

	switch input.Sort {
	case "", SortNewest:
	case SortOldest:
		filters.OldestFirst = true
	default:
		return nil, domain.ErrInvalidSort
	}

	if input.Type != nil && !input.Type.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}

	offset := 0
	switch input.Filter {
	case "", domain.TransactionFilterCurrent:
	case domain.TransactionFilterPrevious:
		offset = -1
	case domain.TransactionFilterAll:
		return s.transactionRepo.GetByUser(userID, filters)
	default:
		return nil, domain.ErrInvalidFilter
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	start, end := util.MonthWindow(s.now().In(user.Location()), user.MonthStartDay, offset)
	filters.StartDate = &start
	filters.EndDate = &end

	return s.transactionRepo.GetByUser(userID, filters)
}

// GetTransactionByID retrieves a transaction owned by the user
func (s *TransactionService) GetTransactionByID(userID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// UpdateTransactionInput holds the fields of a partial update. An empty Note clears it.
type UpdateTransactionInput struct {
	Amount        *decimal.Decimal
	Type          *domain.TransactionType
	CategoryID    *uuid.UUID
	PaymentMethod *domain.PaymentMethod
	Date          *string
	Time          *string
	Note          *string
}

func (in UpdateTransactionInput) isEmpty() bool {
	return in.Amount == nil && in.Type == nil && in.CategoryID == nil && in.PaymentMethod == nil &&
		in.Date == nil && in.Time == nil && in.Note == nil
}

// UpdateTransaction applies a partial update to a transaction
func (s *TransactionService) UpdateTransaction(userID, id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	if input.isEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	existing, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	update := domain.TransactionUpdate{}

	if input.Amount != nil {
		amount, err := normalizeAmount(*input.Amount)
		if err != nil {
			return nil, err
		}
		update.Amount = &amount
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, domain.ErrInvalidTransactionType
		}
		update.Type = input.Type
	}
	if input.PaymentMethod != nil {
		if !input.PaymentMethod.IsValid() {
			return nil, domain.ErrInvalidPaymentMethod
		}
		update.PaymentMethod = input.PaymentMethod
	}
	if input.Note != nil {
		note, err := normalizeNote(input.Note)
		if err != nil {
			return nil, err
		}
		if note == nil {
			update.ClearNote = true
		} else {
			update.Note = note
		}
	}

	if input.Date != nil || input.Time != nil {
		user, err := s.userRepo.GetByID(userID)
		if err != nil {
			return nil, err
		}
		loc := user.Location()
		local := existing.TransactionAt.In(loc)

		date := local.Format(dateLayout)
		if input.Date != nil {
			date = *input.Date
		}
		clock := local.Format("15:04")
		if input.Time != nil {
			clock = *input.Time
		} else if input.Date != nil {
			clock = ""
		}

		at, err := parseTransactionAt(date, clock, loc)
		if err != nil {
			return nil, err
		}
		update.TransactionAt = &at
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(userID, *input.CategoryID); err != nil {
			return nil, err
		}
		update.CategoryID = input.CategoryID
	}

	transaction, err := s.transactionRepo.Update(userID, id, update)
	if err != nil {
		return nil, err
	}

	s.publish(userID, websocket.TransactionUpdated(transaction))
	return transaction, nil
}

// DeleteTransaction soft deletes a transaction
func (s *TransactionService) DeleteTransaction(userID, id uuid.UUID) error {
	if err := s.transactionRepo.SoftDelete(userID, id); err != nil {
		return err
	}

	log.Debug().Str("user_id", userID.String()).Str("transaction_id", id.String()).Msg("Transaction deleted")
	s.publish(userID, websocket.TransactionDeleted(map[string]interface{}{
		"id": id,
	}))
	return nil
}

// parseTransactionAt interprets a calendar date and optional HH:MM in loc
// normalizeAmount rounds to cents before the positivity check so sub-cent
// amounts cannot be stored as zero
func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := amount.Round(moneyPlaces)
	if !rounded.IsPositive() {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	return rounded, nil
}

func parseTransactionAt(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	if clock == "" {
		return day, nil
	}

	at, err := time.ParseInLocation(dateTimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, domain.ErrInvalidTime
	}
	return at, nil
}

// normalizeNote trims a note and maps blank notes to nil
func normalizeNote(note *string) (*string, error) {
	if note == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil, nil
	}
	if len([]rune(trimmed)) > domain.MaxNoteLength {
		return nil, domain.ErrNotesTooLong
	}
	return &trimmed, nil
}
