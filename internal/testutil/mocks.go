package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/util"
	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID   map[uuid.UUID]*domain.User
	GetErr error
	// CategoryRepo receives the categories of CreateWithCategories when set
	CategoryRepo *MockCategoryRepository
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID: make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email, ignoring case
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, user := range m.ByID {
		if strings.EqualFold(user.Email, strings.TrimSpace(email)) {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// CreateWithCategories stores the user only when its categories were stored too
func (m *MockUserRepository) CreateWithCategories(user *domain.User, categories []domain.Category) (*domain.User, []*domain.Category, error) {
	if _, err := m.GetByEmail(user.Email); err == nil {
		return nil, nil, domain.ErrEmailTaken
	}
	user.ID = uuid.New()

	var seeded []*domain.Category
	if m.CategoryRepo != nil {
		created, err := m.CategoryRepo.CreateMany(user.ID, categories)
		if err != nil {
			return nil, nil, err
		}
		seeded = created
	}

	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.ByID[user.ID] = user
	return user, seeded, nil
}

// UpdateProfile changes the fields set in update
func (m *MockUserRepository) UpdateProfile(id uuid.UUID, update domain.UserProfileUpdate) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Currency != nil {
		user.Currency = *update.Currency
	}
	if update.MonthStartDay != nil {
		user.MonthStartDay = *update.MonthStartDay
	}
	if update.Timezone != nil {
		user.Timezone = *update.Timezone
	}
	user.UpdatedAt = time.Now()
	return user, nil
}

// UpdatePasswordHash replaces the stored hash
func (m *MockUserRepository) UpdatePasswordHash(id uuid.UUID, passwordHash string) error {
	user, ok := m.ByID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories    map[uuid.UUID]*domain.Category
	GetErr        error
	GetAllErr     error
	CreateManyErr error
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// GetByID retrieves a category owned by the user
func (m *MockCategoryRepository) GetByID(userID, id uuid.UUID) (*domain.Category, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if c, ok := m.Categories[id]; ok && c.UserID == userID {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetActive returns the user's active categories ordered by name
func (m *MockCategoryRepository) GetActive(userID uuid.UUID) ([]*domain.Category, error) {
	all, _ := m.GetAll(userID)
	active := make([]*domain.Category, 0, len(all))
	for _, c := range all {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

// GetAll returns every category of the user ordered by name
func (m *MockCategoryRepository) GetAll(userID uuid.UUID) ([]*domain.Category, error) {
	if m.GetAllErr != nil {
		return nil, m.GetAllErr
	}
	result := make([]*domain.Category, 0)
	for _, c := range m.Categories {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// CreateMany stores categories for the user
func (m *MockCategoryRepository) CreateMany(userID uuid.UUID, categories []domain.Category) ([]*domain.Category, error) {
	if m.CreateManyErr != nil {
		return nil, m.CreateManyErr
	}
	created := make([]*domain.Category, 0, len(categories))
	for _, cat := range categories {
		c := cat
		c.ID = uuid.New()
		c.UserID = userID
		c.IsActive = true
		c.CreatedAt = time.Now()
		m.Categories[c.ID] = &c
		created = append(created, &c)
	}
	return created, nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(c *domain.Category) {
	m.Categories[c.ID] = c
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	// LastFilters records the filters passed to GetByUser
	LastFilters *domain.TransactionFilters
	GetErr      error
	mu          sync.Mutex
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	transaction.ID = uuid.New()
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a live transaction owned by the user
func (m *MockTransactionRepository) GetByID(userID, id uuid.UUID) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tx, ok := m.Transactions[id]; ok && tx.UserID == userID && tx.DeletedAt == nil {
		return tx, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByUser lists transactions applying the same filters as the database
func (m *MockTransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastFilters = filters
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	matched := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.UserID != userID || tx.DeletedAt != nil {
			continue
		}
		if filters != nil {
			if filters.StartDate != nil && tx.TransactionAt.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && tx.TransactionAt.After(*filters.EndDate) {
				continue
			}
			if filters.Type != nil && tx.Type != *filters.Type {
				continue
			}
		}
		matched = append(matched, tx)
	}

	oldestFirst := filters != nil && filters.OldestFirst
	sort.Slice(matched, func(i, j int) bool {
		if oldestFirst {
			return matched[i].TransactionAt.Before(matched[j].TransactionAt)
		}
		return matched[i].TransactionAt.After(matched[j].TransactionAt)
	})

	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	total := int64(len(matched))
	start := int64((page - 1) * pageSize)
	end := start + int64(pageSize)
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	totalPages := int32(total / int64(pageSize))
	if total%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// GetInRange returns live transactions with start <= transaction_at <= end
func (m *MockTransactionRepository) GetInRange(userID uuid.UUID, start, end time.Time, txType *domain.TransactionType) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}

	result := make([]*domain.Transaction, 0)
	for _, tx := range m.Transactions {
		if tx.UserID != userID || tx.DeletedAt != nil {
			continue
		}
		if !util.InWindow(tx.TransactionAt, start, end) {
			continue
		}
		if txType != nil && tx.Type != *txType {
			continue
		}
		result = append(result, tx)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TransactionAt.Before(result[j].TransactionAt)
	})
	return result, nil
}

// Update applies a partial update
func (m *MockTransactionRepository) Update(userID, id uuid.UUID, update domain.TransactionUpdate) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID || tx.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	if update.Amount != nil {
		tx.Amount = *update.Amount
	}
	if update.Type != nil {
		tx.Type = *update.Type
	}
	if update.CategoryID != nil {
		tx.CategoryID = *update.CategoryID
		tx.Category = nil
	}
	if update.PaymentMethod != nil {
		tx.PaymentMethod = *update.PaymentMethod
	}
	if update.TransactionAt != nil {
		tx.TransactionAt = *update.TransactionAt
	}
	if update.ClearNote {
		tx.Note = nil
	} else if update.Note != nil {
		tx.Note = update.Note
	}
	tx.UpdatedAt = time.Now()
	return tx, nil
}

// SoftDelete marks a transaction as deleted
func (m *MockTransactionRepository) SoftDelete(userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID || tx.DeletedAt != nil {
		return domain.ErrTransactionNotFound
	}
	now := time.Now()
	tx.DeletedAt = &now
	return nil
}

// SetReceiptPath stores or clears the receipt path
func (m *MockTransactionRepository) SetReceiptPath(userID, id uuid.UUID, path *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, ok := m.Transactions[id]
	if !ok || tx.UserID != userID || tx.DeletedAt != nil {
		return domain.ErrTransactionNotFound
	}
	tx.ReceiptPath = path
	return nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	m.Transactions[tx.ID] = tx
}

// MockPasswordResetRepository is a mock implementation of domain.PasswordResetRepository
type MockPasswordResetRepository struct {
	Resets map[uuid.UUID]*domain.PasswordReset
}

// NewMockPasswordResetRepository creates a new MockPasswordResetRepository
func NewMockPasswordResetRepository() *MockPasswordResetRepository {
	return &MockPasswordResetRepository{
		Resets: make(map[uuid.UUID]*domain.PasswordReset),
	}
}

// Create stores a reset
func (m *MockPasswordResetRepository) Create(reset *domain.PasswordReset) (*domain.PasswordReset, error) {
	reset.ID = uuid.New()
	reset.CreatedAt = time.Now()
	m.Resets[reset.ID] = reset
	return reset, nil
}

// GetByToken finds a reset by token
func (m *MockPasswordResetRepository) GetByToken(token string) (*domain.PasswordReset, error) {
	for _, r := range m.Resets {
		if r.Token == token {
			return r, nil
		}
	}
	return nil, domain.ErrInvalidResetToken
}

// Delete removes a reset
func (m *MockPasswordResetRepository) Delete(id uuid.UUID) error {
	delete(m.Resets, id)
	return nil
}

// DeleteByUser removes all resets of a user
func (m *MockPasswordResetRepository) DeleteByUser(userID uuid.UUID) error {
	for id, r := range m.Resets {
		if r.UserID == userID {
			delete(m.Resets, id)
		}
	}
	return nil
}

// DeleteExpired removes resets that expired before now
func (m *MockPasswordResetRepository) DeleteExpired(now time.Time) (int64, error) {
	var n int64
	for id, r := range m.Resets {
		if r.IsExpired(now) {
			delete(m.Resets, id)
			n++
		}
	}
	return n, nil
}

// SentEmail is one email captured by MockMailer
type SentEmail struct {
	Kind string
	To   string
	Name string
	Link string
}

// MockMailer records outgoing email
type MockMailer struct {
	Sent []SentEmail
	Err  error
	mu   sync.Mutex
}

// SendWelcome records a welcome email
func (m *MockMailer) SendWelcome(to, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentEmail{Kind: "welcome", To: to, Name: name})
	return m.Err
}

// SendPasswordReset records a reset email
func (m *MockMailer) SendPasswordReset(to, name, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentEmail{Kind: "reset", To: to, Name: name, Link: link})
	return m.Err
}

// Emails returns a copy of the recorded emails
func (m *MockMailer) Emails() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// MockReceiptStore is an in-memory storage.ReceiptStore
type MockReceiptStore struct {
	Objects   map[string][]byte
	UploadErr error
	mu        sync.Mutex
}

// NewMockReceiptStore creates a new MockReceiptStore
func NewMockReceiptStore() *MockReceiptStore {
	return &MockReceiptStore{Objects: make(map[string][]byte)}
}

// Upload stores the object
func (m *MockReceiptStore) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[objectPath] = buf.Bytes()
	return objectPath, nil
}

// Delete removes the object
func (m *MockReceiptStore) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake signed URL
func (m *MockReceiptStore) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://receipts.test/%s?expires=%d", objectPath, int(expiry.Seconds())), nil
}

// PublishedEvent is one event captured by MockEventPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	Events []PublishedEvent
	mu     sync.Mutex
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// Types returns the recorded event types in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Event.Type
	}
	return types
}
