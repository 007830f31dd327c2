package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/dafibh/spendwise/spendwise-backend/internal/testutil"
	"github.com/dafibh/spendwise/spendwise-backend/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transactionHandlerFixture struct {
	handler      *TransactionHandler
	categories   *CategoryHandler
	transactions *testutil.MockTransactionRepository
	publisher    *testutil.MockEventPublisher
	user         *domain.User
	category     *domain.Category
}

func newTransactionHandlerFixture() *transactionHandlerFixture {
	users := testutil.NewMockUserRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	f := &transactionHandlerFixture{
		transactions: testutil.NewMockTransactionRepository(),
		publisher:    &testutil.MockEventPublisher{},
		user: &domain.User{
			ID:            uuid.New(),
			Name:          "Test User",
			Email:         "tx@example.com",
			Currency:      "USD",
			MonthStartDay: 1,
			Timezone:      "UTC",
		},
	}
	users.AddUser(f.user)
	f.category = &domain.Category{ID: uuid.New(), UserID: f.user.ID, Name: "Food", Color: "#F97316", IsActive: true}
	categoryRepo.AddCategory(f.category)
	categoryRepo.AddCategory(&domain.Category{ID: uuid.New(), UserID: f.user.ID, Name: "Archived", IsActive: false})

	transactionService := service.NewTransactionService(f.transactions, categoryRepo, users)
	transactionService.SetEventPublisher(f.publisher)
	f.handler = NewTransactionHandler(transactionService)
	f.categories = NewCategoryHandler(service.NewCategoryService(categoryRepo))
	return f
}

func (f *transactionHandlerFixture) serve(t *testing.T, method, target, body string, h echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := newJSONRequest(method, target, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	setupAuthContext(c, f.user.ID)
	require.NoError(t, h(c))
	return rec
}

func (f *transactionHandlerFixture) seed(amount int64, at time.Time) *domain.Transaction {
	tx := &domain.Transaction{
		UserID:        f.user.ID,
		Amount:        decimal.NewFromInt(amount),
		Type:          domain.TransactionTypeExpense,
		CategoryID:    f.category.ID,
		PaymentMethod: domain.PaymentMethodCash,
		TransactionAt: at,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	f.transactions.AddTransaction(tx)
	return tx
}

func TestCreateTransaction_Success(t *testing.T) {
	f := newTransactionHandlerFixture()
	body := `{"amount":"12.50","type":"expense","categoryId":"` + f.category.ID.String() + `","paymentMethod":"upi","date":"2024-03-10","time":"09:30","note":"coffee"}`

	rec := f.serve(t, http.MethodPost, "/api/v1/transactions", body, f.handler.CreateTransaction)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var response TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "12.50", response.Amount)
	assert.Equal(t, "expense", response.Type)
	assert.Equal(t, "upi", response.PaymentMethod)
	assert.Equal(t, "2024-03-10T09:30:00Z", response.TransactionAt)
	require.NotNil(t, response.Category)
	assert.Equal(t, "Food", response.Category.Name)
	require.NotNil(t, response.Note)
	assert.Equal(t, "coffee", *response.Note)
	assert.False(t, response.HasReceipt)
	assert.Equal(t, []string{"transaction.created"}, f.publisher.Types())
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	f := newTransactionHandlerFixture()
	cat := f.category.ID.String()

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"bad amount", `{"amount":"abc","type":"expense","categoryId":"` + cat + `","paymentMethod":"cash"}`, "amount"},
		{"negative amount", `{"amount":"-1","type":"expense","categoryId":"` + cat + `","paymentMethod":"cash"}`, "amount"},
		{"missing category", `{"amount":"1","type":"expense","paymentMethod":"cash"}`, "categoryId"},
		{"unknown category", `{"amount":"1","type":"expense","categoryId":"` + uuid.NewString() + `","paymentMethod":"cash"}`, "categoryId"},
		{"bad type", `{"amount":"1","type":"gift","categoryId":"` + cat + `","paymentMethod":"cash"}`, "type"},
		{"bad payment method", `{"amount":"1","type":"expense","categoryId":"` + cat + `","paymentMethod":"barter"}`, "paymentMethod"},
		{"bad date", `{"amount":"1","type":"expense","categoryId":"` + cat + `","paymentMethod":"cash","date":"2024-13-01"}`, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.serve(t, http.MethodPost, "/api/v1/transactions", tt.body, f.handler.CreateTransaction)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			problem := decodeProblem(t, rec)
			require.NotEmpty(t, problem.Errors)
			assert.Equal(t, tt.wantField, problem.Errors[0].Field)
		})
	}
}

func TestGetTransactions_CurrentWindowPaginated(t *testing.T) {
	f := newTransactionHandlerFixture()
	start, _ := util.MonthWindow(time.Now().UTC(), f.user.MonthStartDay, 0)
	for i := 0; i < 3; i++ {
		f.seed(int64(i+1), start.Add(time.Duration(i)*time.Hour))
	}
	f.seed(99, start.AddDate(-2, 0, 0))

	rec := f.serve(t, http.MethodGet, "/api/v1/transactions?pageSize=2", "", f.handler.GetTransactions)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response PaginatedTransactionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, int64(3), response.TotalItems)
	assert.Equal(t, int32(2), response.TotalPages)
	require.Len(t, response.Data, 2)
	assert.Equal(t, "3.00", response.Data[0].Amount)
}

func TestGetTransactions_All(t *testing.T) {
	f := newTransactionHandlerFixture()
	f.seed(5, time.Now().AddDate(-2, 0, 0))

	rec := f.serve(t, http.MethodGet, "/api/v1/transactions?filter=all&sort=oldest", "", f.handler.GetTransactions)
	require.Equal(t, http.StatusOK, rec.Code)

	var response PaginatedTransactionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, int64(1), response.TotalItems)
	assert.True(t, f.transactions.LastFilters.OldestFirst)
}

func TestGetTransactions_InvalidQuery(t *testing.T) {
	f := newTransactionHandlerFixture()

	for _, query := range []string{"?filter=future", "?sort=amount", "?page=0x1", "?pageSize=51", "?page=-3", "?type=gift"} {
		rec := f.serve(t, http.MethodGet, "/api/v1/transactions"+query, "", f.handler.GetTransactions)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestGetTransaction(t *testing.T) {
	f := newTransactionHandlerFixture()
	tx := f.seed(10, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	rec := f.serve(t, http.MethodGet, "/", "", f.handler.GetTransaction, "id", tx.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.serve(t, http.MethodGet, "/", "", f.handler.GetTransaction, "id", uuid.NewString())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.serve(t, http.MethodGet, "/", "", f.handler.GetTransaction, "id", "42")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTransaction(t *testing.T) {
	f := newTransactionHandlerFixture()
	tx := f.seed(10, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))

	rec := f.serve(t, http.MethodPut, "/", `{"amount":"20","paymentMethod":"card"}`, f.handler.UpdateTransaction, "id", tx.ID.String())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "20.00", response.Amount)
	assert.Equal(t, "card", response.PaymentMethod)
	assert.Equal(t, "2024-03-01T08:00:00Z", response.TransactionAt)

	rec = f.serve(t, http.MethodPut, "/", `{}`, f.handler.UpdateTransaction, "id", tx.ID.String())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.serve(t, http.MethodPut, "/", `{"amount":"1"}`, f.handler.UpdateTransaction, "id", uuid.NewString())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTransaction(t *testing.T) {
	f := newTransactionHandlerFixture()
	tx := f.seed(10, time.Now())

	rec := f.serve(t, http.MethodDelete, "/", "", f.handler.DeleteTransaction, "id", tx.ID.String())
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.serve(t, http.MethodDelete, "/", "", f.handler.DeleteTransaction, "id", tx.ID.String())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, []string{"transaction.deleted"}, f.publisher.Types())
}

func TestGetCategories(t *testing.T) {
	f := newTransactionHandlerFixture()

	rec := f.serve(t, http.MethodGet, "/api/v1/transactions/categories", "", f.categories.GetCategories)
	require.Equal(t, http.StatusOK, rec.Code)

	var response []CategoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "Food", response[0].Name)
}
