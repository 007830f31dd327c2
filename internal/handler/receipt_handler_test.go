package handler

import (
	"bytes"
	"encoding/json"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/dafibh/spendwise/spendwise-backend/internal/testutil"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartImage(t *testing.T, filename string, width, height int) (*bytes.Buffer, string) {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 10, G: 200, B: 90, A: 255})
	var encoded bytes.Buffer
	require.NoError(t, imaging.Encode(&encoded, img, imaging.PNG))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(encoded.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

type receiptHandlerFixture struct {
	handler      *ReceiptHandler
	transactions *testutil.MockTransactionRepository
	store        *testutil.MockReceiptStore
	userID       uuid.UUID
	tx           *domain.Transaction
}

func newReceiptHandlerFixture(withStore bool) *receiptHandlerFixture {
	f := &receiptHandlerFixture{
		transactions: testutil.NewMockTransactionRepository(),
		store:        testutil.NewMockReceiptStore(),
		userID:       uuid.New(),
	}
	f.tx = &domain.Transaction{UserID: f.userID, Amount: decimal.NewFromInt(5), Type: domain.TransactionTypeExpense}
	f.transactions.AddTransaction(f.tx)

	var receiptService *service.ReceiptService
	if withStore {
		receiptService = service.NewReceiptService(f.transactions, f.store)
	} else {
		receiptService = service.NewReceiptService(f.transactions, nil)
	}
	f.handler = NewReceiptHandler(receiptService)
	return f
}

func (f *receiptHandlerFixture) context(req *http.Request, id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	setupAuthContext(c, f.userID)
	return c, rec
}

func TestUploadReceipt_Success(t *testing.T) {
	f := newReceiptHandlerFixture(true)
	body, contentType := multipartImage(t, "receipt.png", 120, 80)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/"+f.tx.ID.String()+"/receipt", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := f.context(req, f.tx.ID.String())

	require.NoError(t, f.handler.UploadReceipt(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var response ReceiptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, f.tx.ID.String(), response.TransactionID)
	assert.Contains(t, response.URL, "https://receipts.test/receipts/")
	assert.NotNil(t, f.tx.ReceiptPath)
	assert.Len(t, f.store.Objects, 1)
}

func TestUploadReceipt_Errors(t *testing.T) {
	t.Run("storage disabled", func(t *testing.T) {
		f := newReceiptHandlerFixture(false)
		body, contentType := multipartImage(t, "receipt.png", 120, 80)
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		c, rec := f.context(req, f.tx.ID.String())

		require.NoError(t, f.handler.UploadReceipt(c))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		f := newReceiptHandlerFixture(true)
		req := newJSONRequest(http.MethodPost, "/", `{}`)
		c, rec := f.context(req, f.tx.ID.String())

		require.NoError(t, f.handler.UploadReceipt(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("image too small", func(t *testing.T) {
		f := newReceiptHandlerFixture(true)
		body, contentType := multipartImage(t, "receipt.png", 20, 20)
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		c, rec := f.context(req, f.tx.ID.String())

		require.NoError(t, f.handler.UploadReceipt(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		problem := decodeProblem(t, rec)
		require.NotEmpty(t, problem.Errors)
		assert.Equal(t, "file", problem.Errors[0].Field)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		f := newReceiptHandlerFixture(true)
		body, contentType := multipartImage(t, "receipt.png", 120, 80)
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		c, rec := f.context(req, uuid.NewString())

		require.NoError(t, f.handler.UploadReceipt(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetAndDeleteReceipt(t *testing.T) {
	f := newReceiptHandlerFixture(true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, rec := f.context(req, f.tx.ID.String())
	require.NoError(t, f.handler.GetReceipt(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	path := "receipts/existing.jpg"
	f.store.Objects[path] = []byte("jpeg")
	f.tx.ReceiptPath = &path

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	c, rec = f.context(req, f.tx.ID.String())
	require.NoError(t, f.handler.GetReceipt(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var response ReceiptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "https://receipts.test/receipts/existing.jpg?expires=900", response.URL)

	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	c, rec = f.context(req, f.tx.ID.String())
	require.NoError(t, f.handler.DeleteReceipt(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, f.tx.ReceiptPath)
	assert.Empty(t, f.store.Objects)
}
