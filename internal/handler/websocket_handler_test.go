package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/auth"
	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenValidator struct {
	userID uuid.UUID
	err    error
}

func (s *stubTokenValidator) ValidateToken(token string) (uuid.UUID, error) {
	return s.userID, s.err
}

var testAllowedOrigins = []string{"http://localhost:3000", "https://spendwise.app"}

func TestWebSocketHandler_RejectsMissingOrBadToken(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		validator *stubTokenValidator
	}{
		{"missing token", "/ws", &stubTokenValidator{userID: uuid.New()}},
		{"invalid token", "/ws?token=garbage", &stubTokenValidator{err: errors.New("invalid token")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWebSocketHandler(websocket.NewHub(), tt.validator, testAllowedOrigins)
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, h.HandleWS(c))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestWebSocketHandler_NotAnUpgrade(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubTokenValidator{userID: uuid.New()}, testAllowedOrigins)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/ws?token=valid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.HandleWS(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebSocketHandler_OriginCheck(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubTokenValidator{}, testAllowedOrigins)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"", true},
		{"http://localhost:3000", true},
		{"https://spendwise.app", true},
		{"https://evil.example", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.allowed, h.originAllowed(req), tt.origin)
	}
}

func TestWebSocketHandler_DeliversUserEvents(t *testing.T) {
	v, err := auth.NewValidator(testJWTConfig)
	require.NoError(t, err)
	userID := uuid.New()
	token, _, err := auth.NewTokenIssuer(testJWTConfig).Issue(userID)
	require.NoError(t, err)

	hub := websocket.NewHub()
	h := NewWebSocketHandler(hub, websocket.NewJWTValidator(v), testAllowedOrigins)
	e := echo.New()
	e.GET("/ws", h.HandleWS)
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + token
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount(userID) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(uuid.New(), websocket.TransactionDeleted(map[string]string{"id": "other"}))
	hub.Broadcast(userID, websocket.TransactionDeleted(map[string]string{"id": "mine"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event websocket.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "transaction.deleted", event.Type)
	assert.Equal(t, websocket.EntityTypeTransaction, event.Entity)

	payload, ok := event.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "mine", payload["id"])
}
