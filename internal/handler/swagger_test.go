package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertParameter(t *testing.T) {
	query := map[string]interface{}{
		"name":     "months",
		"in":       "query",
		"type":     "integer",
		"default":  6,
		"minimum":  1,
		"maximum":  24,
		"required": false,
	}

	got := convertParameter(query)
	assert.Equal(t, "months", got["name"])
	assert.NotContains(t, got, "type")
	schema, ok := got["schema"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "integer", schema["type"])
	assert.Equal(t, 24, schema["maximum"])

	body := map[string]interface{}{"name": "request", "in": "body", "schema": map[string]interface{}{}}
	assert.Equal(t, body, convertParameter(body))
}

func TestConvertNode_RewritesRefs(t *testing.T) {
	node := map[string]interface{}{
		"schema": map[string]interface{}{"$ref": "#/definitions/handler.UserResponse"},
		"list":   []interface{}{map[string]interface{}{"$ref": "#/definitions/handler.ProblemDetails"}},
	}

	got := convertNode(node).(map[string]interface{})
	assert.Equal(t, "#/components/schemas/handler.UserResponse", got["schema"].(map[string]interface{})["$ref"])
	assert.Equal(t, "#/components/schemas/handler.ProblemDetails", got["list"].([]interface{})[0].(map[string]interface{})["$ref"])
}

func TestServeOpenAPI(t *testing.T) {
	servers := []OpenAPIServer{{URL: "http://localhost:8080/api/v1", Description: "Local"}}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, ServeOpenAPI(servers)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc OpenAPIDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, servers, doc.Servers)
	assert.Equal(t, "Spendwise API", doc.Info["title"])
	for _, path := range []string{"/dashboard/summary", "/dashboard/trend", "/dashboard/breakdown", "/transactions/{id}/receipt"} {
		assert.Contains(t, doc.Paths, path)
	}
	assert.Contains(t, doc.Components, "securitySchemes")
	assert.False(t, strings.Contains(rec.Body.String(), "#/definitions/"))
}
