package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/spendwise/spendwise-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/swaggo/swag"
)

// OpenAPIDocument is the OpenAPI 3.0 rendition of the generated swagger 2.0 document
type OpenAPIDocument struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []OpenAPIServer        `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// OpenAPIServer is one entry of the document's servers list
type OpenAPIServer struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

const (
	swaggerRefPrefix = "#/definitions/"
	openAPIRefPrefix = "#/components/schemas/"
)

// schemaFields are the swagger 2.0 parameter keys that move under "schema" in OpenAPI 3
var schemaFields = []string{"type", "format", "enum", "default", "minimum", "maximum", "items"}

// convertNode rewrites definition refs and non-body parameters throughout a swagger subtree
func convertNode(node interface{}) interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		if isParameter(v) {
			return convertParameter(v)
		}
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				out[key] = strings.Replace(ref, swaggerRefPrefix, openAPIRefPrefix, 1)
				continue
			}
			out[key] = convertNode(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = convertNode(item)
		}
		return out
	default:
		return node
	}
}

func isParameter(node map[string]interface{}) bool {
	_, hasIn := node["in"]
	_, hasName := node["name"]
	return hasIn && hasName
}

// convertParameter nests type information under "schema". Body and form parameters are left alone.
func convertParameter(param map[string]interface{}) map[string]interface{} {
	if in := param["in"]; in == "body" || in == "formData" {
		return param
	}

	out := make(map[string]interface{})
	for _, key := range []string{"name", "in", "description", "required"} {
		if value, ok := param[key]; ok {
			out[key] = value
		}
	}

	schema := make(map[string]interface{})
	for _, key := range schemaFields {
		value, ok := param[key]
		if !ok {
			continue
		}
		if key == "items" {
			value = convertNode(value)
		}
		schema[key] = value
	}
	if len(schema) > 0 {
		out["schema"] = schema
	}
	return out
}

// BuildOpenAPIDocument converts the registered swagger document to OpenAPI 3.0
func BuildOpenAPIDocument(servers []OpenAPIServer) (*OpenAPIDocument, error) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return nil, err
	}

	var swagger map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &swagger); err != nil {
		return nil, err
	}

	info, _ := swagger["info"].(map[string]interface{})
	paths, _ := convertNode(swagger["paths"]).(map[string]interface{})

	components := make(map[string]interface{})
	if security, ok := swagger["securityDefinitions"].(map[string]interface{}); ok {
		components["securitySchemes"] = security
	}
	if definitions, ok := swagger["definitions"].(map[string]interface{}); ok {
		components["schemas"] = convertNode(definitions)
	}

	return &OpenAPIDocument{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    servers,
		Paths:      paths,
		Components: components,
	}, nil
}

// ServeOpenAPI serves the converted document at /openapi.json
func ServeOpenAPI(servers []OpenAPIServer) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := BuildOpenAPIDocument(servers)
		if err != nil {
			log.Error().Err(err).Msg("Failed to build OpenAPI document")
			return NewInternalError(c, "Failed to read API documentation")
		}
		return c.JSON(http.StatusOK, doc)
	}
}
