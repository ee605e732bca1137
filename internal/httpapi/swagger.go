//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// swaggerSpec is written by hand and kept in sync with cmd/predictd/docs.go
// and pkg/types.
var swaggerSpec = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "predictd API",
	Description:      "Synchronous prediction service over a pre-loaded model.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerTemplate,
}

func init() {
	swag.Register(swaggerSpec.InstanceName(), swaggerSpec)
}

// MountSwagger serves the Swagger UI at /swagger/ and the spec at /swagger/doc.json.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

const swaggerTemplate = `{
  "swagger": "2.0",
  "info": {"title": "{{.Title}}", "description": "{{escape .Description}}", "version": "{{.Version}}"},
  "basePath": "{{.BasePath}}",
  "schemes": {{ marshal .Schemes }},
  "paths": {
    "/": {"get": {"summary": "Liveness", "produces": ["application/json"],
      "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}}},
    "/health": {"get": {"summary": "Liveness", "produces": ["application/json"],
      "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}}},
    "/metrics": {"get": {"summary": "Prometheus metrics", "produces": ["text/plain"],
      "responses": {"200": {"description": "Text exposition format"}}}},
    "/predict": {"post": {"summary": "Run one prediction", "consumes": ["application/json"], "produces": ["application/json"],
      "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.PredictionRequest"}}],
      "responses": {
        "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PredictionResponse"}},
        "413": {"description": "Body exceeds http.max_body_bytes", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
        "415": {"description": "Content-Type is not JSON", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
        "422": {"description": "Schema violation", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
        "500": {"description": "Encoding or inference failure", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
      }}}
  },
  "definitions": {
    "types.PredictionRequest": {"type": "object",
      "required": ["Age", "Income", "Dependents", "Occupation", "Credit", "Property"],
      "properties": {
        "Age": {"type": "number", "example": 30},
        "Income": {"type": "number", "example": 50000},
        "Dependents": {"type": "number", "example": 1},
        "Occupation": {"type": "string", "example": "Employed"},
        "Credit": {"type": "number", "example": 700},
        "Property": {"type": "string", "example": "House"}
      }},
    "types.PredictionResponse": {"type": "object", "properties": {"prediction": {"type": "number", "example": 0.73}}},
    "types.StatusResponse": {"type": "object", "properties": {"status": {"type": "string", "example": "ok"}}},
    "types.ErrorResponse": {"type": "object", "properties": {"detail": {"type": "string"}}}
  }
}`
