package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the article API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>api-supermercado - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document for the article routes.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "api-supermercado", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Articulo": {
        "type": "object",
        "additionalProperties": true,
        "properties": {
          "_id": { "type": "string" },
          "codigo": { "type": "integer", "format": "int64" },
          "nombre": { "type": "string" },
          "categoria": { "type": "string" },
          "precio": { "type": "number" }
        }
      }
    }
  },
  "paths": {
    "/": { "get": { "summary": "Welcome message", "responses": { "200": { "description": "Bienvenido a la API de Supermercado" } } } },
    "/articulos": {
      "get": { "summary": "List every article", "responses": { "200": { "description": "array of articles" }, "500": { "description": "store failure" } } }
    },
    "/articulo": {
      "post": {
        "summary": "Create an article",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Articulo" } } } },
        "responses": { "201": { "description": "submitted document echoed" }, "400": { "description": "missing or malformed body" }, "500": { "description": "store failure" } }
      }
    },
    "/articulo/{id}": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "integer" } } ],
      "get": { "summary": "Get article by codigo", "responses": { "200": { "description": "article" }, "404": { "description": "invalid id or not found" }, "500": { "description": "store failure" } } },
      "put": {
        "summary": "Update the precio of the article with codigo",
        "requestBody": { "required": true, "content": { "application/json": { "schema": { "type": "object", "required": ["precio"], "properties": { "precio": { "type": "number" } } } } } },
        "responses": { "200": { "description": "submitted body echoed" }, "400": { "description": "missing or malformed body" }, "404": { "description": "invalid id" }, "500": { "description": "store failure" } }
      },
      "delete": { "summary": "Delete article by codigo", "responses": { "204": { "description": "deleted" }, "404": { "description": "invalid id or not found" }, "500": { "description": "store failure" } } }
    },
    "/articulo/nombre/{nombre}": {
      "get": { "summary": "Case-insensitive substring search on nombre", "parameters": [ { "name": "nombre", "in": "path", "required": true, "schema": { "type": "string" } } ], "responses": { "200": { "description": "matching articles" }, "404": { "description": "no match" } } }
    },
    "/articulo/categoria/{categoria}": {
      "get": { "summary": "Case-insensitive substring search on categoria", "parameters": [ { "name": "categoria", "in": "path", "required": true, "schema": { "type": "string" } } ], "responses": { "200": { "description": "matching articles" }, "404": { "description": "no match" } } }
    },
    "/articulo/precio/{precio}": {
      "get": { "summary": "Articles with precio greater than or equal to value", "parameters": [ { "name": "precio", "in": "path", "required": true, "schema": { "type": "number" } } ], "responses": { "200": { "description": "matching articles" }, "404": { "description": "invalid value or no match" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition format" } } } }
  }
}`
