package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the survey service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
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
    <title>survey-backend - Swagger</title>
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

// Minimal OpenAPI document describing the record endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "survey-backend", "version": "v0.1.0" },
  "paths": {
    "/api/save_interview": {
      "post": {
        "summary": "Create or replace an interview by id",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["id"],"properties":{"id":{"type":"string"}},"additionalProperties":true}}}},
        "responses": { "200": { "description": "saved" }, "400": { "description": "missing id" }, "500": { "description": "storage error" } }
      }
    },
    "/api/save_survey": {
      "post": {
        "summary": "Create or replace a survey; an id is generated when the payload has none",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["type","payload"],"properties":{"type":{"type":"string","enum":["customer","employee"]},"payload":{"type":"object","additionalProperties":true}}}}}},
        "responses": { "200": { "description": "saved; body carries the resolved id" }, "400": { "description": "missing type or payload" }, "500": { "description": "storage error" } }
      }
    },
    "/api/get_surveys": {
      "get": { "summary": "List all surveys grouped into customer and employee", "responses": { "200": { "description": "customer, employee and optional interviews arrays" }, "500": { "description": "storage error" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
