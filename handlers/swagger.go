package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>docugrade — Swagger</title>
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

// Minimal OpenAPI document describing the public endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "docugrade", "version": "v0.1.0" },
  "paths": {
    "/api/auth/register": {
      "post": { "summary": "Register a new account", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "created user" }, "400": { "description": "email already registered" } } }
    },
    "/api/auth/login": {
      "post": { "summary": "Exchange credentials for a bearer token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "access token" }, "400": { "description": "incorrect email or password" } } }
    },
    "/api/files/upload": {
      "post": { "summary": "Upload files into the caller's storage area", "responses": { "200": { "description": "saved filenames" }, "401": { "description": "unauthenticated" } } }
    },
    "/api/files/": {
      "get": { "summary": "List the caller's documents, newest first", "responses": { "200": { "description": "document summaries" }, "401": { "description": "unauthenticated" } } }
    },
    "/api/files/download/{id}": {
      "get": { "summary": "Download one document under its original filename", "responses": { "200": { "description": "file stream" }, "403": { "description": "access denied" }, "404": { "description": "not found / missing on disk" } } }
    },
    "/api/rag/build": {
      "post": { "summary": "Build the stub index manifest", "responses": { "200": { "description": "files indexed" } } }
    },
    "/api/rag/assess": {
      "post": { "summary": "Grade a text against uploaded files", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"text":{"type":"string"}}}}}}, "responses": { "200": { "description": "grade and explanation" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
