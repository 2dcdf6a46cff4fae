// Package docs registers the OpenAPI document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const doc = `{
  "swagger": "2.0",
  "info": {
    "title": "agentlists API",
    "description": "Upload contact lists and distribute them across active agents.",
    "version": "1.0"
  },
  "basePath": "/",
  "securityDefinitions": {
    "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
  },
  "security": [{"BearerAuth": []}],
  "paths": {
    "/health": {"get": {"summary": "Liveness and readiness", "security": [], "responses": {"200": {"description": "ok"}}}},
    "/auth/login": {"post": {"summary": "Sign in as admin", "security": [], "consumes": ["application/json"], "responses": {"200": {"description": "token issued"}, "401": {"description": "invalid credentials"}}}},
    "/auth/me": {"get": {"summary": "Current user", "responses": {"200": {"description": "user"}, "401": {"description": "unauthorized"}}}},
    "/lists/upload": {"post": {
      "summary": "Upload and distribute a csv, xlsx or xls file",
      "consumes": ["multipart/form-data"],
      "parameters": [{"name": "file", "in": "formData", "type": "file", "required": true}],
      "responses": {"201": {"description": "distributed"}, "400": {"description": "invalid file or rows"}, "413": {"description": "file too large"}, "415": {"description": "unsupported file type"}}
    }},
    "/lists": {"get": {
      "summary": "List distributed records, newest first",
      "parameters": [
        {"name": "agentId", "in": "query", "type": "string"},
        {"name": "uploadBatch", "in": "query", "type": "string"},
        {"name": "status", "in": "query", "type": "string", "enum": ["pending", "in-progress", "completed"]}
      ],
      "responses": {"200": {"description": "records"}}
    }},
    "/lists/agent/{agentId}": {"get": {"summary": "Records of one agent", "parameters": [{"name": "agentId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "records"}, "404": {"description": "agent not found"}}}},
    "/lists/summary": {"get": {"summary": "Per-batch distribution summaries", "responses": {"200": {"description": "summaries"}}}},
    "/lists/batch/{uploadBatch}": {"delete": {"summary": "Delete an upload batch", "parameters": [{"name": "uploadBatch", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "deleted"}, "404": {"description": "batch not found"}}}},
    "/lists/{recordId}/status": {"patch": {"summary": "Set record status", "parameters": [{"name": "recordId", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "updated"}, "400": {"description": "invalid status"}, "404": {"description": "record not found"}}}},
    "/agents": {
      "get": {"summary": "List agents, newest first", "responses": {"200": {"description": "agents"}}},
      "post": {"summary": "Create an agent", "consumes": ["application/json"], "responses": {"201": {"description": "created"}, "400": {"description": "invalid input"}, "409": {"description": "email in use"}}}
    },
    "/agents/count/active": {"get": {"summary": "Count active agents", "responses": {"200": {"description": "count"}}}},
    "/agents/{id}": {
      "get": {"summary": "Get an agent", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "agent"}, "404": {"description": "not found"}}},
      "put": {"summary": "Update an agent", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "agent"}, "404": {"description": "not found"}, "409": {"description": "email in use"}}},
      "delete": {"summary": "Delete an agent", "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "deleted"}, "404": {"description": "not found"}}}
    }
  }
}`

type document struct{}

func (document) ReadDoc() string {
	return doc
}

func init() {
	swag.Register(swag.Name, document{})
}
