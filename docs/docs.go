// Package docs registers the OpenAPI document served under /swagger.
//
// The document is built from the annotations on cmd/api/main.go and the handlers.
// Regenerate it with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TokenPair"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "Registration data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.TokenPair"}},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Email or username already registered"}
                }
            }
        },
        "/study/check": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["study"],
                "summary": "Check answer",
                "parameters": [
                    {"description": "Answer", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CheckAnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CheckAnswerResponse"}}
                }
            }
        },
        "/economy/exchange": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["economy"],
                "summary": "Exchange points for PITECOINs",
                "parameters": [
                    {"description": "Exchange", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ExchangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Exchange"}},
                    "400": {"description": "Validation error or insufficient points"}
                }
            }
        }
    },
    "definitions": {
        "models.LoginRequest": {
            "type": "object",
            "properties": {"login": {"type": "string"}, "password": {"type": "string"}}
        },
        "models.RegisterRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "username": {"type": "string"}, "password": {"type": "string"}}
        },
        "models.TokenPair": {
            "type": "object",
            "properties": {"accessToken": {"type": "string"}, "refreshToken": {"type": "string"}}
        },
        "models.CheckAnswerRequest": {
            "type": "object",
            "properties": {
                "flashcardId": {"type": "integer"},
                "answer": {"type": "string"},
                "direction": {"type": "string", "enum": ["forward", "reverse"]},
                "threshold": {"type": "number"}
            }
        },
        "models.CheckAnswerResponse": {
            "type": "object",
            "properties": {
                "correct": {"type": "boolean"},
                "matched": {"type": "string"},
                "distance": {"type": "integer"},
                "expected": {"type": "string"}
            }
        },
        "models.ExchangeRequest": {
            "type": "object",
            "properties": {"points": {"type": "integer"}, "idempotencyKey": {"type": "string"}}
        },
        "models.Exchange": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "points": {"type": "integer"},
                "pitecoins": {"type": "integer"},
                "idempotencyKey": {"type": "string"},
                "replayed": {"type": "boolean"},
                "createdAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Piteco API",
	Description:      "Flashcards, classes, chat and PITECOIN economy for the Piteco study app",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
