// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/links": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["links"],
                "summary": "List the caller's links",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.linkResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/http.rateLimitResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["links"],
                "summary": "Shorten a URL",
                "parameters": [
                    {"description": "link", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createLinkRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.linkResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/http.rateLimitResponse"}}
                }
            }
        },
        "/api/links/{code}/clicks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["links"],
                "summary": "Recorded clicks of an owned link",
                "parameters": [
                    {"type": "string", "name": "code", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.linkClicksResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/{code}": {
            "get": {
                "tags": ["links"],
                "summary": "Follow a short link",
                "parameters": [
                    {"type": "string", "description": "short or custom code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "410": {"description": "Gone", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/http.rateLimitResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.createLinkRequest": {
            "type": "object",
            "properties": {
                "originalUrl": {"type": "string"},
                "customCode": {"type": "string"},
                "expirationDays": {"type": "integer"}
            }
        },
        "handler.linkResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "shortCode": {"type": "string"},
                "customCode": {"type": "string"},
                "shortUrl": {"type": "string"},
                "originalUrl": {"type": "string"},
                "expiresAt": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "handler.clickResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "timestamp": {"type": "string"},
                "referer": {"type": "string"},
                "userAgent": {"type": "string"},
                "country": {"type": "string"},
                "city": {"type": "string"},
                "region": {"type": "string"},
                "geoSource": {"type": "string"}
            }
        },
        "handler.linkClicksResponse": {
            "type": "object",
            "properties": {
                "link": {"$ref": "#/definitions/handler.linkResponse"},
                "total": {"type": "integer"},
                "uniqueVisitors": {"type": "integer"},
                "clicks": {"type": "array", "items": {"$ref": "#/definitions/handler.clickResponse"}}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "http.rateLimitResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "limit": {"type": "integer"},
                "remaining": {"type": "integer"},
                "resetAt": {"type": "string"},
                "retryAfter": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Shortlink API",
	Description:      "URL shortening with click analytics and owner notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
