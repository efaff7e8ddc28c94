// Package docs registers the OpenAPI document served under /swagger.
// It is maintained by hand alongside the handler annotations.
package docs

import "github.com/swaggo/swag/v2"

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
        "/health": {
            "get": {
                "tags": ["system"],
                "summary": "Liveness and database reachability",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/system/info": {
            "get": {
                "tags": ["system"],
                "summary": "Get system information",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Operator sign-in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current session",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/pending-incomes/clients": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["pending-incomes"],
                "summary": "Clients with pending income",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Case-insensitive client name filter", "name": "search", "in": "query"},
                    {"enum": ["ALL", "HAS_OVERDUE", "HAS_DUE_SOON", "CURRENT_ONLY"], "type": "string", "description": "Status filter", "name": "status", "in": "query"},
                    {"enum": ["DEBT_DESC", "DEBT_ASC", "INVOICE_COUNT_DESC", "NAME_ASC"], "type": "string", "description": "Sort order", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/dto.ClientAggregateResponse"}}}}
                            ]
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/pending-incomes/clients/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["pending-incomes"],
                "summary": "Pending invoices of one client",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "format": "uuid", "description": "Client ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.ClientDetailResponse"}}}
                            ]
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/pending-incomes/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["pending-incomes"],
                "summary": "Portfolio summary of a client view",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Case-insensitive client name filter", "name": "search", "in": "query"},
                    {"type": "string", "description": "Status filter", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.PortfolioSummaryResponse"}}}
                            ]
                        }
                    },
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/pending-incomes/exports": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["pending-incomes"],
                "summary": "Export a client view as CSV",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "Case-insensitive client name filter", "name": "search", "in": "query"},
                    {"type": "string", "description": "Status filter", "name": "status", "in": "query"},
                    {"type": "string", "description": "Sort order", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/dto.Response"},
                                {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.ExportResponse"}}}
                            ]
                        }
                    },
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        }
    },
    "definitions": {
        "dto.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorInfo"},
                "meta": {"type": "object", "properties": {"total": {"type": "integer"}}}
            }
        },
        "dto.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "details": {
                    "type": "array",
                    "items": {"type": "object", "properties": {"field": {"type": "string"}, "message": {"type": "string"}}}
                }
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string", "maxLength": 64},
                "password": {"type": "string", "maxLength": 128}
            }
        },
        "valueobject.Money": {
            "type": "object",
            "properties": {
                "amount": {"type": "string", "example": "5568.00"},
                "currency": {"type": "string", "example": "MXN"}
            }
        },
        "dto.ClientAggregateResponse": {
            "type": "object",
            "properties": {
                "client_id": {"type": "string"},
                "client_name": {"type": "string"},
                "initials": {"type": "string"},
                "total_pending": {"$ref": "#/definitions/valueobject.Money"},
                "invoice_count": {"type": "integer"},
                "overdue_count": {"type": "integer"},
                "overdue_amount": {"$ref": "#/definitions/valueobject.Money"},
                "due_soon_count": {"type": "integer"},
                "due_soon_amount": {"$ref": "#/definitions/valueobject.Money"},
                "has_overdue": {"type": "boolean"},
                "has_due_soon": {"type": "boolean"}
            }
        },
        "dto.PortfolioSummaryResponse": {
            "type": "object",
            "properties": {
                "client_count": {"type": "integer"},
                "invoice_count": {"type": "integer"},
                "total_pending": {"$ref": "#/definitions/valueobject.Money"},
                "overdue_amount": {"$ref": "#/definitions/valueobject.Money"},
                "due_soon_amount": {"$ref": "#/definitions/valueobject.Money"},
                "clients_with_overdue": {"type": "integer"},
                "clients_with_due_soon": {"type": "integer"},
                "today": {"type": "string", "format": "date"},
                "status": {"type": "string"},
                "sort": {"type": "string"}
            }
        },
        "dto.InvoiceDetailResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "folio": {"type": "string"},
                "total": {"$ref": "#/definitions/valueobject.Money"},
                "invoice_date": {"type": "string", "format": "date"},
                "reception_date": {"type": "string", "format": "date"},
                "due_date": {"type": "string", "format": "date"},
                "status": {"type": "string", "enum": ["OVERDUE", "DUE_SOON", "CURRENT", "UNDATED"]},
                "days_overdue": {"type": "integer"},
                "days_until_due": {"type": "integer"},
                "days": {"type": "string", "example": "-3"},
                "marker": {"type": "string"}
            }
        },
        "dto.ClientDetailResponse": {
            "type": "object",
            "properties": {
                "today": {"type": "string", "format": "date"},
                "client": {
                    "type": "object",
                    "properties": {
                        "id": {"type": "string"},
                        "name": {"type": "string"},
                        "initials": {"type": "string"},
                        "credit_days": {"type": "integer"},
                        "tax_id": {"type": "string"},
                        "contact_email": {"type": "string"}
                    }
                },
                "aggregate": {"$ref": "#/definitions/dto.ClientAggregateResponse"},
                "invoices": {"type": "array", "items": {"$ref": "#/definitions/dto.InvoiceDetailResponse"}}
            }
        },
        "dto.ExportResponse": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "rows": {"type": "integer"},
                "size": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token authentication. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds the document metadata; the server may override Host
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "IMA Mecatrónica Pending Income API",
	Description:      "Aging and aggregation of customer invoices awaiting payment",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
