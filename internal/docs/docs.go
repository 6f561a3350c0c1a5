// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o internal/docs
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
        "/holdings": {
            "get": {
                "tags": [
                    "holdings"
                ],
                "summary": "List holdings",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "investment, crypto, stocks, budget or credit",
                        "name": "scope",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page number",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "page_size",
                        "in": "query"
                    }
                ]
            },
            "post": {
                "tags": [
                    "holdings"
                ],
                "summary": "Add holding",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input or missing name",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Invalid API key",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.CreateHoldingRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            }
        },
        "/holdings/sort": {
            "get": {
                "tags": [
                    "holdings"
                ],
                "summary": "Get sort",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "post": {
                "tags": [
                    "holdings"
                ],
                "summary": "Toggle sort",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid sort key",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.SortRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "holdings"
                ],
                "summary": "Clear sort",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            }
        },
        "/holdings/{id}": {
            "get": {
                "tags": [
                    "holdings"
                ],
                "summary": "Get holding",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Holding not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Holding ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ]
            },
            "patch": {
                "tags": [
                    "holdings"
                ],
                "summary": "Edit holding field",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Unknown field",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Holding not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Holding ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.UpdateHoldingRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "holdings"
                ],
                "summary": "Delete holding",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Holding not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "428": {
                        "description": "Confirmation required",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Holding ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "boolean",
                        "description": "Must be true",
                        "name": "confirm",
                        "in": "query",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            }
        },
        "/holdings/{id}/move": {
            "post": {
                "tags": [
                    "holdings"
                ],
                "summary": "Move holding",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "404": {
                        "description": "Holding not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Holding ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.MoveHoldingRequest"
                        }
                    }
                ],
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            }
        },
        "/summary": {
            "get": {
                "tags": [
                    "summary"
                ],
                "summary": "Get summary",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/settings/rates": {
            "get": {
                "tags": [
                    "settings"
                ],
                "summary": "Get rates",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            },
            "put": {
                "tags": [
                    "settings"
                ],
                "summary": "Update rates",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Invalid input",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "description": "Request body",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.Rates"
                        }
                    }
                ],
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            }
        },
        "/settings/rates/refresh": {
            "post": {
                "tags": [
                    "settings"
                ],
                "summary": "Refresh rates",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "502": {
                        "description": "Quote source unavailable",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            }
        },
        "/prices/crypto/refresh": {
            "post": {
                "tags": [
                    "prices"
                ],
                "summary": "Refresh crypto prices",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "409": {
                        "description": "Refresh already running",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "No CoinGecko ids set",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Price source unavailable",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            }
        },
        "/prices/stocks/refresh": {
            "post": {
                "tags": [
                    "prices"
                ],
                "summary": "Refresh stock prices",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "409": {
                        "description": "Refresh already running",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "No tickers set",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Price source unavailable",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            }
        },
        "/prices/status": {
            "get": {
                "tags": [
                    "prices"
                ],
                "summary": "Price refresh status",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/backup/export": {
            "get": {
                "tags": [
                    "backup"
                ],
                "summary": "Export JSON backup",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/backup/export.xlsx": {
            "get": {
                "tags": [
                    "backup"
                ],
                "summary": "Export XLSX report",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/backup/import": {
            "post": {
                "tags": [
                    "backup"
                ],
                "summary": "Import JSON backup",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Not a list or malformed",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "428": {
                        "description": "Confirmation required",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "parameters": [
                    {
                        "type": "boolean",
                        "description": "Must be true",
                        "name": "confirm",
                        "in": "query",
                        "required": true
                    }
                ],
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            }
        },
        "/backup/remote": {
            "post": {
                "tags": [
                    "backup"
                ],
                "summary": "Remote backup",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "No destination configured",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "APIKeyAuth": []
                    }
                ]
            }
        },
        "/audit": {
            "get": {
                "tags": [
                    "audit"
                ],
                "summary": "List audit log",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                },
                "parameters": [
                    {
                        "type": "string",
                        "description": "Filter by action",
                        "name": "action",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page number",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Page size",
                        "name": "page_size",
                        "in": "query"
                    }
                ]
            }
        }
    },
    "definitions": {
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "$ref": "#/definitions/handlers.ErrorDetail"
                }
            }
        },
        "handlers.CreateHoldingRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "account": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "amountInvested": {
                    "type": "string"
                },
                "currentValue": {
                    "type": "string"
                },
                "currency": {
                    "type": "string"
                },
                "quantity": {
                    "type": "string"
                },
                "avgBuyPrice": {
                    "type": "string"
                },
                "pruCurrency": {
                    "type": "string"
                },
                "coingeckoId": {
                    "type": "string"
                },
                "stockTicker": {
                    "type": "string"
                },
                "owner": {
                    "type": "string"
                },
                "mode": {
                    "type": "string"
                }
            }
        },
        "handlers.UpdateHoldingRequest": {
            "type": "object",
            "required": [
                "field"
            ],
            "properties": {
                "field": {
                    "type": "string"
                },
                "value": {
                    "type": "string"
                }
            }
        },
        "handlers.MoveHoldingRequest": {
            "type": "object",
            "required": [
                "direction"
            ],
            "properties": {
                "direction": {
                    "type": "string",
                    "enum": [
                        "up",
                        "down"
                    ]
                }
            }
        },
        "handlers.SortRequest": {
            "type": "object",
            "required": [
                "key"
            ],
            "properties": {
                "key": {
                    "type": "string"
                }
            }
        },
        "models.Rates": {
            "type": "object",
            "properties": {
                "eurUsdtRate": {
                    "type": "number"
                },
                "chfEurRate": {
                    "type": "number"
                }
            }
        },
        "models.Holding": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "account": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "amountInvested": {
                    "type": "number"
                },
                "currentValue": {
                    "type": "number"
                },
                "currency": {
                    "type": "string"
                },
                "quantity": {
                    "type": "number"
                },
                "avgBuyPrice": {
                    "type": "number"
                },
                "pruCurrency": {
                    "type": "string"
                },
                "livePrice": {
                    "type": "number"
                },
                "coingeckoId": {
                    "type": "string"
                },
                "stockTicker": {
                    "type": "string"
                },
                "owner": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "APIKeyAuth": {
            "description": "Shared secret required on mutating requests when API_KEY is set.",
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Patrimony API",
	Description:      "Personal holdings ledger: investments, crypto, stocks, budget flows and credits.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
