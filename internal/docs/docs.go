// Package docs registers the OpenAPI document served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/risk-scores": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Runs every predictor over one assessment. Each predictor is scored or carries validation errors.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["risk"],
                "summary": "Calculate actuarial risk scores",
                "parameters": [
                    {
                        "description": "Assessment request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "Risk scores", "schema": {"$ref": "#/definitions/RiskScoreResponse"}},
                    "400": {"description": "Malformed request body"},
                    "401": {"description": "Missing or invalid token"},
                    "403": {"description": "Token lacks ROLE_ARNS_RISK_ACTUARIAL"},
                    "429": {"description": "Rate limit exceeded"}
                }
            }
        },
        "/offences/{code}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["offences"],
                "summary": "Look up the reference record for an offence code",
                "parameters": [
                    {"type": "string", "description": "Five digit offence code", "name": "code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Offence record", "schema": {"$ref": "#/definitions/OffenceRecord"}},
                    "404": {"description": "Unknown offence code"}
                }
            }
        },
        "/admin/offences/sync": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["offences"],
                "summary": "Replace the offence reference set from the upstream API",
                "responses": {
                    "200": {"description": "Sync summary", "schema": {"$ref": "#/definitions/SyncResult"}},
                    "500": {"description": "Upstream API not configured"},
                    "502": {"description": "Upstream API failure"}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Service health",
                "responses": {"200": {"description": "Healthy"}, "503": {"description": "Degraded"}}
            }
        },
        "/metrics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Service metrics",
                "responses": {"200": {"description": "Metrics snapshot"}}
            }
        }
    },
    "definitions": {
        "ValidationError": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["MISSING_INPUT", "BELOW_MIN_VALUE", "ABOVE_MAX_VALUE", "INVALID_FORMAT", "INCONSISTENT_INPUT", "NOT_APPLICABLE", "NO_MATCHING_INPUT", "UNEXPECTED_ERROR"]},
                "message": {"type": "string"},
                "fields": {"type": "array", "items": {"type": "string"}}
            }
        },
        "PredictorOutput": {
            "type": "object",
            "properties": {
                "band": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH", "VERY_HIGH", "NOT_APPLICABLE"]},
                "validationErrors": {"type": "array", "items": {"$ref": "#/definitions/ValidationError"}}
            }
        },
        "RiskScoreResponse": {
            "type": "object",
            "properties": {
                "ogrs3": {"$ref": "#/definitions/PredictorOutput"},
                "ovp": {"$ref": "#/definitions/PredictorOutput"},
                "ogp": {"$ref": "#/definitions/PredictorOutput"},
                "ospDc": {"$ref": "#/definitions/PredictorOutput"},
                "ospIic": {"$ref": "#/definitions/PredictorOutput"},
                "rsr": {"$ref": "#/definitions/PredictorOutput"},
                "mst": {"$ref": "#/definitions/PredictorOutput"},
                "lds": {"$ref": "#/definitions/PredictorOutput"},
                "pni": {"$ref": "#/definitions/PredictorOutput"}
            }
        },
        "OffenceRecord": {
            "type": "object",
            "properties": {
                "offenceCode": {"type": "string"},
                "weightings": {"type": "object"},
                "flags": {"type": "object"}
            }
        },
        "SyncResult": {
            "type": "object",
            "properties": {
                "runId": {"type": "string"},
                "added": {"type": "integer"},
                "updated": {"type": "integer"},
                "deleted": {"type": "integer"},
                "unchanged": {"type": "integer"},
                "durationMs": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Risk Actuarial API",
	Description:      "Actuarial risk predictors for offender assessments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
