// Package docs serves the Swagger document for the control API. It mirrors
// the swag annotations in internal/http; docs_test.go fails when they drift.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/guttosm/vitaltrack-proxy",
            "email": "support@example.com"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "description": "Returns OK if the process is running.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "Service is alive",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Returns OK if the cache store is reachable. Upstream circuit state and the worker lifecycle state are reported but do not fail the probe.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "Service is ready",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "503": {
                        "description": "Service is not ready",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/sw/activate": {
            "post": {
                "description": "Deletes every cache except the current version and claims all open clients.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Lifecycle"
                ],
                "summary": "Activate the worker",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/LifecycleResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "409": {
                        "description": "Install has not succeeded",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/sw/caches": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Lifecycle"
                ],
                "summary": "Named caches",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/CachesResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/sw/clients": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Clients"
                ],
                "summary": "Window clients",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/model.Client"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            },
            "post": {
                "description": "Records a page loaded by the browser. Pages registered after activation are controlled.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Clients"
                ],
                "summary": "Register a window client",
                "parameters": [
                    {
                        "description": "Page URL",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/RegisterClientRequest"
                        },
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/model.Client"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/sw/install": {
            "post": {
                "description": "Precaches every manifest URL into the current cache, all or nothing, then activates. Installing an activated worker is a no-op.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Lifecycle"
                ],
                "summary": "Install the worker",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/LifecycleResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "502": {
                        "description": "A manifest resource could not be fetched",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/sw/message": {
            "post": {
                "description": "GET_VERSION replies with the cache version. SKIP_WAITING activates a waiting worker. Other types are ignored.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Lifecycle"
                ],
                "summary": "Post a control message",
                "parameters": [
                    {
                        "description": "Control message",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/MessageRequest"
                        },
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "GET_VERSION reply",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/VersionResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "202": {
                        "description": "Message accepted",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/LifecycleResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/sw/notifications": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Notifications"
                ],
                "summary": "Displayed notifications",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "type": "array",
                                            "items": {
                                                "$ref": "#/definitions/model.Notification"
                                            }
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        },
        "/sw/notifications/{id}/click": {
            "post": {
                "description": "Closes the notification. The open action also focuses or opens a window at the notification URL.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Notifications"
                ],
                "summary": "Click a notification",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Notification id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Chosen action",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/ClickRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Focused or opened client, null when none",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/model.Client"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/sw/periodicsync": {
            "post": {
                "description": "Shows the daily reminder for the daily-health-reminder tag. Other tags show nothing.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Sync"
                ],
                "summary": "Periodic background sync",
                "parameters": [
                    {
                        "description": "Periodic sync tag",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/TagRequest"
                        },
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/NotificationResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/sw/push": {
            "post": {
                "description": "Shows the health reminder. The raw request body is the notification text; an empty body uses the default reminder. Redeliveries with the same Idempotency-Key are answered from cache.",
                "consumes": [
                    "text/plain"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Notifications"
                ],
                "summary": "Deliver a push message",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Push delivery id",
                        "name": "Idempotency-Key",
                        "in": "header"
                    },
                    {
                        "description": "Notification body",
                        "name": "payload",
                        "in": "body",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/NotificationResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "413": {
                        "description": "Payload over 4 KiB",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/sw/sync": {
            "post": {
                "description": "Acknowledges the health-data-backup tag. Other tags are not handled.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Sync"
                ],
                "summary": "Background sync",
                "parameters": [
                    {
                        "description": "Sync tag",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/TagRequest"
                        },
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/SyncResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/sw/version": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Lifecycle"
                ],
                "summary": "Current cache version",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {
                                    "$ref": "#/definitions/SuccessResponse"
                                },
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {
                                            "$ref": "#/definitions/VersionResponse"
                                        }
                                    }
                                }
                            ]
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "CachesResponse": {
            "type": "object",
            "properties": {
                "caches": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "current": {
                    "type": "string",
                    "example": "vitaltrack-v1.0.0"
                }
            }
        },
        "ClickRequest": {
            "description": "Notification click",
            "type": "object",
            "properties": {
                "action": {
                    "type": "string",
                    "example": "open"
                }
            }
        },
        "ErrorResponse": {
            "description": "Standardized error response",
            "type": "object",
            "properties": {
                "details": {
                    "description": "Details contains additional error details (optional)",
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "error": {
                    "type": "string",
                    "example": "invalid_request"
                },
                "message": {
                    "type": "string",
                    "example": "tag: is required"
                },
                "request_id": {
                    "type": "string",
                    "example": "550e8400-e29b-41d4-a716-446655440000"
                },
                "timestamp": {
                    "type": "string",
                    "example": "2026-01-28T10:00:00Z"
                }
            }
        },
        "LifecycleResponse": {
            "type": "object",
            "properties": {
                "deleted": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "message": {
                    "type": "string"
                },
                "state": {
                    "type": "string",
                    "example": "activated"
                },
                "version": {
                    "type": "string",
                    "example": "vitaltrack-v1.0.0"
                }
            }
        },
        "MessageRequest": {
            "description": "Control message for the offline cache proxy",
            "type": "object",
            "properties": {
                "type": {
                    "description": "Type is SKIP_WAITING or GET_VERSION. Other types are accepted and ignored.",
                    "type": "string",
                    "example": "GET_VERSION"
                }
            }
        },
        "NotificationResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "shown": {
                    "type": "boolean"
                }
            }
        },
        "RegisterClientRequest": {
            "description": "Window client registration",
            "type": "object",
            "properties": {
                "url": {
                    "type": "string",
                    "example": "/"
                }
            }
        },
        "SuccessResponse": {
            "description": "Successful API response wrapper",
            "type": "object",
            "properties": {
                "data": {
                    "description": "Data contains the actual response data",
                    "type": "object"
                },
                "request_id": {
                    "description": "RequestID is the unique request identifier",
                    "type": "string",
                    "example": "550e8400-e29b-41d4-a716-446655440000"
                },
                "timestamp": {
                    "description": "Timestamp is when the response was generated",
                    "type": "string",
                    "example": "2026-01-28T10:00:00Z"
                }
            }
        },
        "SyncResponse": {
            "type": "object",
            "properties": {
                "handled": {
                    "type": "boolean"
                },
                "tag": {
                    "type": "string",
                    "example": "health-data-backup"
                }
            }
        },
        "TagRequest": {
            "description": "Sync event tag",
            "type": "object",
            "properties": {
                "tag": {
                    "type": "string",
                    "example": "daily-health-reminder"
                }
            }
        },
        "VersionResponse": {
            "type": "object",
            "properties": {
                "version": {
                    "type": "string",
                    "example": "vitaltrack-v1.0.0"
                }
            }
        },
        "model.Client": {
            "type": "object",
            "properties": {
                "controlled": {
                    "type": "boolean"
                },
                "created_at": {
                    "type": "string"
                },
                "focused": {
                    "type": "boolean"
                },
                "id": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "example": "window"
                },
                "url": {
                    "type": "string",
                    "example": "/"
                }
            }
        },
        "model.Notification": {
            "description": "Displayed notification",
            "type": "object",
            "properties": {
                "actions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.NotificationAction"
                    }
                },
                "badge": {
                    "type": "string"
                },
                "body": {
                    "type": "string",
                    "example": "Time to check your health goals!"
                },
                "data": {
                    "$ref": "#/definitions/model.NotificationData"
                },
                "icon": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "require_interaction": {
                    "type": "boolean"
                },
                "shown_at": {
                    "type": "string"
                },
                "silent": {
                    "type": "boolean"
                },
                "tag": {
                    "type": "string"
                },
                "title": {
                    "type": "string",
                    "example": "VitalTrack Health Reminder"
                },
                "vibrate": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                }
            }
        },
        "model.NotificationAction": {
            "type": "object",
            "properties": {
                "action": {
                    "type": "string",
                    "example": "open"
                },
                "icon": {
                    "type": "string",
                    "example": "/icon-72x72.png"
                },
                "title": {
                    "type": "string",
                    "example": "Open VitalTrack"
                }
            }
        },
        "model.NotificationData": {
            "type": "object",
            "properties": {
                "timestamp": {
                    "type": "integer",
                    "example": 1760745600000
                },
                "url": {
                    "type": "string",
                    "example": "/"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "VitalTrack Offline Proxy API",
	Description:      "Offline cache proxy for the VitalTrack web application.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
