package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timesheet Review Gateway",
        "description": "Reviewer dashboard and work-log API over the submissions backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Dashboard", "description": "Region and status tabs, selection and bulk actions"},
        {"name": "WorkLogs", "description": "Per-submission schedule detail and status changes"},
        {"name": "Documents", "description": "Stored work-hours PDF lookup"},
        {"name": "Preferences", "description": "Remembered dashboard view per viewer"},
        {"name": "Health", "description": "Liveness, readiness and metrics"}
    ],
    "parameters": {
        "Viewer": {"name": "X-Viewer-ID", "in": "header", "type": "string", "description": "Reviewer session id, defaults to \"default\""}
    },
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness probe over the enabled dependencies",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Health"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Open the dashboard in the remembered view",
                "parameters": [{"$ref": "#/parameters/Viewer"}],
                "responses": {"307": {"description": "Redirect to /api/v1/dashboard/{region}/{status}"}}
            }
        },
        "/api/v1/dashboard/{region}/{status}": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard for a region and status tab",
                "parameters": [
                    {"$ref": "#/parameters/Viewer"},
                    {"name": "region", "in": "path", "required": true, "type": "string", "enum": ["tennessee", "kentucky"]},
                    {"name": "status", "in": "path", "required": true, "type": "string", "enum": ["pending", "approved", "sent", "confirmed", "all"]},
                    {"name": "page", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}},
                    "307": {"description": "Unrecognised region or status, redirected to the resolved view"},
                    "502": {"description": "Submissions backend failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/export": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Download the current dashboard page",
                "produces": ["application/pdf", "text/csv"],
                "parameters": [
                    {"$ref": "#/parameters/Viewer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unknown format or dashboard not loaded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/reload": {
            "post": {
                "tags": ["Dashboard"],
                "summary": "Refetch submissions and region tags",
                "parameters": [{"$ref": "#/parameters/Viewer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}},
                    "502": {"description": "Submissions backend failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/dashboard/selection": {
            "put": {
                "tags": ["Dashboard"],
                "summary": "Toggle, set or select-all in the current tab",
                "parameters": [
                    {"$ref": "#/parameters/Viewer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}},
                    "400": {"description": "Invalid payload or id outside the tab", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Dashboard"],
                "summary": "Clear the selection",
                "parameters": [{"$ref": "#/parameters/Viewer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardEnvelope"}}}
            }
        },
        "/api/v1/dashboard/actions/{action}": {
            "post": {
                "tags": ["Dashboard"],
                "summary": "Apply an action to the selected submissions",
                "description": "Requests run concurrently. If any fails the dashboard keeps its previous state and one error is returned.",
                "parameters": [
                    {"$ref": "#/parameters/Viewer"},
                    {"name": "action", "in": "path", "required": true, "type": "string", "enum": ["approve", "send", "confirm", "delete"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown action or empty selection", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Action not allowed for a selected status", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "A backend update failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/worklogs/{id}": {
            "get": {
                "tags": ["WorkLogs"],
                "summary": "Work log detail",
                "parameters": [
                    {"$ref": "#/parameters/Viewer"},
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Submission id, or last"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/WorkLogEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/worklogs/{id}/status": {
            "patch": {
                "tags": ["WorkLogs"],
                "summary": "Change a submission's status",
                "parameters": [
                    {"$ref": "#/parameters/Viewer"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/WorkLogEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Transition not allowed or update already running", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Backend rejected the update", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/worklogs/{id}/history": {
            "get": {
                "tags": ["WorkLogs"],
                "summary": "Recorded status transitions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/worklogs/{id}/export": {
            "get": {
                "tags": ["WorkLogs"],
                "summary": "Download a work log",
                "produces": ["application/pdf", "text/csv"],
                "parameters": [
                    {"$ref": "#/parameters/Viewer"},
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Submission id, or last"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/documents/{filename}": {
            "get": {
                "tags": ["Documents"],
                "summary": "Resolve a stored PDF name to a URL",
                "parameters": [
                    {"name": "filename", "in": "path", "required": true, "type": "string"},
                    {"name": "redirect", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DocumentEnvelope"}},
                    "302": {"description": "Redirect to the document"},
                    "404": {"description": "No candidate name exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Lookup failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/preferences": {
            "get": {
                "tags": ["Preferences"],
                "summary": "Stored view preferences",
                "parameters": [{"$ref": "#/parameters/Viewer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Preferences"],
                "summary": "Forget preferences and sessions",
                "parameters": [{"$ref": "#/parameters/Viewer"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/v1/preferences/view": {
            "get": {
                "tags": ["Preferences"],
                "summary": "Resolve which dashboard view to show",
                "parameters": [
                    {"$ref": "#/parameters/Viewer"},
                    {"name": "region", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "SelectionRequest": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "integer"}},
                "checked": {"type": "boolean"}
            }
        },
        "StatusUpdateRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["approved", "sent", "confirmed", "deleted"]}
            }
        },
        "DashboardRow": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "employeeName": {"type": "string"},
                "requestorName": {"type": "string"},
                "requestDate": {"type": "string"},
                "serviceWeek": {"type": "string"},
                "status": {"type": "string"},
                "statusName": {"type": "string"},
                "region": {"type": "string"},
                "hours": {"type": "string"},
                "selected": {"type": "boolean"},
                "actions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "DashboardView": {
            "type": "object",
            "properties": {
                "loaded": {"type": "boolean"},
                "error": {"type": "string"},
                "loadedAt": {"type": "string"},
                "region": {"type": "string"},
                "regionName": {"type": "string"},
                "status": {"type": "string"},
                "title": {"type": "string"},
                "regionCounts": {"type": "object"},
                "statusCounts": {"type": "object"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/DashboardRow"}},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "selectedIds": {"type": "array", "items": {"type": "integer"}},
                "selectedInTab": {"type": "integer"},
                "allSelected": {"type": "boolean"},
                "actions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ScheduleRow": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "time": {"type": "string"},
                "location": {"type": "string"},
                "label": {"type": "string"},
                "shift": {"type": "string"},
                "hours": {"type": "number"},
                "parsed": {"type": "boolean"}
            }
        },
        "WorkLogView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "loaded": {"type": "boolean"},
                "employeeName": {"type": "string"},
                "requestorName": {"type": "string"},
                "requestDate": {"type": "string"},
                "serviceWeekStart": {"type": "string"},
                "serviceWeekEnd": {"type": "string"},
                "status": {"type": "string"},
                "statusName": {"type": "string"},
                "region": {"type": "string"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/ScheduleRow"}},
                "totalHours": {"type": "number"},
                "totalHoursText": {"type": "string"},
                "missedDays": {"type": "integer"},
                "previewUrl": {"type": "string"},
                "previewError": {"type": "string"},
                "actionError": {"type": "string"},
                "updating": {"type": "boolean"},
                "actions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "DocumentLink": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "key": {"type": "string"},
                "url": {"type": "string"},
                "probes": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        },
        "DashboardEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/DashboardView"},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        },
        "WorkLogEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/WorkLogView"}
            }
        },
        "DocumentEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/DocumentLink"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
