package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sternfield Timetable API",
        "description": "Timetable lookups, teacher schedules and lesson reminders for Sternfield College",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Timetable catalogue"},
        {"name": "Classes", "description": "Class timetables"},
        {"name": "Teachers", "description": "Teacher assignments and day schedules"},
        {"name": "Exports", "description": "CSV and PDF schedule downloads"},
        {"name": "Chat", "description": "Timetable assistant"},
        {"name": "Reminders", "description": "Lesson reminder task"},
        {"name": "System", "description": "Runtime counters"}
    ],
    "paths": {
        "/timetable/classes": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List classes in the timetable",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/timetable/subjects": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List subject cells in the timetable",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/classes/{class}/schedule": {
            "get": {
                "tags": ["Classes"],
                "summary": "Class activities at a time, or the whole day",
                "parameters": [
                    {"name": "class", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "query", "required": true, "type": "string"},
                    {"name": "time", "in": "query", "type": "string", "description": "HH:MM; omitted returns the full day"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid time format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{class}/subjects": {
            "get": {
                "tags": ["Classes"],
                "summary": "Distinct subjects of a class on a day",
                "parameters": [
                    {"name": "class", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/classes/{class}/schedule/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a class day timetable",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "class", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {"200": {"description": "File"}, "400": {"description": "Unsupported format"}}
            }
        },
        "/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List registered teachers",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/teachers/{name}/assignments": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List a teacher's assignments",
                "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Teachers"],
                "summary": "Register a class/subject for a teacher",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate assignment", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{name}/assignments/{index}": {
            "delete": {
                "tags": ["Teachers"],
                "summary": "Remove a teacher's assignment by position",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "index", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No such assignment", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{name}/schedule": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Teacher day schedule",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "query", "type": "string", "description": "Defaults to today"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown teacher or no entries for the day", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "No timetable data", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{name}/resolve": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Current lesson, next lesson and free periods",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "query", "type": "string", "description": "Defaults to today"},
                    {"name": "time", "in": "query", "type": "string", "description": "HH:MM, defaults to now"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid time format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/teachers/{name}/schedule/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a teacher day schedule",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "day", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {"200": {"description": "File"}, "400": {"description": "Unsupported format"}}
            }
        },
        "/chat": {
            "post": {
                "tags": ["Chat"],
                "summary": "Ask the timetable assistant",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChatRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reminders": {
            "get": {
                "tags": ["Reminders"],
                "summary": "Reminder task status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Reminders"],
                "summary": "Start reminders for a teacher",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartReminderRequest"}}
                ],
                "responses": {
                    "202": {"description": "Started", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Teacher has no registered classes", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Reminders"],
                "summary": "Stop the running reminder task",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/system/metrics": {
            "get": {
                "tags": ["System"],
                "summary": "Aggregated request, cache and reminder counters",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "RegisterAssignmentRequest": {
            "type": "object",
            "required": ["class", "subject"],
            "properties": {
                "class": {"type": "string"},
                "subject": {"type": "string"}
            }
        },
        "ChatRequest": {
            "type": "object",
            "required": ["role", "name", "message"],
            "properties": {
                "role": {"type": "string", "enum": ["teacher", "student"]},
                "name": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "StartReminderRequest": {
            "type": "object",
            "required": ["teacher"],
            "properties": {
                "teacher": {"type": "string"}
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
                "meta": {"type": "object"}
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
