package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Admissions Course Assignment API",
        "description": "Program resolution and batch course assignment engine",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Programs", "description": "Program catalogue"},
        {"name": "Resolution", "description": "Per-enrollment program resolution preview"},
        {"name": "Assignments", "description": "Batch course assignment runs"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/enrollments/{id}/resolution": {
            "get": {
                "tags": ["Resolution"],
                "summary": "Preview program resolution for an enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "strict", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Enrollment not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/assignment-runs": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Run the course assignment pipeline",
                "parameters": [
                    {"name": "async", "in": "query", "type": "boolean"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RunAssignmentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Run report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Run queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "A run is already in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No academic year available", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/assignment-runs/latest": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Fetch the most recent run report",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No report cached", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RunAssignmentsRequest": {
            "type": "object",
            "properties": {
                "academic_year_id": {"type": "integer"},
                "year_level": {"type": "integer", "minimum": 1, "maximum": 4},
                "semester": {"type": "integer", "minimum": 1, "maximum": 2},
                "student_type": {"type": "string", "enum": ["all", "new", "old"]},
                "program_id": {"type": "integer"}
            }
        },
        "RunReport": {
            "type": "object",
            "properties": {
                "run_id": {"type": "string"},
                "status": {"type": "string"},
                "academic_year_id": {"type": "integer"},
                "programs_processed": {"type": "integer"},
                "programs_skipped": {"type": "integer"},
                "curricula_materialized": {"type": "integer"},
                "students_processed": {"type": "integer"},
                "courses_assigned": {"type": "integer"},
                "students_with_new_courses": {"type": "integer"},
                "students_unresolved": {"type": "integer"},
                "errors": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/RunError"}
                },
                "started_at": {"type": "string"},
                "finished_at": {"type": "string"},
                "duration_ms": {"type": "integer"}
            }
        },
        "RunError": {
            "type": "object",
            "properties": {
                "enrollment_id": {"type": "integer"},
                "program_id": {"type": "integer"},
                "code": {"type": "string"},
                "message": {"type": "string"}
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
                "pagination": {"type": "object"},
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
