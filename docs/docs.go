// Package docs provides the generated Swagger specification.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new account",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Exchange credentials for a JWT",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List the caller's tasks",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Create a task",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/tasks/sync": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Fetch tasks changed since last_sync",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tasks/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Fetch a single task",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Update a task",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            },
            "delete": {
                "tags": ["tasks"],
                "summary": "Soft delete a task",
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/tasks/{id}/complete": {
            "post": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Complete a task and spawn its next occurrence",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/tasks/{id}/reopen": {
            "post": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Reopen a completed task",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/tasks/{id}/advice": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Fetch AI advice for a task",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/goals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "List the caller's goals",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "Create a goal",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/goals/sync": {
            "get": {
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "Fetch goals changed since last_sync",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/goals/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "Fetch a single goal",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "Update a goal",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            },
            "delete": {
                "tags": ["goals"],
                "summary": "Soft delete a goal",
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/goals/{id}/checkin": {
            "post": {
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "Record a daily check-in against a goal streak",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/goals/{id}/milestones": {
            "get": {
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "List a goal's milestones",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "Add a milestone to a goal",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/milestones/{id}/toggle": {
            "post": {
                "produces": ["application/json"],
                "tags": ["goals"],
                "summary": "Toggle a milestone's completion state",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/arena/challenges/today": {
            "get": {
                "produces": ["application/json"],
                "tags": ["arena"],
                "summary": "Fetch today's challenges, generating them on first call",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/arena/boss": {
            "get": {
                "produces": ["application/json"],
                "tags": ["arena"],
                "summary": "Fetch this week's boss",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/arena/boss/generate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["arena"],
                "summary": "Generate the weekly boss",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/arena/powerups": {
            "get": {
                "produces": ["application/json"],
                "tags": ["arena"],
                "summary": "List the caller's power-up inventory",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/arena/powerups/{type}/activate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["arena"],
                "summary": "Activate a power-up",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/pacts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pacts"],
                "summary": "List the caller's pacts",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pacts"],
                "summary": "Create a pact with a partner",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/pacts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pacts"],
                "summary": "Fetch a single pact",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/pacts/{id}/accept": {
            "post": {
                "produces": ["application/json"],
                "tags": ["pacts"],
                "summary": "Accept a pending pact",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/pacts/{id}/checkin": {
            "post": {
                "produces": ["application/json"],
                "tags": ["pacts"],
                "summary": "Record a daily pact check-in",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/stats/momentum": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Aggregate momentum statistics for a date range",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Strive Engine API",
	Description:      "Gamified productivity backend: tasks, goals, arena and pacts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
