package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "Dayflow API Documentation",
        "title": "Dayflow API",
        "version": "1.0"
    },
    "host": "localhost:5555",
    "basePath": "/api/v1",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register",
                "description": "Create an account and seed its task collections",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "user",
                        "description": "Registration data",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "fullName": {
                                    "type": "string",
                                    "example": "Jane Doe"
                                },
                                "email": {
                                    "type": "string",
                                    "example": "jane@example.com"
                                },
                                "password": {
                                    "type": "string",
                                    "example": "secret-password"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Account created"
                    },
                    "409": {
                        "description": "Email already registered"
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Login",
                "description": "Login with email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "credentials",
                        "description": "Login credentials",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "email": {
                                    "type": "string",
                                    "example": "jane@example.com"
                                },
                                "password": {
                                    "type": "string",
                                    "example": "secret-password"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Login successful"
                    },
                    "401": {
                        "description": "Invalid credentials"
                    }
                }
            }
        },
        "/tasks/today": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Create today task",
                "description": "Create a task placed in the default folder, the today list and the current weekday bucket",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "task",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "title": {
                                    "type": "string",
                                    "example": "Buy groceries"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Task created"
                    }
                }
            }
        },
        "/tasks/today/all": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List today tasks",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Tasks due today"
                    }
                }
            }
        },
        "/weekdays": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List the 7-day window",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Seven days of tasks starting today"
                    }
                }
            }
        },
        "/allFolders": {
            "get": {
                "tags": ["Folders"],
                "summary": "List folders",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "All folders with their tasks"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5555",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Dayflow API",
	Description:      "Dayflow API Documentation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
