// Package docs registra la especificación swagger servida en /swagger/*.
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
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/passes": {
            "post": {
                "tags": ["passes"],
                "summary": "Mintear un pass génesis (MINTER_ROLE)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/passes/{id}": {
            "get": {
                "tags": ["passes"],
                "summary": "Obtener un pass",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/breedings": {
            "post": {
                "tags": ["breeding"],
                "summary": "Cruzar matrona y sire",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/passes/{id}/birth": {
            "post": {
                "tags": ["breeding"],
                "summary": "Dar a luz",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/launchpad/purchases": {
            "post": {
                "tags": ["launchpad"],
                "summary": "Comprar passes de launchpad",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/admin/settings": {
            "get": {
                "tags": ["admin"],
                "summary": "Configuración runtime",
                "responses": {"200": {"description": "OK"}}
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
	Title:            "Pass Breeding API",
	Description:      "Registro de passes con cría, cooldowns, fees y supply.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
