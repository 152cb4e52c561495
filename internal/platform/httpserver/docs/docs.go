// Package docs provides the generated swagger spec served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/faucet/v1/claims": {
            "post": {
                "produces": ["application/json"],
                "tags": ["faucet"],
                "summary": "Claim the configured amount of an asset from the treasury",
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "asset not configured"},
                    "409": {"description": "max claims reached or insufficient funds"},
                    "429": {"description": "rate limited"}
                }
            }
        },
        "/api/faucet/v1/deposits": {
            "post": {
                "produces": ["application/json"],
                "tags": ["faucet"],
                "summary": "Deposit a registered asset into the treasury",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "zero deposit"},
                    "404": {"description": "asset not configured"}
                }
            }
        },
        "/api/faucet/v1/config/delay": {
            "get": {
                "produces": ["application/json"],
                "tags": ["config"],
                "summary": "Read the global claim cooldown delay",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["config"],
                "summary": "Set the global claim cooldown delay (admin)",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "invalid delay"},
                    "403": {"description": "not admin"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Faucet API",
	Description:      "Capability-gated token distribution service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
