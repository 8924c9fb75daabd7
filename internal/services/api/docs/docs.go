// Package docs registers the OpenAPI document served at /api/docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{.Description}}",
    "version": "{{.Version}}"
  },
  "paths": {
    "/meta/health": {"get": {"tags": ["Meta"], "summary": "Liveness", "responses": {"200": {"description": "ok"}}}},
    "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness with dependency checks", "responses": {"200": {"description": "ok"}, "503": {"description": "a dependency failed"}}}},
    "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}},
    "/meta/service": {"get": {"tags": ["Meta"], "summary": "Service info and uptime", "responses": {"200": {"description": "ok"}}}},
    "/games/{gamePk}/plays": {
      "get": {
        "tags": ["Games"],
        "summary": "Stored plays of a game",
        "parameters": [{"name": "gamePk", "in": "path", "required": true, "schema": {"type": "string", "example": "2016020001"}}],
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Plays"}}}},
          "404": {"description": "not found"}
        }
      }
    },
    "/games/combine": {
      "post": {
        "tags": ["Games"],
        "summary": "Fetch and reconcile a game live",
        "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CombineInput"}}}},
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Combined"}}}},
          "422": {"description": "documents do not reconcile"}
        }
      }
    },
    "/players/{id}": {
      "get": {
        "tags": ["Players"],
        "summary": "Stored roster entry",
        "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer", "example": 8475172}}],
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Player"}}}},
          "404": {"description": "not found"}
        }
      }
    },
    "/players/{id}/events": {
      "get": {
        "tags": ["Players"],
        "summary": "Plays a player took part in",
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}},
          {"name": "limit", "in": "query", "schema": {"type": "integer", "default": 50, "maximum": 500}},
          {"name": "offset", "in": "query", "schema": {"type": "integer", "default": 0}}
        ],
        "responses": {"200": {"description": "ok"}}
      }
    }
  },
  "components": {
    "schemas": {
      "CombineInput": {
        "type": "object",
        "required": ["season", "game"],
        "properties": {
          "season": {"type": "integer", "example": 2016},
          "game": {"type": "integer", "example": 20001}
        }
      },
      "Player": {
        "type": "object",
        "properties": {
          "id": {"type": "integer"},
          "name": {"type": "string"},
          "position": {"type": "string"},
          "team": {"type": "string"},
          "jersey": {"type": "integer"},
          "lastGamePk": {"type": "integer"}
        }
      },
      "Event": {
        "type": "object",
        "properties": {
          "id": {"type": "integer"},
          "period": {"type": "integer"},
          "periodType": {"type": "string", "enum": ["regular", "overtime", "shootout"]},
          "time": {"type": "integer", "description": "seconds elapsed in the period"},
          "type": {"type": "string"},
          "description": {"type": "string"},
          "team": {"type": "string"},
          "zones": {"type": "array", "items": {"type": "string", "enum": ["o", "d", "n"]}},
          "players": {"type": "array", "items": {"type": "object", "properties": {"role": {"type": "string"}, "playerId": {"type": "integer"}}}},
          "penMins": {"type": "integer"},
          "penSeverity": {"type": "string"}
        }
      },
      "Plays": {
        "type": "object",
        "properties": {
          "game": {"type": "object"},
          "events": {"type": "array", "items": {"$ref": "#/components/schemas/Event"}}
        }
      },
      "Combined": {
        "type": "object",
        "properties": {
          "gamePk": {"type": "integer"},
          "away": {"type": "string"},
          "home": {"type": "string"},
          "roster": {"type": "integer"},
          "events": {"type": "array", "items": {"$ref": "#/components/schemas/Event"}}
        }
      }
    }
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Title:            "rinkfeed API",
	Description:      "Reconciled NHL play by play",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
