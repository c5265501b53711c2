package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) openapi(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(openAPIDoc))
}

// openAPIDoc describes the HTTP surface. Served as-is from /openapi so the
// root redirect has somewhere to land; any OpenAPI UI can be pointed at it.
const openAPIDoc = `{
  "openapi": "3.0.3",
  "info": {
    "title": "Gestor de crises empresarial",
    "version": "1.0.0"
  },
  "paths": {
    "/crise": {
      "post": {
        "summary": "Adiciona uma nova crise à base",
        "requestBody": {
          "content": {
            "application/x-www-form-urlencoded": {
              "schema": {
                "type": "object",
                "required": ["nome", "data_crise", "prazo", "detalhes"],
                "properties": {
                  "nome": {"type": "string"},
                  "data_crise": {"type": "string", "example": "01/05/2023"},
                  "prazo": {"type": "integer"},
                  "detalhes": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Crise"},
          "409": {"$ref": "#/components/responses/Error"},
          "400": {"$ref": "#/components/responses/Error"}
        }
      },
      "delete": {
        "summary": "Remove uma crise pelo id",
        "parameters": [
          {"name": "id", "in": "query", "required": true, "schema": {"type": "integer"}}
        ],
        "responses": {
          "200": {"description": "Confirmação da remoção"},
          "404": {"$ref": "#/components/responses/Error"}
        }
      }
    },
    "/crises": {
      "get": {
        "summary": "Lista todas as crises, ordenadas pelo prazo",
        "responses": {
          "200": {"description": "Listagem de crises"}
        }
      }
    },
    "/updateCrise": {
      "put": {
        "summary": "Edita uma crise já salva na base",
        "requestBody": {
          "content": {
            "application/x-www-form-urlencoded": {
              "schema": {
                "type": "object",
                "required": ["id"],
                "properties": {
                  "id": {"type": "integer"},
                  "nome": {"type": "string"},
                  "data_crise": {"type": "string"},
                  "prazo": {"type": "integer"},
                  "detalhes": {"type": "string"}
                }
              }
            }
          }
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Crise"},
          "404": {"$ref": "#/components/responses/Error"},
          "400": {"$ref": "#/components/responses/Error"}
        }
      }
    },
    "/crisesapi": {
      "get": {
        "summary": "Ingere um evento da API de risco e lista as crises",
        "responses": {
          "200": {"description": "Listagem de crises após uma ingestão"}
        }
      }
    },
    "/health": {
      "get": {
        "summary": "Verificação de saúde do serviço",
        "responses": {
          "200": {"description": "ok"}
        }
      }
    }
  },
  "components": {
    "responses": {
      "Crise": {
        "description": "Representação de uma crise",
        "content": {
          "application/json": {
            "schema": {
              "type": "object",
              "properties": {
                "id": {"type": "integer"},
                "nome": {"type": "string"},
                "data_crise": {"type": "string"},
                "prazo": {"type": "integer"},
                "detalhes": {"type": "string"}
              }
            }
          }
        }
      },
      "Error": {
        "description": "Mensagem de erro",
        "content": {
          "application/json": {
            "schema": {
              "type": "object",
              "properties": {
                "mesage": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`
