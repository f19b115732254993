// Package docs registra en swag la documentación OpenAPI del API.
// Se mantiene a mano junto con las anotaciones de los handlers; cada ruta
// nueva en records.RegisterRoutes necesita su entrada en paths.
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
        "/animals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Listar animales",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/records.animalResponse"}}
                    }
                }
            },
            "post": {
                "description": "Alta de un animal. ` + "`" + `status` + "`" + ` es \"healthy\" si no se envía. ` + "`" + `weight` + "`" + ` acepta número o string numérico.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Registrar animal",
                "parameters": [
                    {
                        "description": "Datos del animal",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/records.animalRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/records.mutationResponse"}},
                    "400": {"description": "invalid json / campos requeridos", "schema": {"type": "string"}},
                    "503": {"description": "storage unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/animals/{animalID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Obtener animal",
                "parameters": [
                    {"type": "string", "description": "ID del animal", "name": "animalID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.animalResponse"}},
                    "404": {"description": "animal not found", "schema": {"type": "string"}}
                }
            },
            "put": {
                "description": "Reemplaza todos los campos del animal salvo id y created_at.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Editar animal",
                "parameters": [
                    {"type": "string", "description": "ID del animal", "name": "animalID", "in": "path", "required": true},
                    {
                        "description": "Datos completos del animal",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/records.animalRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.mutationResponse"}},
                    "400": {"description": "invalid json / campos requeridos", "schema": {"type": "string"}},
                    "404": {"description": "animal not found", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "description": "Elimina el animal junto con sus tratamientos, registros de alimentación y servicios (como hembra o macho). Un id inexistente no es error.",
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Eliminar animal",
                "parameters": [
                    {"type": "string", "description": "ID del animal", "name": "animalID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.deleteResponse"}},
                    "503": {"description": "storage unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/treatments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["treatments"],
                "summary": "Listar tratamientos",
                "description": "Ordenados por fecha descendente. Los filtros se combinan.",
                "parameters": [
                    {"type": "string", "description": "Tipo exacto", "name": "type", "in": "query"},
                    {"type": "string", "description": "ID del animal", "name": "animal_id", "in": "query"},
                    {"type": "string", "description": "Mes YYYY-MM", "name": "month", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/records.treatmentResponse"}}
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["treatments"],
                "summary": "Registrar tratamiento",
                "parameters": [
                    {
                        "description": "Tratamiento",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/records.treatmentRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/records.mutationResponse"}},
                    "400": {"description": "campos requeridos / animal inexistente", "schema": {"type": "string"}},
                    "503": {"description": "storage unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/treatments/{treatmentID}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["treatments"],
                "summary": "Eliminar tratamiento",
                "parameters": [
                    {"type": "string", "description": "ID del tratamiento", "name": "treatmentID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.deleteResponse"}}
                }
            }
        },
        "/feeding": {
            "get": {
                "produces": ["application/json"],
                "tags": ["feeding"],
                "summary": "Listar alimentación",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/records.feedingResponse"}}
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feeding"],
                "summary": "Registrar alimentación",
                "parameters": [
                    {
                        "description": "Registro de alimentación",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/records.feedingRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/records.mutationResponse"}},
                    "400": {"description": "campos requeridos / animal inexistente", "schema": {"type": "string"}}
                }
            }
        },
        "/feeding/{feedingID}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["feeding"],
                "summary": "Eliminar registro de alimentación",
                "parameters": [
                    {"type": "string", "description": "ID del registro", "name": "feedingID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.deleteResponse"}}
                }
            }
        },
        "/breeding": {
            "get": {
                "produces": ["application/json"],
                "tags": ["breeding"],
                "summary": "Listar servicios",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/records.breedingResponse"}}
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["breeding"],
                "summary": "Registrar servicio",
                "parameters": [
                    {
                        "description": "Servicio",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/records.breedingRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/records.mutationResponse"}},
                    "400": {"description": "campos requeridos / animal inexistente", "schema": {"type": "string"}}
                }
            }
        },
        "/breeding/{breedingID}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["breeding"],
                "summary": "Eliminar servicio",
                "parameters": [
                    {"type": "string", "description": "ID del servicio", "name": "breedingID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.deleteResponse"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "description": "Totales por colección, tratamientos del mes, costo acumulado y alimentación del día.",
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Dashboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.dashboardResponse"}}
                }
            }
        },
        "/export": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Exportar backup",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/import": {
            "post": {
                "description": "Reemplaza todos los registros por el contenido de un export. Rechaza ids duplicados y referencias a animales inexistentes.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Restaurar backup",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/records.mutationResponse"}},
                    "400": {"description": "backup inválido", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "records.animalRequest": {
            "type": "object",
            "properties": {
                "birth_date": {"type": "string"},
                "breed": {"type": "string"},
                "gender": {"type": "string"},
                "name": {"type": "string"},
                "notes": {"type": "string"},
                "status": {"type": "string"},
                "type": {"type": "string"},
                "weight": {"type": "number"}
            }
        },
        "records.animalResponse": {
            "type": "object",
            "properties": {
                "age": {"type": "string"},
                "birth_date": {"type": "string"},
                "breed": {"type": "string"},
                "created_at": {"type": "string"},
                "gender": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "notes": {"type": "string"},
                "status": {"type": "string"},
                "type": {"type": "string"},
                "updated_at": {"type": "string"},
                "weight": {"type": "number"}
            }
        },
        "records.treatmentRequest": {
            "type": "object",
            "properties": {
                "animal_id": {"type": "string"},
                "cost": {"type": "number"},
                "date": {"type": "string"},
                "dosage": {"type": "string"},
                "name": {"type": "string"},
                "notes": {"type": "string"},
                "type": {"type": "string"},
                "veterinarian": {"type": "string"}
            }
        },
        "records.treatmentResponse": {
            "type": "object",
            "properties": {
                "animal_id": {"type": "string"},
                "animal_name": {"type": "string"},
                "cost": {"type": "number"},
                "created_at": {"type": "string"},
                "date": {"type": "string"},
                "dosage": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "notes": {"type": "string"},
                "type": {"type": "string"},
                "veterinarian": {"type": "string"}
            }
        },
        "records.feedingRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "animal_id": {"type": "string"},
                "feed_type": {"type": "string"},
                "notes": {"type": "string"},
                "time": {"type": "string"}
            }
        },
        "records.feedingResponse": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "animal_id": {"type": "string"},
                "animal_name": {"type": "string"},
                "created_at": {"type": "string"},
                "feed_type": {"type": "string"},
                "id": {"type": "string"},
                "notes": {"type": "string"},
                "time": {"type": "string"}
            }
        },
        "records.breedingRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "expected_birth_date": {"type": "string"},
                "female_id": {"type": "string"},
                "male_id": {"type": "string"},
                "method": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "records.breedingResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "date": {"type": "string"},
                "expected_birth_date": {"type": "string"},
                "female_id": {"type": "string"},
                "female_name": {"type": "string"},
                "id": {"type": "string"},
                "male_id": {"type": "string"},
                "male_name": {"type": "string"},
                "method": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "records.cascadeResponse": {
            "type": "object",
            "properties": {
                "breeding": {"type": "integer"},
                "feeding": {"type": "integer"},
                "treatments": {"type": "integer"}
            }
        },
        "records.deleteResponse": {
            "type": "object",
            "properties": {
                "cascade": {"$ref": "#/definitions/records.cascadeResponse"},
                "message": {"type": "string"},
                "removed": {"type": "boolean"}
            }
        },
        "records.mutationResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "message": {"type": "string"}
            }
        },
        "records.dashboardResponse": {
            "type": "object",
            "properties": {
                "animals_by_status": {"type": "object", "additionalProperties": {"type": "integer"}},
                "animals_by_type": {"type": "object", "additionalProperties": {"type": "integer"}},
                "animals_needing_attention": {"type": "integer"},
                "feed_amount_today": {"type": "number"},
                "feeding_today": {"type": "integer"},
                "recent_treatments": {"type": "array", "items": {"$ref": "#/definitions/records.treatmentResponse"}},
                "total_animals": {"type": "integer"},
                "total_breeding": {"type": "integer"},
                "total_feeding": {"type": "integer"},
                "total_treatments": {"type": "integer"},
                "treatment_cost_total": {"type": "number"},
                "treatments_this_month": {"type": "integer"}
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
	Title:            "Livestock Records API",
	Description:      "Registro de animales, tratamientos, alimentación y servicios de un establecimiento ganadero.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
