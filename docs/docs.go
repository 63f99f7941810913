// Package docs expone la descripción OpenAPI de la API al registro de swag.
// swagger.json se mantiene junto a las anotaciones de los handlers (swag init -g cmd/api/main.go).
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var doc string

type openAPI struct{}

func (openAPI) ReadDoc() string { return doc }

func init() {
	swag.Register(swag.Name, openAPI{})
}
