package app

import (
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/driver"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App         *App
	Logger      ports.Logger
	GraphLoader ports.GraphLoader
	Operation   *driver.Operation
}
