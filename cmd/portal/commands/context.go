package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/Freeeeeet/glee_portal/internal/app"
	"github.com/Freeeeeet/glee_portal/internal/config"
)

// AppContext holds the dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Logger *zap.Logger
	App    *app.App
	Ctx    context.Context
}
