package router

import (
	"github.com/oktavandi/tasknest/internal/application"
	"github.com/oktavandi/tasknest/internal/container"
	pginfra "github.com/oktavandi/tasknest/internal/infrastructure/postgres"
	handlers "github.com/oktavandi/tasknest/internal/interface/http"
	"github.com/oktavandi/tasknest/internal/router/modules"
)

// InitModules builds services and handlers from the container
// singletons and registers all feature modules. Called once during
// startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	authSvc := application.NewAuthService(repo, container.GetJWT(), logger, cfg.BcryptCost)
	taskSvc := application.NewTaskService(repo, container.GetRabbitPub(), logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger)))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, logger), authSvc))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
