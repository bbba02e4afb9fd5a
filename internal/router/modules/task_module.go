package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oktavandi/tasknest/internal/application"
	"github.com/oktavandi/tasknest/internal/container"
	handlers "github.com/oktavandi/tasknest/internal/interface/http"
	"github.com/oktavandi/tasknest/internal/interface/middleware"
)

// TaskModule mounts the bearer-protected task endpoints.
// GET/POST /tasks, PUT/DELETE /tasks/:taskId,
// GET/PUT /tasks/:taskId/subtasks
type TaskModule struct {
	Handler *handlers.TaskHandler
	Auth    *application.AuthService
}

func NewTaskModule(h *handlers.TaskHandler, auth *application.AuthService) *TaskModule {
	return &TaskModule{Handler: h, Auth: auth}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.Auth))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/tasks", m.Handler.List)
		auth.POST("/tasks", m.Handler.Create)
		auth.PUT("/tasks/:taskId", m.Handler.Update)
		auth.DELETE("/tasks/:taskId", m.Handler.Delete)
		auth.GET("/tasks/:taskId/subtasks", m.Handler.ListSubtasks)
		auth.PUT("/tasks/:taskId/subtasks", m.Handler.ReplaceSubtasks)
	}
}
