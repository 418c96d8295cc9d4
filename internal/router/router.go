package router // package router composes the HTTP pipeline from explicit dependencies

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"tasktracker/internal/config"
	"tasktracker/internal/handler"
	"tasktracker/internal/middleware"
	"tasktracker/internal/queue"
	"tasktracker/internal/repository"
)

// Deps carries everything the server needs. There are no ambient globals:
// the secret, the stores and the optional collaborators all arrive here.
type Deps struct {
	Cfg    config.Config
	Users  repository.UserStore
	Tasks  repository.TaskStore
	Cache  *redis.Client   // nil disables the response cache
	Events queue.Publisher // nil disables event publishing
}

// New builds the full request-handling pipeline. Recover runs always so an
// uncaught panic surfaces as a bare 500; request logging runs only outside
// production, mirroring the original's dev-only access log.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	if !d.Cfg.IsProd() {
		e.Use(echomw.Logger())
	}

	e.GET("/healthz", handler.Health)

	authed := middleware.Authenticate(d.Cfg.JWTSecret, d.Cfg.CookieSecret)

	ah := handler.NewAuthHandler(d.Cfg, d.Users)
	auth := e.Group("/api/v1/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.GET("/getCurrentUser", ah.GetCurrentUser, authed)
	// Logout stays unauthenticated: clearing an absent cookie is harmless
	// and the original answers 200 either way.
	auth.GET("/logout", ah.Logout)

	th := handler.NewTaskHandler(d.Cfg, d.Tasks, d.Events)
	task := e.Group("/api/v1/task", authed)
	task.POST("", th.Create)
	task.GET("", th.List, middleware.CacheResponses(config.LoadCacheConfig(), d.Cache))
	task.PATCH("/:id", th.Update)
	task.DELETE("/:id", th.Delete)

	return e
}
