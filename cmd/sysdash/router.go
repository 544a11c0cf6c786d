package main

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sysdash/internal/handlers"
	"sysdash/internal/middleware"
	"sysdash/internal/version"
	"sysdash/web"
)

func setupRouter(app *App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(app.manager.Config.VerboseHTTP))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(app.rateLimiter.Middleware())

	apiHandlers := handlers.NewAPIHandlers(app.dispatcher, app.manager, app.authService)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", app.readyHandler)
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Current())
	})
	if app.manager.Config.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Login stays reachable without a token.
	r.POST("/api/login", apiHandlers.APILogin)

	protected := []gin.HandlerFunc{}
	if app.authService != nil {
		protected = append(protected, app.authService.RequireAPIAuth())
	}

	api := r.Group("/api", protected...)
	{
		api.GET("/system-stats", apiHandlers.APISystemStats)
		api.GET("/greet", apiHandlers.APIGreet)
		api.POST("/invoke", apiHandlers.APIInvoke)
		api.GET("/commands", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"commands": app.dispatcher.Commands()})
		})
		api.GET("/port-forward", func(c *gin.Context) {
			c.JSON(http.StatusOK, app.manager.PortForwardStatus())
		})
	}

	r.GET("/ws", append(protected, app.wsHub.HandleWebSocket())...)

	static := web.Static()
	r.StaticFS("/static", http.FS(static))
	r.GET("/", func(c *gin.Context) {
		page, err := fs.ReadFile(static, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "view unavailable")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})

	return r
}

// readyHandler reports 503 until the root and logs directories exist.
func (app *App) readyHandler(c *gin.Context) {
	missing := []string{}
	if !app.manager.Paths.CheckRoot() {
		missing = append(missing, "root_path")
	}
	status := http.StatusOK
	if len(missing) > 0 {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"ready":   len(missing) == 0,
		"missing": missing,
	})
}
