package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/prismhq/prism-api/internal/auth"
	"github.com/prismhq/prism-api/internal/cache"
	"github.com/prismhq/prism-api/internal/config"
	"github.com/prismhq/prism-api/internal/http/handlers"
	"github.com/prismhq/prism-api/internal/http/middlewares"
	"github.com/prismhq/prism-api/internal/observability"
	"github.com/prismhq/prism-api/internal/repo/postgres"
)

func NewRouter(
	log *slog.Logger,
	pool *pgxpool.Pool,
	listCache *cache.Cache,
	prom *observability.Prom,
	reg *prometheus.Registry,
	cfg config.Config,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("prism-api"))
	r.Use(prom.GinHandleMiddleware())

	// health + metrics

	pingDB := func(ctx context.Context) error {
		if pool == nil {
			return nil
		}

		cctx, cancel := context.WithTimeout(ctx, 1*time.Second)
		defer cancel()

		return pool.Ping(cctx)
	}

	h := handlers.NewHealthHandler(pingDB, listCache.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories

	usersRepo := postgres.NewUsersRepo(pool, prom)
	projectsRepo := postgres.NewProjectsRepo(pool, prom)

	verifier := auth.NewVerifier(usersRepo)
	authMW := middlewares.NewAuthMiddleware(verifier)
	requireAuth := authMW.RequireAuth()

	// wire up handlers

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, verifier, listCache)
	usersHandler := handlers.NewUsersHandler(usersRepo, listCache)
	projectsHandler := handlers.NewProjectsHandler(projectsRepo, listCache)

	r.POST("/auth/signup", authHandler.SignUp)
	r.POST("/auth/login", authHandler.Login)

	r.GET("/users", requireAuth, usersHandler.ListUsers)
	r.GET("/users/:id", requireAuth, usersHandler.GetUser)
	r.PATCH("/users/:id", requireAuth, usersHandler.UpdateUser)
	// intentionally unauthenticated
	r.DELETE("/users/:id", usersHandler.DeleteUser)

	r.GET("/projects", requireAuth, projectsHandler.ListProjects)
	r.GET("/projects/:id", requireAuth, projectsHandler.GetProject)
	r.POST("/projects", requireAuth, projectsHandler.CreateProject)
	r.PUT("/projects/:id", requireAuth, projectsHandler.UpdateProject)
	r.DELETE("/projects/:id", requireAuth, projectsHandler.DeleteProject)

	return r
}
