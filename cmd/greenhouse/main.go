package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sproutly/greenhouse/cmd/greenhouse/container"
	"github.com/sproutly/greenhouse/cmd/greenhouse/repository"
	"github.com/sproutly/greenhouse/cmd/greenhouse/routes"
	"github.com/sproutly/greenhouse/common/bootstrap"
	"github.com/sproutly/greenhouse/common/logger"
	"github.com/sproutly/greenhouse/common/server"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (config, logger, DB, cache, storage)
	components, err := bootstrap.Setup(ctx, "greenhouse",
		bootstrap.WithDBInitHook(repository.ApplySchema),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap greenhouse: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(ctx, components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}
	defer serviceContainer.Close()

	e := setupEcho()
	setupMiddleware(e)
	setupHealthCheck(e, components)
	setupStatic(e, components)
	registerRoutes(e, serviceContainer)

	startServer(e, components)
}

// requestValidator adapts go-playground/validator to echo's Validator interface
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())
	e.Use(requestIDContext())
}

// requestIDContext copies echo's request id into the request context so
// Logger.WithContext can tag log lines with it
func requestIDContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(logger.ContextWithRequestID(req.Context(), requestID)))
			}
			return next(c)
		}
	}
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(503, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
		}
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"service": "greenhouse",
		})
	})
}

// setupStatic serves uploaded plant images
func setupStatic(e *echo.Echo, components *bootstrap.Components) {
	if components.Storage != nil {
		e.Static("/uploads", components.Storage.Dir())
	}
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterAuthRoutes(e, serviceContainer)
	routes.RegisterPlantRoutes(e, serviceContainer)
	routes.RegisterGardenRoutes(e, serviceContainer)
	routes.RegisterChatRoutes(e, serviceContainer)
}

// startServer runs the HTTP server with graceful shutdown
func startServer(e *echo.Echo, components *bootstrap.Components) {
	srv := server.New("greenhouse", components.Config.Service.Port, e, components.Logger)
	if err := srv.Start(); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
