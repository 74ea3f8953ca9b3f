package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/shopnow/storefront/gateway/config"
	"github.com/shopnow/storefront/gateway/health"
	"github.com/shopnow/storefront/gateway/proxy"
)

// RouteDefinition defines a proxied route prefix
type RouteDefinition struct {
	Prefix      string
	Description string
}

// Routes holds all proxied prefixes
var Routes = []RouteDefinition{
	{
		Prefix:      "/api/products",
		Description: "Product catalog with filtering, search and enrichment",
	},
	{
		Prefix:      "/api/cart",
		Description: "Per-session cart with discounts and checkout",
	},
}

// SetupRoutes configures all gateway routes
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no upstream probes)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	// Readiness probe (checks storefront instances)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAll(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == "unhealthy" {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Load balancer stats
	app.Get("/gateway/stats", func(c *fiber.Ctx) error {
		return c.JSON(reverseProxy.LoadBalancer().Stats())
	})

	// Routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Storefront Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	handler := func(c *fiber.Ctx) error {
		return reverseProxy.ProxyRequest(c)
	}

	for _, route := range Routes {
		app.All(route.Prefix, handler)
		app.Group(route.Prefix).All("/*", handler)
	}
}
