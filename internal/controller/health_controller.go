package controller

import (
	"context"
	"time"

	"interview-rag-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// Pinger is anything the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	checks map[string]Pinger
}

func NewHealthController(checks map[string]Pinger) IHealthController {
	return &healthController{checks: checks}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(c.checks))
	healthy := true
	for name, check := range c.checks {
		if err := check.Ping(pingCtx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.Response{
			Success: false,
			Code:    fiber.StatusServiceUnavailable,
			Error:   "dependency unavailable",
			Data:    status,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("healthy", status))
}
