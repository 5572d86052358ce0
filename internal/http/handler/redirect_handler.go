package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/imirazimi/shortlink/internal/app/repository"
	"github.com/imirazimi/shortlink/internal/app/service"
	"go.uber.org/zap"
)

// RedirectDeps groups dependencies required by the redirect handler.
type RedirectDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
	Stats       repository.StatsRepository
}

// RedirectHandler is the thin entry point for visitors following short links.
type RedirectHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
	stats       repository.StatsRepository
}

// NewRedirectHandler creates a redirect handler with the provided dependencies.
func NewRedirectHandler(deps RedirectDeps) *RedirectHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedirectHandler{
		logger:      logger,
		linkService: deps.LinkService,
		stats:       deps.Stats,
	}
}

// Register wires redirect routes onto the provided router. The catch-all
// :code route must be registered after the API group.
func (h *RedirectHandler) Register(router fiber.Router) {
	router.Get("/", h.Health)
	router.Get("/health", h.Health)
	router.Get("/:code", h.Redirect)
}

// Health reports liveness, including database reachability.
func (h *RedirectHandler) Health(c *fiber.Ctx) error {
	status := "ok"
	httpStatus := fiber.StatusOK

	if h.stats != nil {
		ctx, cancel := context.WithTimeout(h.requestContext(c), 2*time.Second)
		defer cancel()
		if err := h.stats.Ping(ctx); err != nil {
			h.logger.Warn("health check database ping failed", zap.Error(err))
			status = "degraded"
			httpStatus = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"service": "shortlink",
		"status":  status,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Redirect handles GET /:code, counting the click and issuing a 302.
func (h *RedirectHandler) Redirect(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing link code",
		})
	}

	meta := service.ClickMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
		Referer:   c.Get("Referer"),
	}

	link, err := h.linkService.Resolve(h.requestContext(c), code, meta)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			// Expired and absent links are indistinguishable to visitors.
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "short link not found",
			})
		case errors.Is(err, repository.ErrStorageTimeout):
			h.logger.Warn("redirect storage timeout", zap.String("code", code), zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "storage temporarily unavailable",
			})
		default:
			h.logger.Error("failed to resolve link", zap.String("code", code), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
	}

	h.logger.Debug("redirecting short link",
		zap.String("code", code),
		zap.String("target", link.OriginalURL),
	)
	return c.Redirect(link.OriginalURL, fiber.StatusFound)
}

func (h *RedirectHandler) requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}
