package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/imirazimi/shortlink/internal/app/model"
	"github.com/imirazimi/shortlink/internal/app/repository"
	"github.com/imirazimi/shortlink/internal/app/service"
	"go.uber.org/zap"
)

// OwnerHeader carries the authenticated owner identity set by the upstream
// auth layer. Absent header means an anonymous caller.
const OwnerHeader = "X-Owner-ID"

// APIDeps groups dependencies required by API handlers.
type APIDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
	Stats       repository.StatsRepository
	BaseURL     string
}

// APIHandler implements the management API endpoints.
type APIHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
	stats       repository.StatsRepository
	baseURL     string
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger:      logger,
		linkService: deps.LinkService,
		stats:       deps.Stats,
		baseURL:     deps.BaseURL,
	}
}

// Register wires API routes onto the provided router.
func (h *APIHandler) Register(router fiber.Router) {
	api := router.Group("/api")
	{
		api.Get("/stats", h.Stats)

		links := api.Group("/links")
		{
			links.Post("/", h.CreateLink)
			links.Get("/", h.ListLinks)
			links.Get("/:code", h.GetLink)
			links.Patch("/:code", h.UpdateLink)
			links.Delete("/:code", h.DeleteLink)
			links.Get("/:code/clicks", h.ListClicks)
		}
	}
}

// CreateLinkRequest represents the request body for creating a link.
type CreateLinkRequest struct {
	URL        string     `json:"url"`
	CustomCode string     `json:"custom_code,omitempty"`
	Title      *string    `json:"title,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// LinkResponse represents a link in API responses.
type LinkResponse struct {
	ID          string     `json:"id"`
	ShortCode   string     `json:"short_code"`
	ShortURL    string     `json:"short_url"`
	OriginalURL string     `json:"original_url"`
	Title       *string    `json:"title,omitempty"`
	ClickCount  int64      `json:"click_count"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (h *APIHandler) linkResponse(link *model.Link) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		ShortURL:    link.ShortURL(h.baseURL),
		OriginalURL: link.OriginalURL,
		Title:       link.Title,
		ClickCount:  link.ClickCount,
		ExpiresAt:   link.ExpiresAt,
		CreatedAt:   link.CreatedAt,
		UpdatedAt:   link.UpdatedAt,
	}
}

// CreateLink handles POST /api/links
func (h *APIHandler) CreateLink(c *fiber.Ctx) error {
	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	input := service.CreateLinkInput{
		OriginalURL: req.URL,
		CustomCode:  req.CustomCode,
		Title:       req.Title,
		ExpiresAt:   req.ExpiresAt,
	}
	if owner := c.Get(OwnerHeader); owner != "" {
		input.OwnerID = &owner
	}

	link, err := h.linkService.CreateLink(h.requestContext(c), input)
	if err != nil {
		return h.serviceError(c, err, "failed to create link")
	}

	return c.Status(fiber.StatusCreated).JSON(h.linkResponse(link))
}

// ListLinks handles GET /api/links
func (h *APIHandler) ListLinks(c *fiber.Ctx) error {
	owner := c.Get(OwnerHeader)
	if owner == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "owner identity required",
		})
	}

	limit, offset := pagination(c)
	links, err := h.linkService.ListOwnerLinks(h.requestContext(c), owner, limit, offset)
	if err != nil {
		return h.serviceError(c, err, "failed to list links")
	}

	response := make([]LinkResponse, len(links))
	for i := range links {
		response[i] = h.linkResponse(&links[i])
	}

	return c.JSON(fiber.Map{
		"links":  response,
		"limit":  limit,
		"offset": offset,
		"count":  len(response),
	})
}

// GetLink handles GET /api/links/:code
func (h *APIHandler) GetLink(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code is required",
		})
	}

	link, err := h.linkService.GetInfo(h.requestContext(c), code)
	if err != nil {
		return h.serviceError(c, err, "failed to get link")
	}

	return c.JSON(h.linkResponse(link))
}

// UpdateLinkRequest represents the request body for updating a link.
// Only the title is editable after creation.
type UpdateLinkRequest struct {
	Title *string `json:"title"`
}

// UpdateLink handles PATCH /api/links/:code
func (h *APIHandler) UpdateLink(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code is required",
		})
	}

	var req UpdateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	link, err := h.linkService.UpdateTitle(h.requestContext(c), code, c.Get(OwnerHeader), req.Title)
	if err != nil {
		return h.serviceError(c, err, "failed to update link")
	}

	return c.JSON(h.linkResponse(link))
}

// DeleteLink handles DELETE /api/links/:code
func (h *APIHandler) DeleteLink(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code is required",
		})
	}

	if err := h.linkService.DeleteLink(h.requestContext(c), code, c.Get(OwnerHeader)); err != nil {
		return h.serviceError(c, err, "failed to delete link")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ClickEventResponse represents one click event in API responses.
type ClickEventResponse struct {
	ID        string    `json:"id"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Referer   string    `json:"referer,omitempty"`
	Country   string    `json:"country,omitempty"`
	Browser   string    `json:"browser,omitempty"`
	Bot       bool      `json:"bot,omitempty"`
	ClickedAt time.Time `json:"clicked_at"`
}

// ListClicks handles GET /api/links/:code/clicks
func (h *APIHandler) ListClicks(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "code is required",
		})
	}

	limit, offset := pagination(c)
	events, total, err := h.linkService.ListClicks(h.requestContext(c), code, c.Get(OwnerHeader), limit, offset)
	if err != nil {
		return h.serviceError(c, err, "failed to list clicks")
	}

	response := make([]ClickEventResponse, len(events))
	for i, ev := range events {
		response[i] = ClickEventResponse{
			ID:        ev.ID,
			IPAddress: ev.IPAddress,
			UserAgent: ev.UserAgent,
			Referer:   ev.Referer,
			Country:   ev.Country,
			Browser:   ev.Browser,
			Bot:       ev.Bot,
			ClickedAt: ev.ClickedAt,
		}
	}

	return c.JSON(fiber.Map{
		"clicks": response,
		"limit":  limit,
		"offset": offset,
		"count":  len(response),
		"total":  total,
	})
}

// Stats handles GET /api/stats
func (h *APIHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Totals(h.requestContext(c))
	if err != nil {
		h.logger.Error("failed to load stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load stats",
		})
	}
	return c.JSON(stats)
}

// serviceError maps the service error taxonomy to transport responses.
func (h *APIHandler) serviceError(c *fiber.Ctx, err error, logMsg string) error {
	if ve, ok := service.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "link not found",
		})
	case errors.Is(err, service.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "short code already taken",
		})
	case errors.Is(err, service.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "not the link owner",
		})
	case errors.Is(err, service.ErrExhausted):
		h.logger.Error("short code space exhausted", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not allocate a short code",
		})
	case errors.Is(err, repository.ErrStorageTimeout):
		h.logger.Warn(logMsg, zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "storage temporarily unavailable",
		})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

func (h *APIHandler) requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = 20
	offset = 0
	if parsed := c.QueryInt("limit"); parsed > 0 && parsed <= 100 {
		limit = parsed
	}
	if parsed := c.QueryInt("offset"); parsed > 0 {
		offset = parsed
	}
	return limit, offset
}
