package handler

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/apexwerks/storefront-core/internal/service"
)

// WebhookHandler receives change notifications from the content and
// commerce backends and forces index rebuilds, the only invalidation path
// besides natural TTL expiry.
type WebhookHandler struct {
	index  *service.IndexService
	secret string
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(index *service.IndexService, secret string) *WebhookHandler {
	return &WebhookHandler{index: index, secret: secret}
}

// Register sets up webhook routes.
func (h *WebhookHandler) Register(api fiber.Router) {
	hooks := api.Group("/webhooks")
	hooks.Post("/content", h.Content)
	hooks.Post("/commerce", h.Commerce)
	hooks.Post("/refresh", h.Refresh)
}

// Content handles content backend change notifications.
func (h *WebhookHandler) Content(c fiber.Ctx) error {
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	slog.Info("content change notification received")
	h.index.RefreshVehicleIndex(c.Context())
	return c.JSON(fiber.Map{"refreshed": "vehicles"})
}

// Commerce handles commerce backend change notifications.
func (h *WebhookHandler) Commerce(c fiber.Ctx) error {
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	slog.Info("commerce change notification received")
	h.index.RefreshProductIndex(c.Context())
	return c.JSON(fiber.Map{"refreshed": "products"})
}

// Refresh rebuilds both indexes.
func (h *WebhookHandler) Refresh(c fiber.Ctx) error {
	if !h.authorized(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	slog.Info("full refresh requested")
	h.index.RefreshAll(c.Context())
	return c.JSON(fiber.Map{"refreshed": "all"})
}

func (h *WebhookHandler) authorized(c fiber.Ctx) bool {
	if h.secret == "" {
		return false
	}
	given := c.Get("X-Webhook-Secret")
	return subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) == 1
}
