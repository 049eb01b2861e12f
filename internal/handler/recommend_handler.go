package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/apexwerks/storefront-core/internal/domain"
	"github.com/apexwerks/storefront-core/internal/port"
	"github.com/apexwerks/storefront-core/internal/service"
)

// RecommendHandler serves the fitment-based cross-catalog recommendations.
type RecommendHandler struct {
	compat   *service.CompatService
	vehicles port.VehicleSource
	products port.ProductSource
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(compat *service.CompatService, vehicles port.VehicleSource, products port.ProductSource) *RecommendHandler {
	return &RecommendHandler{compat: compat, vehicles: vehicles, products: products}
}

// Register sets up recommendation routes.
func (h *RecommendHandler) Register(api fiber.Router) {
	api.Get("/vehicles/:slug/compatible-parts", h.CompatibleParts)
	api.Get("/products/:handle/vehicles", h.VehiclesWithPart)
}

// CompatibleParts handles GET /vehicles/:slug/compatible-parts: up to 6
// parts ranked exact-fit first. Upstream trouble degrades to an empty list
// so the vehicle page still renders.
func (h *RecommendHandler) CompatibleParts(c fiber.Ctx) error {
	slug := c.Params("slug")

	vehicle, err := h.vehicles.GetBySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, port.ErrVehicleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "vehicle not found"})
		}
		slog.Error("vehicle lookup failed", "slug", slug, "error", err)
		return c.JSON(fiber.Map{"parts": []domain.Product{}, "count": 0})
	}

	parts := h.compat.CompatibleParts(c.Context(), vehicle)
	return c.JSON(fiber.Map{"parts": parts, "count": len(parts)})
}

// VehiclesWithPart handles GET /products/:handle/vehicles: current-inventory
// vehicles the part fits, in upstream order.
func (h *RecommendHandler) VehiclesWithPart(c fiber.Ctx) error {
	handle := c.Params("handle")

	product, err := h.products.GetByHandle(c.Context(), handle)
	if err != nil {
		if errors.Is(err, port.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		slog.Error("product lookup failed", "handle", handle, "error", err)
		return c.JSON(fiber.Map{"vehicles": []domain.Vehicle{}, "count": 0})
	}

	vehicles := h.compat.VehiclesWithPart(c.Context(), product.Handle, product.Tags)
	return c.JSON(fiber.Map{"vehicles": vehicles, "count": len(vehicles)})
}
