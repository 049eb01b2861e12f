package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/apexwerks/storefront-core/internal/domain"
	"github.com/apexwerks/storefront-core/internal/port"
	"github.com/apexwerks/storefront-core/internal/service"
)

// SearchHandler serves the search and autocomplete endpoints.
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Register sets up search routes.
func (h *SearchHandler) Register(api fiber.Router) {
	api.Get("/search", h.Search)
	api.Get("/search/suggest", h.Suggest)
}

// Search handles GET /search?q=&type=&page=.
//
// The response carries a state discriminator so callers can tell "query too
// short" and "backend failure" apart from an ordinary zero-match answer.
func (h *SearchHandler) Search(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	req := domain.SearchRequest{
		Query: c.Query("q"),
		Type:  domain.SearchType(c.Query("type", string(domain.SearchTypeAll))),
		Page:  page,
		IP:    c.IP(),
	}

	resp, err := h.search.Search(c.Context(), req)
	if err != nil {
		return searchErrorResponse(c, err)
	}

	return c.JSON(struct {
		State string `json:"state"`
		*domain.SearchResponse
	}{"ok", resp})
}

// Suggest handles GET /search/suggest?q=.
func (h *SearchHandler) Suggest(c fiber.Ctx) error {
	resp, err := h.search.Suggest(c.Context(), c.Query("q"))
	if err != nil {
		return searchErrorResponse(c, err)
	}

	return c.JSON(struct {
		State string `json:"state"`
		*domain.SuggestResponse
	}{"ok", resp})
}

func searchErrorResponse(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, port.ErrQueryTooShort):
		// Expected state, not an error: the caller distinguishes "no
		// query yet" from "query with zero matches".
		return c.JSON(fiber.Map{
			"state":   "too_short",
			"message": "query must be at least 2 characters",
		})
	case errors.Is(err, port.ErrQueryTooLong):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"state":   "invalid",
			"message": "query must not exceed 100 characters",
		})
	case errors.Is(err, port.ErrInvalidSearchType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"state":   "invalid",
			"message": "type must be 'vehicles', 'parts', or 'all'",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"state":   "error",
			"message": "search is temporarily unavailable",
		})
	}
}
