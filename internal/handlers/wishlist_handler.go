package handlers

import (
	"fmt"

	"lume/internal/models"
	"lume/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WishlistHandler handles HTTP requests for the wishlist.
type WishlistHandler struct {
	wishlist *services.WishlistService
	catalog  productLookup
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(wishlist *services.WishlistService, catalog productLookup) *WishlistHandler {
	return &WishlistHandler{
		wishlist: wishlist,
		catalog:  catalog,
	}
}

// RegisterRoutes registers the wishlist routes with the Fiber app.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	wishlistRoutes := router.Group("/wishlist")
	wishlistRoutes.Get("/", h.HandleList)
	wishlistRoutes.Post("/toggle", h.HandleToggle)
}

// HandleList returns the wishlist.
func (h *WishlistHandler) HandleList(c *fiber.Ctx) error {
	list, err := h.wishlist.List()
	if err != nil {
		return internalError(c, "Could not load wishlist", err)
	}
	return c.JSON(list)
}

// ToggleRequest is the request body for toggling a wishlist entry.
type ToggleRequest struct {
	ProductID int `json:"productId"`
}

// HandleToggle adds the product to the wishlist if absent and removes it if
// present, reporting the resulting state.
func (h *WishlistHandler) HandleToggle(c *fiber.Ctx) error {
	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	product := h.catalog.ProductByID(req.ProductID)
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}

	added, err := h.wishlist.Toggle(models.WishlistItem{
		ID:    product.ID,
		Title: product.Name,
		Price: fmt.Sprintf("$%.2f", product.Price),
		Img:   product.Image,
	})
	if err != nil {
		return internalError(c, "Could not update wishlist", err)
	}

	message := "Removed from wishlist"
	if added {
		message = "Added to wishlist"
	}
	return c.JSON(fiber.Map{
		"message":    message,
		"inWishlist": added,
	})
}
