package handlers

import (
	"log"

	"lume/internal/models"
	"lume/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart. Every mutating
// response carries the fresh cart item counter so the navbar badge can be
// redrawn after each change.
type CartHandler struct {
	cart     *services.CartService
	catalog  productLookup
	validate *validator.Validate
}

type productLookup interface {
	ProductByID(id int) *models.Product
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart *services.CartService, catalog productLookup) *CartHandler {
	return &CartHandler{
		cart:     cart,
		catalog:  catalog,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Get("/totals", h.HandleGetTotals)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the cart contents and the item counter.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.cart.Cart()
	if err != nil {
		return internalError(c, "Could not load cart", err)
	}
	count, err := h.cart.Count()
	if err != nil {
		return internalError(c, "Could not load cart", err)
	}
	return c.JSON(fiber.Map{
		"items": cart,
		"count": count,
	})
}

// HandleGetTotals returns the cart-page totals, which include tax.
func (h *CartHandler) HandleGetTotals(c *fiber.Ctx) error {
	cart, err := h.cart.Cart()
	if err != nil {
		return internalError(c, "Could not load cart", err)
	}
	return c.JSON(fiber.Map{
		"totals":               services.CalculateTotals(cart, services.TaxIncluded),
		"amountToFreeShipping": services.AmountToFreeShipping(cart),
	})
}

// AddItemRequest is the request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID int `json:"productId" validate:"required"`
	Quantity  int `json:"quantity"`
}

// HandleAddItem adds a product to the cart, snapshotting its catalog price.
// The quantity defaults to one and is clamped to the available stock.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "A product ID is required")
	}

	product := h.catalog.ProductByID(req.ProductID)
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}
	if product.Stock > 0 && quantity > product.Stock {
		quantity = product.Stock
	}

	if err := h.cart.Add(models.CartItemFromProduct(*product, quantity)); err != nil {
		return internalError(c, "Could not add to cart", err)
	}
	return h.respondWithCount(c, fiber.StatusCreated, "Added to cart")
}

// HandleUpdateQuantity sets a line's quantity; zero or less removes the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.cart.SetQuantity(id, req.Quantity); err != nil {
		return internalError(c, "Could not update cart", err)
	}
	return h.respondWithCount(c, fiber.StatusOK, "Cart updated")
}

// HandleRemoveItem deletes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	if err := h.cart.Remove(id); err != nil {
		return internalError(c, "Could not update cart", err)
	}
	return h.respondWithCount(c, fiber.StatusOK, "Item removed")
}

// HandleClearCart deletes the entire cart. The caller must confirm the
// destructive action explicitly with confirm=true.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Are you sure you want to clear your cart? Repeat with confirm=true.",
		})
	}

	if err := h.cart.Clear(); err != nil {
		return internalError(c, "Could not clear cart", err)
	}
	return h.respondWithCount(c, fiber.StatusOK, "Cart cleared")
}

func (h *CartHandler) respondWithCount(c *fiber.Ctx, status int, message string) error {
	count, err := h.cart.Count()
	if err != nil {
		return internalError(c, "Could not load cart", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"count":   count,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}

func internalError(c *fiber.Ctx, message string, err error) error {
	log.Printf("%s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
