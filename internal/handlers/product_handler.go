package handlers

import (
	"math/rand"
	"strconv"

	"lume/internal/catalog"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler serves the product listing, detail and recommendation
// endpoints from the loaded catalog.
type ProductHandler struct {
	catalog *catalog.Service
	rng     *rand.Rand
}

// NewProductHandler creates a new ProductHandler. The rand source feeds the
// recommendation shuffle; tests pass a fixed seed.
func NewProductHandler(service *catalog.Service, rng *rand.Rand) *ProductHandler {
	return &ProductHandler{
		catalog: service,
		rng:     rng,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Get("/:id/recommendations", h.HandleRecommendations)
}

// HandleListProducts returns the catalog, optionally filtered by repeated
// category parameters and a max_price cap.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	var categories []string
	if args := c.Context().QueryArgs().PeekMulti("category"); len(args) > 0 {
		for _, arg := range args {
			categories = append(categories, string(arg))
		}
	}

	maxPrice := 0.0
	if raw := c.Query("max_price"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid max_price",
			})
		}
		maxPrice = parsed
	}

	return c.JSON(catalog.Filter(h.catalog.Products(), categories, maxPrice))
}

// HandleGetProduct returns a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	product := h.catalog.ProductByID(id)
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}
	return c.JSON(product)
}

// HandleRecommendations returns up to four recommended products for the
// product with the given ID.
func (h *ProductHandler) HandleRecommendations(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	category := ""
	if product := h.catalog.ProductByID(id); product != nil {
		category = product.Category
	}
	return c.JSON(catalog.Recommend(h.catalog.Products(), id, category, h.rng))
}
