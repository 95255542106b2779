package handlers

import (
	"strconv"
	"strings"

	"campus_exchange/middleware"
	"campus_exchange/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

// CreateProductRequest
type CreateProductRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Images      []string `json:"images"`
	Location    string   `json:"location"`
}

// UpdateProductRequest is the allow-list patch for a listing. Status is
// deliberately absent: only the order workflow moves a product's status.
type UpdateProductRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	Condition   *string   `json:"condition"`
	Images      *[]string `json:"images"`
	Location    *string   `json:"location"`
}

// Columns clients may sort listings by. "listed" is the original name of the
// creation timestamp.
var sortableColumns = map[string]string{
	"listed": "created_at",
	"price":  "price",
	"views":  "views",
	"title":  "title",
}

// CreateProduct - POST /products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if !user.CanSell() {
		return fail(c, fiber.StatusForbidden, models.ErrCodeForbidden, "Only sellers can list products")
	}

	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "Invalid input")
	}

	if req.Title == "" || req.Description == "" {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "title and description are required")
	}
	if req.Price < 0 {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "price cannot be negative")
	}
	if !models.ValidCategory(req.Category) {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "invalid category")
	}
	if !models.ValidCondition(req.Condition) {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "invalid condition")
	}

	product := models.Product{
		SellerID:    user.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		Images:      req.Images,
		Location:    req.Location,
		Status:      models.ProductAvailable,
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return internalError(c, "Could not create product")
	}
	product.Seller = *user

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product listed successfully",
		"product": product,
	})
}

// GetAllProducts - GET /products
func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	query := h.DB.Model(&models.Product{}).Preload("Seller")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if condition := c.Query("condition"); condition != "" {
		query = query.Where("condition = ?", condition)
	}

	// Price bounds are inclusive.
	if raw := c.Query("minPrice"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "minPrice must be a number")
		}
		query = query.Where("price >= ?", min)
	}
	if raw := c.Query("maxPrice"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "maxPrice must be a number")
		}
		query = query.Where("price <= ?", max)
	}

	// Case-insensitive substring match over title and description.
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	// Only show available products unless the caller asks otherwise.
	if status := c.Query("status"); status != "" {
		if !models.ValidProductStatus(status) {
			return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "invalid status filter")
		}
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status = ?", models.ProductAvailable)
	}

	// Sort: "field:desc" over an allow-list; default newest first.
	if sortBy := c.Query("sortBy"); sortBy != "" {
		field, dir, _ := strings.Cut(sortBy, ":")
		column, ok := sortableColumns[field]
		if !ok {
			return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "invalid sortBy field")
		}
		if dir == "desc" {
			column += " desc"
		}
		query = query.Order(column)
	} else {
		query = query.Order("created_at desc")
	}

	limit := c.QueryInt("limit", 10)
	skip := c.QueryInt("skip", 0)
	if limit <= 0 {
		limit = 10
	}
	if skip < 0 {
		skip = 0
	}

	var products []models.Product
	if err := query.Limit(limit).Offset(skip).Find(&products).Error; err != nil {
		return internalError(c, "Could not fetch products")
	}

	return c.JSON(products)
}

// GetProduct - GET /products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusNotFound, models.ErrCodeNotFound, "Product not found")
	}

	var product models.Product
	if err := h.DB.Preload("Seller").First(&product, id).Error; err != nil {
		return fail(c, fiber.StatusNotFound, models.ErrCodeNotFound, "Product not found")
	}

	// At-least-once view count; concurrent fetches may race, which is fine.
	h.DB.Model(&product).UpdateColumn("views", gorm.Expr("views + 1"))
	product.Views++

	return c.JSON(product)
}

// UpdateProduct - PATCH /products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, _ := strconv.Atoi(c.Params("id"))

	var req UpdateProductRequest
	if err := parseStrict(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "Invalid updates")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return fail(c, fiber.StatusNotFound, models.ErrCodeNotFound, "Product not found")
	}
	if product.SellerID != user.ID {
		return fail(c, fiber.StatusForbidden, models.ErrCodeForbidden, "You are not the seller of this product")
	}

	// Validate everything before applying anything.
	if req.Price != nil && *req.Price < 0 {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "price cannot be negative")
	}
	if req.Category != nil && !models.ValidCategory(*req.Category) {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "invalid category")
	}
	if req.Condition != nil && !models.ValidCondition(*req.Condition) {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "invalid condition")
	}
	if req.Title != nil && *req.Title == "" {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "title cannot be empty")
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Condition != nil {
		product.Condition = *req.Condition
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.Location != nil {
		product.Location = *req.Location
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return internalError(c, "Could not update product")
	}

	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct - DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, _ := strconv.Atoi(c.Params("id"))

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return fail(c, fiber.StatusNotFound, models.ErrCodeNotFound, "Product not found")
	}
	if product.SellerID != user.ID {
		return fail(c, fiber.StatusForbidden, models.ErrCodeForbidden, "You are not the seller of this product")
	}

	if err := h.DB.Delete(&product).Error; err != nil {
		return internalError(c, "Could not delete product")
	}

	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
		"product": product,
	})
}

// GetSellerProducts - GET /products/seller
func (h *ProductHandler) GetSellerProducts(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var products []models.Product
	err := h.DB.Where("seller_id = ?", user.ID).
		Order("created_at desc").
		Find(&products).Error
	if err != nil {
		return internalError(c, "Could not fetch seller products")
	}

	return c.JSON(products)
}
