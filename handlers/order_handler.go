package handlers

import (
	"errors"
	"strconv"
	"time"

	"campus_exchange/internal/orders"
	"campus_exchange/middleware"
	"campus_exchange/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderHandler struct {
	Workflow *orders.Workflow
}

func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{Workflow: orders.NewWorkflow(db)}
}

// PlaceOrderRequest
type PlaceOrderRequest struct {
	ProductID      uint       `json:"productId"`
	MeetupLocation string     `json:"meetupLocation"`
	MeetupTime     *time.Time `json:"meetupTime"`
}

// UpdateOrderRequest is the allow-list patch for an order.
type UpdateOrderRequest struct {
	Status         string     `json:"status"`
	MeetupLocation *string    `json:"meetupLocation"`
	MeetupTime     *time.Time `json:"meetupTime"`
}

// PlaceOrder - POST /orders
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "Invalid input")
	}
	if req.ProductID == 0 {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "productId is required")
	}

	order, err := h.Workflow.Place(user, req.ProductID, orders.PlaceInput{
		MeetupLocation: req.MeetupLocation,
		MeetupTime:     req.MeetupTime,
	})
	if err != nil {
		return h.orderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetBuyerOrders - GET /orders/buyer
func (h *OrderHandler) GetBuyerOrders(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	list, err := h.Workflow.ListForBuyer(user)
	if err != nil {
		return internalError(c, "Could not fetch orders")
	}
	return c.JSON(list)
}

// GetSellerOrders - GET /orders/seller
func (h *OrderHandler) GetSellerOrders(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	list, err := h.Workflow.ListForSeller(user)
	if err != nil {
		return internalError(c, "Could not fetch orders")
	}
	return c.JSON(list)
}

// GetOrder - GET /orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, _ := strconv.Atoi(c.Params("id"))

	order, err := h.Workflow.Get(uint(id), user)
	if err != nil {
		return h.orderError(c, err)
	}
	return c.JSON(order)
}

// UpdateOrder - PATCH /orders/:id
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, _ := strconv.Atoi(c.Params("id"))

	var req UpdateOrderRequest
	if err := parseStrict(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "Invalid updates")
	}

	order, err := h.Workflow.Transition(uint(id), user, orders.TransitionInput{
		Status:         req.Status,
		MeetupLocation: req.MeetupLocation,
		MeetupTime:     req.MeetupTime,
	})
	if err != nil {
		return h.orderError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order updated successfully",
		"order":   order,
	})
}

// CancelOrder - DELETE /orders/:id
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id, _ := strconv.Atoi(c.Params("id"))

	order, err := h.Workflow.Cancel(uint(id), user)
	if err != nil {
		return h.orderError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

// orderError maps workflow sentinels onto the HTTP error taxonomy.
func (h *OrderHandler) orderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, orders.ErrProductNotFound),
		errors.Is(err, orders.ErrOrderNotFound):
		return fail(c, fiber.StatusNotFound, models.ErrCodeNotFound, err.Error())
	case errors.Is(err, orders.ErrNotBuyer),
		errors.Is(err, orders.ErrNotParty),
		errors.Is(err, orders.ErrOwnListing):
		return fail(c, fiber.StatusForbidden, models.ErrCodeForbidden, err.Error())
	case errors.Is(err, orders.ErrProductUnavailable):
		return fail(c, fiber.StatusBadRequest, models.ErrCodeConflict, err.Error())
	case errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, orders.ErrNotPending):
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, err.Error())
	default:
		return internalError(c, "Order operation failed")
	}
}
