package handlers

import (
	"campus_exchange/middleware"
	"campus_exchange/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// UpdateProfileRequest is the allow-list patch for /users/me. Anything
// outside these four fields rejects the whole request.
type UpdateProfileRequest struct {
	Name          *string `json:"name"`
	College       *string `json:"college"`
	ContactNumber *string `json:"contactNumber"`
	ProfileImage  *string `json:"profileImage"`
}

// Me - GET /users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{"user": user.Public()})
}

// UpdateMe - PATCH /users/me
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := parseStrict(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "Invalid updates")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "name cannot be empty")
		}
		user.Name = *req.Name
	}
	if req.College != nil {
		user.College = *req.College
	}
	if req.ContactNumber != nil {
		user.ContactNumber = *req.ContactNumber
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
	}

	if err := h.DB.Save(user).Error; err != nil {
		return internalError(c, "Could not update profile")
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user.Public(),
	})
}
