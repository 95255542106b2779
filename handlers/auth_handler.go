package handlers

import (
	"strings"

	"campus_exchange/config"
	"campus_exchange/models"
	"campus_exchange/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

// RegisterRequest defines the payload for registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// LoginRequest defines the payload for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register - POST /users/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "Invalid input")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "name, email and password are required")
	}
	if !models.ValidUserType(req.UserType) {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "userType must be buyer, seller or both")
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeDuplicateEmail, "Email already in use")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return internalError(c, "Could not hash password")
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		UserType: req.UserType,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		// Unique index catches the race the pre-check above can miss.
		return fail(c, fiber.StatusBadRequest, models.ErrCodeDuplicateEmail, "Email already in use")
	}

	token, err := utils.GenerateToken(user.ID, h.Cfg.JWTSecret, h.Cfg.JWTExpiration)
	if err != nil {
		return internalError(c, "Could not generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user.Public(),
	})
}

// Login - POST /users/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeValidation, "Invalid input")
	}

	// Unknown email and wrong password produce the same failure.
	var user models.User
	if err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeInvalidCredentials, "Invalid email or password")
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return fail(c, fiber.StatusBadRequest, models.ErrCodeInvalidCredentials, "Invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, h.Cfg.JWTSecret, h.Cfg.JWTExpiration)
	if err != nil {
		return internalError(c, "Could not login")
	}

	return c.JSON(fiber.Map{
		"message": "Logged in successfully",
		"token":   token,
		"user":    user.Public(),
	})
}
