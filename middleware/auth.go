package middleware

import (
	"strings"

	"campus_exchange/models"
	"campus_exchange/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserKey is the Locals key under which Protected stores the authenticated
// *models.User.
const UserKey = "currentUser"

// Protected returns the auth gate applied to every user-scoped route. It
// verifies the bearer token and resolves it to a live user record.
//
// Every failure mode - missing header, malformed token, bad signature,
// expired token, deleted user - produces the identical response. Callers
// must not be able to tell them apart.
func Protected(db *gorm.DB, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			return unauthenticated(c)
		}

		userID, err := utils.ParseToken(tokenString, secret)
		if err != nil {
			return unauthenticated(c)
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return unauthenticated(c)
		}

		c.Locals(UserKey, &user)
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx) error {
	body := models.ErrorBody(models.ErrCodeUnauthenticated, "Please authenticate")
	return c.Status(fiber.StatusUnauthorized).JSON(body)
}

// CurrentUser retrieves the user stored by Protected. Only valid on routes
// behind the gate.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}
