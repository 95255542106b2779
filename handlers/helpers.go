package handlers

import (
	"bytes"
	"encoding/json"

	"campus_exchange/models"

	"github.com/gofiber/fiber/v2"
)

// parseStrict decodes a JSON body rejecting unknown keys, so a patch carrying
// any field outside its allow-list fails whole before anything is applied.
// Fiber's BodyParser silently drops unknown keys, which is not good enough
// for the patch endpoints.
func parseStrict(c *fiber.Ctx, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(models.ErrorBody(code, message))
}

func internalError(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusInternalServerError, models.ErrCodeInternal, message)
}
