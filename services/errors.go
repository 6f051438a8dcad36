package services

import (
	"errors"
	"log"

	"esports-registration/registration"
	"esports-registration/sessions"

	"github.com/gofiber/fiber/v2"
)

// respondError maps workflow and store errors onto HTTP responses. view, when
// non-nil, is the workflow state after the failed call.
func respondError(c *fiber.Ctx, err error, view *registration.View) error {
	var (
		verr *registration.ValidationError
		big  *registration.FileTooLargeError
		uerr *registration.UploadError
		perr *registration.PersistenceError
	)

	status := fiber.StatusInternalServerError
	body := fiber.Map{"error": "internal error"}

	switch {
	case errors.Is(err, sessions.ErrNotFound), errors.Is(err, ErrNotFound):
		status, body["error"] = fiber.StatusNotFound, err.Error()
	case errors.As(err, &verr):
		status, body["error"] = fiber.StatusBadRequest, verr.Message
		body["field"] = verr.Field
	case errors.As(err, &big):
		status, body["error"] = fiber.StatusRequestEntityTooLarge, big.Error()
	case errors.Is(err, sessions.ErrLocked):
		status, body["error"] = fiber.StatusConflict, err.Error()
	case errors.Is(err, registration.ErrWrongStep):
		status, body["error"] = fiber.StatusConflict, err.Error()
	case errors.Is(err, registration.ErrTimeout):
		status, body["error"] = fiber.StatusGatewayTimeout, "request to storage or database timed out, please try again"
	case errors.As(err, &uerr):
		status, body["error"] = fiber.StatusBadGateway, "failed to upload payment screenshot"
	case errors.As(err, &perr):
		status, body["error"] = fiber.StatusBadGateway, "failed to submit registration"
	}

	if status >= fiber.StatusInternalServerError {
		log.Printf("❌ [%s %s] %v", c.Method(), c.Path(), err)
	}
	if view != nil {
		body["session"] = view
	}
	return c.Status(status).JSON(body)
}
