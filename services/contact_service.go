package services

import (
	"context"
	"log"
	"strings"
	"time"

	"esports-registration/models"
	"esports-registration/registration"

	"github.com/gofiber/fiber/v2"
)

// RecordCreator is the write side of the directory.
type RecordCreator interface {
	CreateRecord(ctx context.Context, collection string, rec registration.Record) (string, error)
}

// ContactService stores messages from the public contact form.
type ContactService struct {
	Records RecordCreator
	Timeout time.Duration
}

func NewContactService(records RecordCreator, timeout time.Duration) *ContactService {
	return &ContactService{Records: records, Timeout: timeout}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *ContactService) SendMessage(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
		Status:  models.ContactUnread,
	}

	switch {
	case msg.Name == "":
		return respondError(c, &registration.ValidationError{Field: "name", Message: "name is required"}, nil)
	case !registration.ValidEmail(msg.Email):
		return respondError(c, &registration.ValidationError{Field: "email", Message: "email address is invalid"}, nil)
	case msg.Message == "":
		return respondError(c, &registration.ValidationError{Field: "message", Message: "message is required"}, nil)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = registration.DefaultCallTimeout
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
	defer cancel()

	id, err := s.Records.CreateRecord(ctx, models.CollectionContacts, msg)
	if err != nil {
		log.Printf("❌ [CONTACT] Failed to save message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to send message, please try again"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "status": msg.Status})
}
