package services

import (
	"net/http/httptest"
	"strings"
	"testing"

	"esports-registration/models"

	"github.com/gofiber/fiber/v2"
)

func TestSendMessage(t *testing.T) {
	dir := newMemoryDirectory()
	svc := NewContactService(dir, 0)
	app := fiber.New()
	app.Post("/contact", svc.SendMessage)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"name":"Priya","email":"priya@example.com","subject":"Refund","message":"Paid twice"}`, fiber.StatusCreated},
		{"no name", `{"email":"priya@example.com","message":"hi"}`, fiber.StatusBadRequest},
		{"bad email", `{"name":"Priya","email":"priya","message":"hi"}`, fiber.StatusBadRequest},
		{"no message", `{"name":"Priya","email":"priya@example.com","message":"  "}`, fiber.StatusBadRequest},
		{"bad json", `{`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/contact", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	if _, records := dir.counts(); records != 1 {
		t.Fatalf("records = %d, want 1", records)
	}
	msg, ok := dir.records[0].(*models.ContactMessage)
	if !ok || msg.Status != models.ContactUnread || msg.Subject != "Refund" {
		t.Fatalf("record = %+v", dir.records[0])
	}
}
