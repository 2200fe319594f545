package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/service"
)

// ContactHandler accepts contact form posts.
type ContactHandler struct {
	contact *service.ContactService
}

func NewContactHandler(contact *service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit POST /api/contact.
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	msg, err := h.contact.Submit(c.UserContext(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.ContactResponse{ID: msg.ID, CreatedAt: msg.CreatedAt})
}
