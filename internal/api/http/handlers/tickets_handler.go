package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/api/dto"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/service"
)

// TicketsHandler manages the owner-scoped ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.Create(c.UserContext(), currentSession(c), service.TicketInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewTicketResponse(*ticket))
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.List(c.UserContext(), currentSession(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, ticketResponses(tickets))
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), currentSession(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewTicketResponse(*ticket))
}

// PatchTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) PatchTicket(c *fiber.Ctx) error {
	var req dto.TicketPatchRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return h.update(c, service.TicketPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
}

// ReplaceTicket PUT /api/tickets/:id. Every editable field is overwritten.
func (h *TicketsHandler) ReplaceTicket(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return h.update(c, service.TicketPatch{
		Title:       &req.Title,
		Description: &req.Description,
		Status:      &req.Status,
		Priority:    &req.Priority,
	})
}

func (h *TicketsHandler) update(c *fiber.Ctx, patch service.TicketPatch) error {
	ticket, err := h.service.Update(c.UserContext(), currentSession(c), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewTicketResponse(*ticket))
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id := c.Params("id")
	removed, err := h.service.Delete(c.UserContext(), currentSession(c), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.DeleteTicketResponse{ID: id, Removed: removed})
}

// Dashboard GET /api/dashboard.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	counts, err := h.service.Dashboard(c.UserContext(), currentSession(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.DashboardResponse{Counts: counts})
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.NewTicketResponse(t))
	}
	return items
}
