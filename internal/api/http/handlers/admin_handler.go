package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pedro-it/portal-api/internal/api/dto"
	"github.com/pedro-it/portal-api/internal/service"
)

// AdminHandler serves staff dashboard aggregates.
type AdminHandler struct {
	tickets  *service.TicketService
	invoices *service.InvoiceService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(ticketService *service.TicketService, invoiceService *service.InvoiceService) *AdminHandler {
	return &AdminHandler{tickets: ticketService, invoices: invoiceService}
}

// Stats GET /admin/stats (staff only).
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	ticketStats, err := h.tickets.Stats(c.UserContext())
	if err != nil {
		return err
	}
	invoiceStats, err := h.invoices.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"tickets": dto.TicketStatsResponse{
			Total:      ticketStats.Total,
			Open:       ticketStats.Open,
			InProgress: ticketStats.InProgress,
			Resolved:   ticketStats.Resolved,
		},
		"invoices": dto.NewInvoiceStatsResponse(invoiceStats),
	}})
}
