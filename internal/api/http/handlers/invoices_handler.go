package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pedro-it/portal-api/internal/api/dto"
	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/repository"
	"github.com/pedro-it/portal-api/internal/service"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

// InvoicesHandler manages billing endpoints.
type InvoicesHandler struct {
	service *service.InvoiceService
}

// NewInvoicesHandler constructs handler.
func NewInvoicesHandler(invoiceService *service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{service: invoiceService}
}

// CreateInvoice POST /invoices (staff only).
func (h *InvoicesHandler) CreateInvoice(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	items := make([]service.InvoiceItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.InvoiceItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	invoice, err := h.service.CreateInvoice(c.UserContext(), user, service.InvoiceCreateInput{
		UserID:      req.UserID,
		Description: req.Description,
		DueDate:     req.DueDate,
		Items:       items,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewInvoiceResponse(invoice)})
}

// ListInvoices GET /invoices.
func (h *InvoicesHandler) ListInvoices(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	filter := repository.InvoiceFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.InvoiceStatus(strings.TrimSpace(part)))
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	invoices, err := h.service.ListInvoices(c.UserContext(), user, filter)
	if err != nil {
		return err
	}
	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, dto.NewInvoiceResponse(&invoices[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetInvoice GET /invoices/:id.
func (h *InvoicesHandler) GetInvoice(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	invoice, err := h.service.GetInvoice(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewInvoiceResponse(invoice)})
}

// InitiateCheckout POST /invoices/:id/checkout.
func (h *InvoicesHandler) InitiateCheckout(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	session, err := h.service.InitiateCheckout(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CheckoutResponse{
		SessionID: session.ID,
		URL:       session.URL,
	}})
}

// UpdateStatus PATCH /invoices/:id/status (staff only).
func (h *InvoicesHandler) UpdateStatus(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateInvoiceStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	invoice, err := h.service.SetStatus(c.UserContext(), user, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewInvoiceResponse(invoice)})
}
