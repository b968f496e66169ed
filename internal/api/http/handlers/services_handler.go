package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pedro-it/portal-api/internal/api/dto"
	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/service"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

// ServicesHandler manages catalog and assignment endpoints.
type ServicesHandler struct {
	service *service.CatalogService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(catalogService *service.CatalogService) *ServicesHandler {
	return &ServicesHandler{service: catalogService}
}

// ListCatalog GET /services.
func (h *ServicesHandler) ListCatalog(c *fiber.Ctx) error {
	services, err := h.service.ListCatalog(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		items = append(items, dto.NewServiceResponse(&services[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetService GET /services/:id.
func (h *ServicesHandler) GetService(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	svc, err := h.service.GetService(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponse(svc)})
}

// CreateService POST /services (staff only).
func (h *ServicesHandler) CreateService(c *fiber.Ctx) error {
	var req dto.ServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	svc, err := h.service.CreateService(c.UserContext(), serviceInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewServiceResponse(svc)})
}

// UpdateService PUT /services/:id (staff only).
func (h *ServicesHandler) UpdateService(c *fiber.Ctx) error {
	var req dto.ServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	svc, err := h.service.UpdateService(c.UserContext(), c.Params("id"), serviceInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponse(svc)})
}

// AssignService POST /services/assign (staff only).
func (h *ServicesHandler) AssignService(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.AssignServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	cs, err := h.service.AssignService(c.UserContext(), user, req.UserID, req.ServiceID, req.Notes)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewClientServiceResponse(cs)})
}

// UpdateAssignment PATCH /services/assignments/:id (staff only).
func (h *ServicesHandler) UpdateAssignment(c *fiber.Ctx) error {
	var req dto.UpdateClientServiceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	cs, err := h.service.UpdateAssignment(c.UserContext(), c.Params("id"), service.ClientServiceUpdateInput{
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientServiceResponse(cs)})
}

// ListAssignments GET /services/assignments.
func (h *ServicesHandler) ListAssignments(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var status *domain.ClientServiceStatus
	if raw := c.Query("status"); raw != "" {
		parsed := domain.ClientServiceStatus(raw)
		status = &parsed
	}

	assignments, err := h.service.ListAssignments(c.UserContext(), user, status)
	if err != nil {
		return err
	}
	items := make([]dto.ClientServiceResponse, 0, len(assignments))
	for i := range assignments {
		items = append(items, dto.NewClientServiceResponse(&assignments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func serviceInput(req dto.ServiceRequest) service.ServiceInput {
	return service.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		PriceType:   req.PriceType,
		Price:       req.Price,
		Features:    req.Features,
		IsActive:    req.IsActive,
	}
}
