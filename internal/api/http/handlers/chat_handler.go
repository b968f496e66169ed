package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pedro-it/portal-api/internal/api/dto"
	"github.com/pedro-it/portal-api/internal/service"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

// ChatHandler manages assistant conversation endpoints.
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{service: chatService}
}

// SendMessage POST /chat/messages.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	reply, err := h.service.SendMessage(c.UserContext(), user, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ChatReplyResponse{
		Reply: dto.NewChatMessageResponse(reply.Message),
		Usage: dto.ChatUsageResponse{
			InputTokens:  reply.Usage.InputTokens,
			OutputTokens: reply.Usage.OutputTokens,
		},
	}})
}

// History GET /chat/messages.
func (h *ChatHandler) History(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)

	msgs, total, err := h.service.History(c.UserContext(), user.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.ChatMessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, dto.NewChatMessageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": dto.ChatHistoryResponse{
		Messages: items,
		Total:    total,
	}})
}

// ClearHistory DELETE /chat/messages.
func (h *ChatHandler) ClearHistory(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.service.ClearHistory(c.UserContext(), user.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
