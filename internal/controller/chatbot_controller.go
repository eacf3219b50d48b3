package controller

import (
	"errors"
	"strings"

	"interview-rag-be/internal/dto"
	"interview-rag-be/internal/pkg/serverutils"
	"interview-rag-be/internal/service"
	"interview-rag-be/pkg/rag/executor"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{chatbotService: chatbotService}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Get("", c.Ask)
	h.Post("", c.SendChat)
	h.Get("sessions/:sessionId", c.GetChatHistory)
}

// Ask serves GET /chat/v1?query=...&session_id=...
func (c *chatbotController) Ask(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}
	return c.handle(ctx, &req)
}

func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return c.handle(ctx, &req)
}

func (c *chatbotController) handle(ctx *fiber.Ctx, req *dto.SendChatRequest) error {
	req.Query = strings.TrimSpace(req.Query)
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.SendChat(ctx.UserContext(), req)
	if err != nil {
		return chatError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatbotController) GetChatHistory(ctx *fiber.Ctx) error {
	sessionId := strings.TrimSpace(ctx.Params("sessionId"))
	if sessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session id is required")
	}

	res, err := c.chatbotService.GetChatHistory(ctx.UserContext(), sessionId)
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "conversation history unavailable")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func chatError(err error) error {
	switch {
	case errors.Is(err, executor.ErrEmptyQuery):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, executor.ErrHistoryUnavailable),
		errors.Is(err, executor.ErrStoreUnavailable),
		errors.Is(err, executor.ErrLedgerUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, rootMessage(err))
	default:
		return err
	}
}

// rootMessage keeps the sentinel text and drops driver details
func rootMessage(err error) string {
	for _, sentinel := range []error{executor.ErrHistoryUnavailable, executor.ErrStoreUnavailable, executor.ErrLedgerUnavailable} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
