package controller

import (
	"errors"

	"interview-rag-be/internal/pkg/serverutils"
	"interview-rag-be/internal/service"
	"interview-rag-be/pkg/chunking"

	"github.com/gofiber/fiber/v2"
)

type IIngestionController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Upload(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type ingestionController struct {
	ingestionService service.IIngestionService
	knowledgeService service.IKnowledgeService
	defaultStrategy  string
}

func NewIngestionController(ingestionService service.IIngestionService, knowledgeService service.IKnowledgeService, defaultStrategy string) IIngestionController {
	return &ingestionController{
		ingestionService: ingestionService,
		knowledgeService: knowledgeService,
		defaultStrategy:  defaultStrategy,
	}
}

func (c *ingestionController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/ingestion/v1")
	for _, m := range middleware {
		h.Use(m)
	}
	h.Post("upload", c.Upload)
	h.Get("status", c.Status)
}

func (c *ingestionController) Upload(ctx *fiber.Ctx) error {
	strategy := ctx.Query("chunk_strategy", c.defaultStrategy)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
	}
	defer file.Close()

	res, err := c.ingestionService.Upload(ctx.UserContext(), fileHeader.Filename, file, strategy)
	if err != nil {
		if errors.Is(err, chunking.ErrUnsupportedStrategy) || errors.Is(err, chunking.ErrUnsupportedFileType) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("File uploaded, reindex queued", res))
}

func (c *ingestionController) Status(ctx *fiber.Ctx) error {
	res, err := c.knowledgeService.Status(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get knowledge status", res))
}
