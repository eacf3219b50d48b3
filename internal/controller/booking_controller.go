package controller

import (
	"interview-rag-be/internal/dto"
	"interview-rag-be/internal/pkg/serverutils"
	"interview-rag-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBookingController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
}

type bookingController struct {
	service service.IBookingService
}

func NewBookingController(service service.IBookingService) IBookingController {
	return &bookingController{service: service}
}

func (c *bookingController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/booking/v1")
	for _, m := range middleware {
		h.Use(m)
	}
	h.Get("", c.GetAll)
}

func (c *bookingController) GetAll(ctx *fiber.Ctx) error {
	var req dto.ListBookingsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ListBookings(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get bookings", res))
}
