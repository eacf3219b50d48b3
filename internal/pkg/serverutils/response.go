package serverutils

import "github.com/gofiber/fiber/v2"

type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) Response {
	return Response{
		Success: false,
		Code:    code,
		Error:   message,
	}
}
