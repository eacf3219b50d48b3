package dto

import (
	"time"

	"github.com/google/uuid"
)

type BookingResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}

type ListBookingsRequest struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=100"`
}

type ListBookingsResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}
