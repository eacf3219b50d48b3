package mapper

import (
	"fmt"
	"time"

	"interview-rag-be/internal/entity"
	"interview-rag-be/internal/model"
)

const bookingDateLayout = "2006-01-02"

type BookingMapper struct{}

func NewBookingMapper() *BookingMapper {
	return &BookingMapper{}
}

func (m *BookingMapper) ToEntity(b *model.Booking) *entity.Booking {
	if b == nil {
		return nil
	}
	return &entity.Booking{
		Id:        b.Id,
		Name:      b.Name,
		Email:     b.Email,
		Date:      b.Date.Format(bookingDateLayout),
		Time:      b.Time,
		CreatedAt: b.CreatedAt,
	}
}

func (m *BookingMapper) ToModel(e *entity.Booking) (*model.Booking, error) {
	if e == nil {
		return nil, nil
	}
	date, err := time.Parse(bookingDateLayout, e.Date)
	if err != nil {
		return nil, fmt.Errorf("booking date %q: %w", e.Date, err)
	}
	return &model.Booking{
		Id:        e.Id,
		Name:      e.Name,
		Email:     e.Email,
		Date:      date,
		Time:      e.Time,
		CreatedAt: e.CreatedAt,
	}, nil
}

func (m *BookingMapper) ToEntities(bookings []*model.Booking) []*entity.Booking {
	entities := make([]*entity.Booking, len(bookings))
	for i, b := range bookings {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
