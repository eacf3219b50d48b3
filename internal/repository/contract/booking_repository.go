package contract

import (
	"context"

	"interview-rag-be/internal/entity"
	"interview-rag-be/internal/repository/specification"
)

type BookingRepository interface {
	// Create inserts the booking or returns ErrDuplicateBooking when the
	// email is already taken. Uniqueness is enforced by the database.
	Create(ctx context.Context, booking *entity.Booking) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
