package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"interview-rag-be/internal/dto"
	"interview-rag-be/internal/entity"
	"interview-rag-be/internal/pkg/logger"
	"interview-rag-be/internal/repository/contract"
	"interview-rag-be/internal/repository/specification"
	"interview-rag-be/internal/repository/unitofwork"
	"interview-rag-be/pkg/events"
	"interview-rag-be/pkg/rag/booking"

	"github.com/google/uuid"
)

type IBookingService interface {
	booking.Ledger
	ListBookings(ctx context.Context, request *dto.ListBookingsRequest) (*dto.ListBookingsResponse, error)
}

type bookingService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewBookingService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger) IBookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &bookingService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
	}
}

// Commit stores the booking at most once per email. The database unique
// index decides races; the loser sees Duplicate.
func (s *bookingService) Commit(ctx context.Context, record booking.Record) (booking.Outcome, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("begin booking transaction: %w", err)
	}
	defer uow.Rollback()

	newBooking := &entity.Booking{
		Id:        uuid.New(),
		Name:      record.Name,
		Email:     record.Email,
		Date:      record.Date,
		Time:      record.Time,
		CreatedAt: time.Now(),
	}

	if err := uow.BookingRepository().Create(ctx, newBooking); err != nil {
		if errors.Is(err, contract.ErrDuplicateBooking) {
			s.logger.Info("BOOKING", "Duplicate booking rejected", map[string]interface{}{"email": record.Email})
			return booking.Duplicate, nil
		}
		return 0, fmt.Errorf("insert booking: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("commit booking: %w", err)
	}

	s.logger.Info("BOOKING", "Interview booked", map[string]interface{}{
		"booking_id": newBooking.Id.String(),
		"email":      newBooking.Email,
		"date":       newBooking.Date,
		"time":       newBooking.Time,
	})

	// The booking is durable at this point; a bus outage only costs the confirmation mail
	event := events.NewBookingCommitted(newBooking.Id.String(), newBooking.Name, newBooking.Email, newBooking.Date, newBooking.Time, newBooking.CreatedAt)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("BOOKING", "Failed to publish booking event", map[string]interface{}{"error": err.Error()})
	}

	return booking.Committed, nil
}

func (s *bookingService) ListBookings(ctx context.Context, request *dto.ListBookingsRequest) (*dto.ListBookingsResponse, error) {
	page, pageSize := request.Page, request.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.BookingRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	bookings, err := uow.BookingRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ListBookingsResponse{
		Bookings: make([]*dto.BookingResponse, 0, len(bookings)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, b := range bookings {
		res.Bookings = append(res.Bookings, &dto.BookingResponse{
			Id:        b.Id,
			Name:      b.Name,
			Email:     b.Email,
			Date:      b.Date,
			Time:      b.Time,
			CreatedAt: b.CreatedAt,
		})
	}
	return res, nil
}
