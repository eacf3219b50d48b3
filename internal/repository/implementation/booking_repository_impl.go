package implementation

import (
	"context"
	"errors"
	"strings"

	"interview-rag-be/internal/entity"
	"interview-rag-be/internal/mapper"
	"interview-rag-be/internal/model"
	"interview-rag-be/internal/repository/contract"
	"interview-rag-be/internal/repository/specification"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE unique_violation
const pgUniqueViolation = "23505"

type BookingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookingMapper
}

func NewBookingRepository(db *gorm.DB) contract.BookingRepository {
	return &BookingRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookingMapper(),
	}
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *entity.Booking) error {
	booking.Email = strings.ToLower(strings.TrimSpace(booking.Email))

	m, err := r.mapper.ToModel(booking)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return contract.ErrDuplicateBooking
		}
		return err
	}

	*booking = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	var m model.Booking
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error) {
	var models []*model.Booking
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BookingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Booking{}).Count(&count).Error
	return count, err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
