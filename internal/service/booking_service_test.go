package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"interview-rag-be/internal/dto"
	"interview-rag-be/internal/entity"
	"interview-rag-be/internal/pkg/logger"
	"interview-rag-be/internal/repository/contract"
	"interview-rag-be/internal/repository/specification"
	"interview-rag-be/internal/repository/unitofwork"
	"interview-rag-be/pkg/events"
	"interview-rag-be/pkg/rag/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bookingDB is committed state; bookingUoW stages inserts until Commit.
// Uniqueness is checked against committed rows, like the unique index.
type bookingDB struct {
	rows      map[string]*entity.Booking
	beginErr  error
	createErr error
	commitErr error
}

func newBookingDB() *bookingDB {
	return &bookingDB{rows: map[string]*entity.Booking{}}
}

func (db *bookingDB) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &bookingUoW{db: db}
}

type bookingUoW struct {
	db     *bookingDB
	staged []*entity.Booking
}

func (u *bookingUoW) Begin(context.Context) error { return u.db.beginErr }
func (u *bookingUoW) Rollback() error { u.staged = nil; return nil }
func (u *bookingUoW) Commit() error {
	if u.db.commitErr != nil {
		return u.db.commitErr
	}
	for _, b := range u.staged {
		u.db.rows[b.Email] = b
	}
	u.staged = nil
	return nil
}

func (u *bookingUoW) KnowledgeChunkRepository() contract.KnowledgeChunkRepository { return nil }
func (u *bookingUoW) ChunkMetadataRepository() contract.ChunkMetadataRepository { return nil }
func (u *bookingUoW) KnowledgeGenerationRepository() contract.KnowledgeGenerationRepository {
	return nil
}
func (u *bookingUoW) BookingRepository() contract.BookingRepository { return fakeBookings{u} }

type fakeBookings struct{ u *bookingUoW }

func (f fakeBookings) Create(_ context.Context, b *entity.Booking) error {
	if f.u.db.createErr != nil {
		return f.u.db.createErr
	}
	if _, ok := f.u.db.rows[b.Email]; ok {
		return contract.ErrDuplicateBooking
	}
	f.u.staged = append(f.u.staged, b)
	return nil
}

func (f fakeBookings) FindOne(context.Context, ...specification.Specification) (*entity.Booking, error) {
	return nil, contract.ErrBookingNotFound
}

func (f fakeBookings) FindAll(context.Context, ...specification.Specification) ([]*entity.Booking, error) {
	out := make([]*entity.Booking, 0, len(f.u.db.rows))
	for _, b := range f.u.db.rows {
		out = append(out, b)
	}
	return out, nil
}

func (f fakeBookings) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(f.u.db.rows)), nil
}

// recordingPublisher remembers how many rows were durable when each event went out
type recordingPublisher struct {
	db            *bookingDB
	published     []events.Event
	rowsAtPublish []int
	err           error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	p.rowsAtPublish = append(p.rowsAtPublish, len(p.db.rows))
	return p.err
}

var janeRecord = booking.Record{Name: "Jane", Email: "jane@example.com", Date: "2025-03-01", Time: "14:30"}

func newBookingFixture() (*bookingDB, *recordingPublisher, IBookingService) {
	db := newBookingDB()
	pub := &recordingPublisher{db: db}
	return db, pub, NewBookingService(db, pub, logger.NewNopLogger())
}

func TestBookingService_CommitPublishesAfterDurableWrite(t *testing.T) {
	db, pub, svc := newBookingFixture()

	outcome, err := svc.Commit(context.Background(), janeRecord)
	require.NoError(t, err)
	assert.Equal(t, booking.Committed, outcome)
	require.Contains(t, db.rows, "jane@example.com")

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypeBookingCommitted, pub.published[0].EventType())
	assert.Equal(t, "jane@example.com", events.StringField(pub.published[0], "email"))
	assert.Equal(t, []int{1}, pub.rowsAtPublish, "event must follow the commit")
}

func TestBookingService_DuplicateIsAnOutcomeNotAnError(t *testing.T) {
	db, pub, svc := newBookingFixture()

	_, err := svc.Commit(context.Background(), janeRecord)
	require.NoError(t, err)

	again := janeRecord
	again.Date = "2025-04-01"
	outcome, err := svc.Commit(context.Background(), again)
	require.NoError(t, err)
	assert.Equal(t, booking.Duplicate, outcome)

	assert.Len(t, db.rows, 1)
	assert.Equal(t, "2025-03-01", db.rows["jane@example.com"].Date, "first booking wins")
	assert.Len(t, pub.published, 1, "no event for a duplicate")
}

func TestBookingService_FailuresNeverReportCommitted(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(db *bookingDB)
		errMsg string
	}{
		{"begin fails", func(db *bookingDB) { db.beginErr = errors.New("pool exhausted") }, "begin booking transaction"},
		{"insert fails", func(db *bookingDB) { db.createErr = errors.New("connection reset") }, "insert booking"},
		{"commit fails", func(db *bookingDB) { db.commitErr = errors.New("serialization failure") }, "commit booking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, pub, svc := newBookingFixture()
			tt.setup(db)

			outcome, err := svc.Commit(context.Background(), janeRecord)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.errMsg), err.Error())
			assert.NotEqual(t, booking.Committed, outcome)
			assert.Empty(t, db.rows)
			assert.Empty(t, pub.published)
		})
	}
}

func TestBookingService_PublishFailureKeepsBooking(t *testing.T) {
	db, pub, svc := newBookingFixture()
	pub.err = errors.New("nats down")

	outcome, err := svc.Commit(context.Background(), janeRecord)
	require.NoError(t, err)
	assert.Equal(t, booking.Committed, outcome)
	assert.Len(t, db.rows, 1)
}

func TestBookingService_ListBookingsDefaults(t *testing.T) {
	_, _, svc := newBookingFixture()
	_, err := svc.Commit(context.Background(), janeRecord)
	require.NoError(t, err)

	res, err := svc.ListBookings(context.Background(), &dto.ListBookingsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 20, res.PageSize)
	assert.EqualValues(t, 1, res.Total)
	require.Len(t, res.Bookings, 1)
	assert.Equal(t, "jane@example.com", res.Bookings[0].Email)
}
