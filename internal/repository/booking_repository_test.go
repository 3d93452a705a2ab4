package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

func newReserveRecord() BookingRecord {
	return BookingRecord{
		UserID:      42,
		RoomID:      7,
		RoomType:    "DELUXE",
		Reference:   "ref-1",
		BookingDate: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		Status:      model.StatusConfirmed,
	}
}

func TestReserveCommitsAndPopulatesID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(int64(42), int64(7), "DELUXE", "ref-1", sqlmock.AnyArg(), nil, model.StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("UPDATE rooms SET is_available = 0").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewBookingRepo(db)
	rec := newReserveRecord()
	require.NoError(t, repo.Reserve(context.Background(), &rec))

	assert.Equal(t, uint64(11), rec.ID, "generated id populated only after commit")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRollsBackWhenRoomAlreadyClaimed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(11, 1))
	// Guarded update matches nothing: another transaction holds the room.
	mock.ExpectExec("UPDATE rooms SET is_available = 0").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewBookingRepo(db)
	rec := newReserveRecord()
	err = repo.Reserve(context.Background(), &rec)

	require.ErrorIs(t, err, ErrRoomTaken)
	assert.Zero(t, rec.ID, "no booking id escapes a rolled-back transaction")
	assert.NoError(t, mock.ExpectationsWereMet(), "rollback issued, insert discarded with it")
}

func TestReserveRollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbErr := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnError(dbErr)
	mock.ExpectRollback()

	repo := NewBookingRepo(db)
	rec := newReserveRecord()
	err = repo.Reserve(context.Background(), &rec)

	require.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "insert booking")
	assert.Zero(t, rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRollsBackOnClaimError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbErr := errors.New("lock wait timeout")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("UPDATE rooms SET is_available = 0").WillReturnError(dbErr)
	mock.ExpectRollback()

	repo := NewBookingRepo(db)
	rec := newReserveRecord()
	err = repo.Reserve(context.Background(), &rec)

	require.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "claim room")
	assert.Zero(t, rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveFailsWhenBeginFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	repo := NewBookingRepo(db)
	rec := newReserveRecord()
	err = repo.Reserve(context.Background(), &rec)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin reservation")
	assert.NoError(t, mock.ExpectationsWereMet())
}
