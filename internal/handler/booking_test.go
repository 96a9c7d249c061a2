package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/repository"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/utils"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = utils.NewRequestValidator()
	return e
}

func bookingRequest(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(3))
	c.Set("role", "user")
	return c, rec
}

func TestBookingCreateRejectsPastDate(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewBookingHandler(repository.NewBookingRepo(db), repository.NewUserRepo(db), zap.NewNop())

	c, rec := bookingRequest(newEcho(),
		`{"venueId":7,"date":"2020-01-01","time":"18:00","numberOfPeople":2}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Booking cannot be in the past. Please select a future date.")
	// No store access at all for a past date.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateRejectsBadTime(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewBookingHandler(repository.NewBookingRepo(db), repository.NewUserRepo(db), zap.NewNop())

	c, _ := bookingRequest(newEcho(),
		`{"venueId":7,"date":"2030-01-01","time":"25:99","numberOfPeople":2}`)

	err := h.Create(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateSlotConflict(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewBookingHandler(repository.NewBookingRepo(db), repository.NewUserRepo(db), zap.NewNop())

	date := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM bookings WHERE venue_id=? AND booking_date=? AND booking_time=?")).
		WithArgs(uint64(7), date, "18:00").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))

	c, rec := bookingRequest(newEcho(),
		`{"venueId":7,"date":"`+date+`","time":"18:00","numberOfPeople":2}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "There is already a booking for this venue at the selected time.")
	// Conflict short-circuits before any insert.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateStripsTimestampSuffix(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewBookingHandler(repository.NewBookingRepo(db), repository.NewUserRepo(db), zap.NewNop())

	date := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM bookings WHERE venue_id=? AND booking_date=? AND booking_time=?")).
		WithArgs(uint64(7), date, "18:00").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))

	c, rec := bookingRequest(newEcho(),
		`{"venueId":7,"date":"`+date+`T00:00:00.000Z","time":"18:00","numberOfPeople":2}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingListMineEmptyIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewBookingHandler(repository.NewBookingRepo(db), repository.NewUserRepo(db), zap.NewNop())

	mock.ExpectQuery(`WHERE b\.user_id = \? ORDER BY b\.created_at DESC`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"b.id", "b.booking_date", "b.booking_time", "b.number_of_people", "b.status", "b.created_at",
			"u.id", "u.username", "u.email",
			"v.id", "v.name", "v.location",
		}))

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(3))

	require.NoError(t, h.ListMine(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No bookings found for this user.")
}

func TestBookingDeleteForbiddenForStranger(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewBookingHandler(repository.NewBookingRepo(db), repository.NewUserRepo(db), zap.NewNop())

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,venue_id,user_id,booking_date,booking_time,number_of_people,status,created_at,updated_at FROM bookings WHERE id=? LIMIT 1")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "venue_id", "user_id", "booking_date", "booking_time",
			"number_of_people", "status", "created_at", "updated_at",
		}).AddRow(42, 7, 999, now, "18:00", 2, "pending", now, now))

	e := newEcho()
	req := httptest.NewRequest(http.MethodDelete, "/v1/reservations/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", uint64(3))
	c.Set("role", "user")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You do not have permission to delete this booking.")
	// The delete statement must never run for a non-owner.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingDeleteAllowedForAdmin(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewBookingHandler(repository.NewBookingRepo(db), repository.NewUserRepo(db), zap.NewNop())

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,venue_id,user_id,booking_date,booking_time,number_of_people,status,created_at,updated_at FROM bookings WHERE id=? LIMIT 1")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "venue_id", "user_id", "booking_date", "booking_time",
			"number_of_people", "status", "created_at", "updated_at",
		}).AddRow(42, 7, 999, now, "18:00", 2, "pending", now, now))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id=?")).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := newEcho()
	req := httptest.NewRequest(http.MethodDelete, "/v1/reservations/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", uint64(1))
	c.Set("role", "admin")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Booking deleted successfully.")
	assert.NoError(t, mock.ExpectationsWereMet())
}
