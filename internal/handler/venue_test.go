package handler

import (
	"context"
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

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/model"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/repository"
)

// stubListingCache records cache traffic for handler tests.
type stubListingCache struct {
	listing     *model.VenueListing
	setCalls    int
	invalidated int
}

func (s *stubListingCache) GetListing(ctx context.Context, page, limit int, location string) (*model.VenueListing, error) {
	return s.listing, nil
}

func (s *stubListingCache) SetListing(ctx context.Context, page, limit int, location string, l *model.VenueListing) error {
	s.setCalls++
	s.listing = l
	return nil
}

func (s *stubListingCache) InvalidateAll(ctx context.Context) error {
	s.invalidated++
	s.listing = nil
	return nil
}

func TestVenueFindCacheHitSkipsStore(t *testing.T) {
	db, mock := newMockDB(t)
	stub := &stubListingCache{listing: &model.VenueListing{
		Docs:       []model.Venue{{ID: 1, Name: "Grand Hall", Slug: "grand-hall"}},
		TotalDocs:  1,
		Limit:      10,
		Page:       1,
		TotalPages: 1,
	}}
	h := NewVenueHandler(repository.NewVenueRepo(db), stub, zap.NewNop())

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/venues?page=1&limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Find(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalDocs":1`)
	assert.Contains(t, rec.Body.String(), "grand-hall")
	// A warm cache must not touch the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueFindCacheMissPopulatesCache(t *testing.T) {
	db, mock := newMockDB(t)
	stub := &stubListingCache{}
	h := NewVenueHandler(repository.NewVenueRepo(db), stub, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM venues")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(11))

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,name,location,capacity,description,slug,created_by,created_at,updated_at FROM venues ORDER BY id LIMIT ? OFFSET ?")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "location", "capacity", "description", "slug",
			"created_by", "created_at", "updated_at",
		}).AddRow(1, "Grand Hall", "Baku", 200, "A large event hall.", "grand-hall", 1, now, now))

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/venues", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Find(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.setCalls)
	require.NotNil(t, stub.listing)
	assert.Equal(t, int64(11), stub.listing.TotalDocs)
	assert.Equal(t, int64(2), stub.listing.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueCreateInvalidatesListings(t *testing.T) {
	db, mock := newMockDB(t)
	stub := &stubListingCache{listing: &model.VenueListing{}}
	h := NewVenueHandler(repository.NewVenueRepo(db), stub, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM venues WHERE slug=? AND id<>?")).
		WithArgs("grand-hall", uint64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO venues (name, location, capacity, description, slug, created_by) VALUES (?,?,?,?,?,?)")).
		WithArgs("Grand Hall", "Baku", uint32(200), "A large event hall.", "grand-hall", uint64(1)).
		WillReturnResult(sqlmock.NewResult(5, 1))

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,name,location,capacity,description,slug,created_by,created_at,updated_at FROM venues WHERE id=? LIMIT 1")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "location", "capacity", "description", "slug",
			"created_by", "created_at", "updated_at",
		}).AddRow(5, "Grand Hall", "Baku", 200, "A large event hall.", "grand-hall", 1, now, now))

	e := newEcho()
	body := `{"name":"Grand Hall","location":"Baku","capacity":200,"description":"A large event hall."}`
	req := httptest.NewRequest(http.MethodPost, "/v1/venues", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	c.Set("role", "admin")

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.invalidated)
	assert.Nil(t, stub.listing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueFindOneMissing(t *testing.T) {
	db, mock := newMockDB(t)
	h := NewVenueHandler(repository.NewVenueRepo(db), nil, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,name,location,capacity,description,slug,created_by,created_at,updated_at FROM venues WHERE id=? LIMIT 1")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "location", "capacity", "description", "slug",
			"created_by", "created_at", "updated_at",
		}))

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/venues/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, h.FindOne(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Venue not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), totalPages(0, 10))
	assert.Equal(t, int64(1), totalPages(10, 10))
	assert.Equal(t, int64(2), totalPages(11, 10))
	assert.Equal(t, int64(0), totalPages(5, 0))
}
