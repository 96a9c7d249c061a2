package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/model"
)

func TestVenueCreateDuplicateSlug(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVenueRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO venues (name, location, capacity, description, slug, created_by) VALUES (?,?,?,?,?,?)")).
		WithArgs("Grand Hall", "Baku", uint32(200), "A large event hall.", "grand-hall", uint64(1)).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'grand-hall' for key 'venues.slug'"))

	v := model.Venue{Name: "Grand Hall", Location: "Baku", Capacity: 200,
		Description: "A large event hall.", Slug: "grand-hall", CreatedBy: 1}
	err := repo.Create(context.Background(), &v)
	assert.ErrorIs(t, err, ErrSlugExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueSlugExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVenueRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM venues WHERE slug=? AND id<>?")).
		WithArgs("grand-hall", uint64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))

	exists, err := repo.SlugExists(context.Background(), "grand-hall", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueListWithLocationFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVenueRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM venues WHERE location LIKE ?")).
		WithArgs("%baku%").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(12))

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id,name,location,capacity,description,slug,created_by,created_at,updated_at FROM venues WHERE location LIKE ? ORDER BY id LIMIT ? OFFSET ?")).
		WithArgs("%baku%", 5, 5).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "location", "capacity", "description", "slug",
			"created_by", "created_at", "updated_at",
		}).AddRow(6, "Grand Hall", "Baku", 200, "A large event hall.", "grand-hall", 1, now, now))

	venues, total, err := repo.List(context.Background(), 2, 5, "baku")
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, venues, 1)
	assert.Equal(t, "grand-hall", venues[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueDeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewVenueRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM venues WHERE id=?")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
