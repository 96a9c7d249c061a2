package repository

import (
	"context"
	"database/sql"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/model"
)

// VenueRepo provides CRUD operations for venues. Slug uniqueness is
// enforced by the store; collisions surface as ErrSlugExists so the
// caller can retry with a suffixed slug.
type VenueRepo struct{ DB *sql.DB }

func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{DB: db} }

const venueCols = "id,name,location,capacity,description,slug,created_by,created_at,updated_at"

func scanVenue(row *sql.Row) (model.Venue, error) {
	var v model.Venue
	err := row.Scan(&v.ID, &v.Name, &v.Location, &v.Capacity, &v.Description,
		&v.Slug, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

// Create inserts a venue and populates the generated ID and timestamps
// on the provided struct.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO venues (name, location, capacity, description, slug, created_by) VALUES (?,?,?,?,?,?)",
		v.Name, v.Location, v.Capacity, v.Description, v.Slug, v.CreatedBy)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	created, err := scanVenue(r.DB.QueryRowContext(ctx,
		"SELECT "+venueCols+" FROM venues WHERE id=? LIMIT 1", v.ID))
	if err != nil {
		return err
	}
	*v = created
	return nil
}

// SlugExists reports whether a venue already claims the given slug,
// excluding the venue with excludeID (0 to exclude none).
func (r *VenueRepo) SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM venues WHERE slug=? AND id<>?", slug, excludeID).Scan(&n)
	return n > 0, err
}

// List returns one page of venues plus the total row count for the
// given filter. The location filter is a case-insensitive substring
// match; an empty string matches everything.
func (r *VenueRepo) List(ctx context.Context, page, limit int, location string) ([]model.Venue, int64, error) {
	where := ""
	args := []interface{}{}
	if location != "" {
		where = " WHERE location LIKE ?"
		args = append(args, "%"+location+"%")
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM venues"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+venueCols+" FROM venues"+where+" ORDER BY id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	venues := make([]model.Venue, 0)
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Location, &v.Capacity, &v.Description,
			&v.Slug, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, err
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return venues, total, nil
}

// GetByID fetches a venue by id. Returns sql.ErrNoRows when absent.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (model.Venue, error) {
	return scanVenue(r.DB.QueryRowContext(ctx,
		"SELECT "+venueCols+" FROM venues WHERE id=? LIMIT 1", id))
}

// Update persists the mutable venue fields. The caller is expected to
// have loaded the row, applied partial changes and recomputed the slug
// if the name changed.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE venues SET name=?, location=?, capacity=?, description=?, slug=? WHERE id=?",
		v.Name, v.Location, v.Capacity, v.Description, v.Slug, v.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlugExists
		}
		return err
	}
	updated, err := scanVenue(r.DB.QueryRowContext(ctx,
		"SELECT "+venueCols+" FROM venues WHERE id=? LIMIT 1", v.ID))
	if err != nil {
		return err
	}
	*v = updated
	return nil
}

// Delete removes a venue. Returns sql.ErrNoRows when no row matched.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM venues WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
