package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/model"
)

// BookingRepo provides CRUD operations for bookings. The slot conflict
// model is a single fixed-granularity slot per (venue, date, time)
// triple: the advisory ExistsAtSlot check runs before insert, and the
// store's unique key backs it up against concurrent requests, with the
// duplicate-key error mapped to ErrSlotTaken.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const dateLayout = "2006-01-02"

// UserPart carries the display fields of the booking owner.
type UserPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// VenuePart carries the display fields of the booked venue.
type VenuePart struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// BookingDetail is a booking expanded with user and venue display
// fields, as returned by the listing endpoints.
type BookingDetail struct {
	ID             uint64    `json:"id"`
	Venue          VenuePart `json:"venueId"`
	User           UserPart  `json:"user"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	NumberOfPeople uint32    `json:"numberOfPeople"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ExistsAtSlot reports whether a booking already occupies the exact
// (venue, date, time) slot.
func (r *BookingRepo) ExistsAtSlot(ctx context.Context, venueID uint64, date, timeStr string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE venue_id=? AND booking_date=? AND booking_time=?",
		venueID, date, timeStr).Scan(&n)
	return n > 0, err
}

// Create inserts a booking and populates the generated ID, status and
// timestamps on the provided struct. A duplicate-key violation of the
// slot constraint maps to ErrSlotTaken.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bookings (venue_id, user_id, booking_date, booking_time, number_of_people) VALUES (?,?,?,?,?)",
		b.VenueID, b.UserID, b.Date, b.Time, b.NumberOfPeople)
	if err != nil {
		if isDuplicate(err) {
			return ErrSlotTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate status and timestamps
	var bookingDate time.Time
	err = r.DB.QueryRowContext(ctx,
		"SELECT id,venue_id,user_id,booking_date,booking_time,number_of_people,status,created_at,updated_at FROM bookings WHERE id=?",
		b.ID).Scan(&b.ID, &b.VenueID, &b.UserID, &bookingDate, &b.Time,
		&b.NumberOfPeople, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return err
	}
	b.Date = bookingDate.Format(dateLayout)
	return nil
}

// GetByID fetches a booking by id. Returns sql.ErrNoRows when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	var (
		b           model.Booking
		bookingDate time.Time
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,venue_id,user_id,booking_date,booking_time,number_of_people,status,created_at,updated_at FROM bookings WHERE id=? LIMIT 1",
		id).Scan(&b.ID, &b.VenueID, &b.UserID, &bookingDate, &b.Time,
		&b.NumberOfPeople, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	b.Date = bookingDate.Format(dateLayout)
	return b, nil
}

// Delete removes a booking. The owner's booking list detaches through
// the user_id foreign key; no separate back-reference update is needed.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id)
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

const detailQuery = `SELECT b.id, b.booking_date, b.booking_time, b.number_of_people, b.status, b.created_at,
       u.id, u.username, u.email,
       v.id, v.name, v.location
FROM bookings b
JOIN users u ON u.id = b.user_id
JOIN venues v ON v.id = b.venue_id`

func scanDetails(rows *sql.Rows) ([]BookingDetail, error) {
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var (
			d           BookingDetail
			bookingDate time.Time
		)
		if err := rows.Scan(&d.ID, &bookingDate, &d.Time, &d.NumberOfPeople, &d.Status, &d.CreatedAt,
			&d.User.ID, &d.User.Username, &d.User.Email,
			&d.Venue.ID, &d.Venue.Name, &d.Venue.Location); err != nil {
			return nil, err
		}
		d.Date = bookingDate.Format(dateLayout)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListByUser returns all bookings owned by the given user, newest
// first, each expanded with user and venue display fields.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	rows, err := r.DB.QueryContext(ctx,
		detailQuery+" WHERE b.user_id = ? ORDER BY b.created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetails(rows)
}

// ListAdmin returns one page of all bookings, newest first, plus the
// total count. When search is non-empty it filters case-insensitively
// across the owner's username and email and the venue name.
func (r *BookingRepo) ListAdmin(ctx context.Context, page, limit int, search string) ([]BookingDetail, int64, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = " WHERE (u.username LIKE ? OR u.email LIKE ? OR v.name LIKE ?)"
		pat := "%" + search + "%"
		args = append(args, pat, pat, pat)
	}

	countQuery := `SELECT COUNT(*)
FROM bookings b
JOIN users u ON u.id = b.user_id
JOIN venues v ON v.id = b.venue_id` + where
	var total int64
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := r.DB.QueryContext(ctx,
		detailQuery+where+" ORDER BY b.created_at DESC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	details, err := scanDetails(rows)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}
