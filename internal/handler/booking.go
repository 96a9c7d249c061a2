package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/model"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/queue"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/repository"
	queue_publisher "github.com/alpayabdullayev/Basic-Reservation-System/internal/service"
)

// BookingHandler implements booking admission: slot conflict checks,
// creation, listings and deletion. The conflict model is a single
// fixed-granularity slot per (venue, date, time) triple.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Users    *repository.UserRepo
	Log      *zap.Logger
}

func NewBookingHandler(b *repository.BookingRepo, u *repository.UserRepo, log *zap.Logger) *BookingHandler {
	return &BookingHandler{Bookings: b, Users: u, Log: log}
}

type createBookingReq struct {
	VenueID        uint64 `json:"venueId" validate:"required"`
	Date           string `json:"date" validate:"required"`
	Time           string `json:"time" validate:"required,hhmm"`
	NumberOfPeople uint32 `json:"numberOfPeople" validate:"required,min=1"`
}

// bookingListEnvelope is the offset-pagination envelope for the admin
// listing, shared with the venue directory contract.
type bookingListEnvelope struct {
	Message    string                     `json:"message,omitempty"`
	Docs       []repository.BookingDetail `json:"docs"`
	TotalDocs  int64                      `json:"totalDocs"`
	Limit      int                        `json:"limit"`
	Page       int                        `json:"page"`
	TotalPages int64                      `json:"totalPages"`
}

// Create admits a booking. The advisory existence check runs first;
// the store's unique slot constraint is the authoritative guard, so a
// duplicate-key error from a concurrent insert maps to the same
// conflict response. Confirmation notification is published to the
// broker and never fails the booking.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	uid, ok := c.Get("user_id").(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	// Accept plain dates and ISO timestamps; only the date part counts.
	dateStr := req.Date
	if i := strings.Index(dateStr, "T"); i >= 0 {
		dateStr = dateStr[:i]
	}
	slotAt, err := time.Parse("2006-01-02 15:04", dateStr+" "+req.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid date format."})
	}
	if !slotAt.After(time.Now().UTC()) {
		h.Log.Warn("booking attempt in the past", zap.Uint64("user_id", uid))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Booking cannot be in the past. Please select a future date.",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	conflictResp := echo.Map{
		"message": "There is already a booking for this venue at the selected time.",
	}

	taken, err := h.Bookings.ExistsAtSlot(ctx, req.VenueID, dateStr, req.Time)
	if err != nil {
		h.Log.Error("conflict check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating booking"})
	}
	if taken {
		h.Log.Warn("booking conflict", zap.Uint64("venue_id", req.VenueID), zap.Uint64("user_id", uid))
		return c.JSON(http.StatusBadRequest, conflictResp)
	}

	b := model.Booking{
		VenueID:        req.VenueID,
		UserID:         uid,
		Date:           dateStr,
		Time:           req.Time,
		NumberOfPeople: req.NumberOfPeople,
	}
	if err := h.Bookings.Create(ctx, &b); err != nil {
		if err == repository.ErrSlotTaken {
			// A concurrent request won the slot between check and insert.
			return c.JSON(http.StatusBadRequest, conflictResp)
		}
		h.Log.Error("create booking failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error creating booking"})
	}

	// Hand the confirmation off to the notification consumer. Publish
	// failures are logged by the publisher and ignored here.
	if u, err := h.Users.GetByID(ctx, uid); err == nil && u.Email != "" {
		_ = queue_publisher.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
			BookingID: b.ID,
			UserID:    u.ID,
			Username:  u.Username,
			Email:     u.Email,
			VenueID:   b.VenueID,
			Date:      b.Date,
			Time:      b.Time,
			CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	h.Log.Info("booking created", zap.Uint64("booking_id", b.ID), zap.Uint64("user_id", uid))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Booking created successfully",
		"booking": b,
	})
}

// ListMine returns the caller's bookings. An empty result is a 404,
// not an empty list; clients depend on that contract.
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, ok := c.Get("user_id").(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		h.Log.Error("list bookings failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching reservations"})
	}
	if len(bookings) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "No bookings found for this user."})
	}
	return c.JSON(http.StatusOK, bookings)
}

// ListAdmin returns one page of all bookings, newest first, optionally
// filtered by searchText across owner username/email and venue name.
func (h *BookingHandler) ListAdmin(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	search := c.QueryParam("searchText")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, total, err := h.Bookings.ListAdmin(ctx, page, limit, search)
	if err != nil {
		h.Log.Error("admin list bookings failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching reservations"})
	}

	envelope := bookingListEnvelope{
		Docs:       bookings,
		TotalDocs:  total,
		Limit:      limit,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}
	if len(bookings) == 0 {
		envelope.Message = "No bookings found."
		return c.JSON(http.StatusNotFound, envelope)
	}
	return c.JSON(http.StatusOK, envelope)
}

// Delete removes a booking. Only the owning user or an admin may
// delete; ownership comes from the booking record itself.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid booking id"})
	}
	uid, ok := c.Get("user_id").(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	role, _ := c.Get("role").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting booking"})
	}

	if b.UserID != uid && role != model.RoleAdmin {
		h.Log.Warn("booking delete forbidden", zap.Uint64("booking_id", id), zap.Uint64("user_id", uid))
		return c.JSON(http.StatusForbidden, echo.Map{
			"message": "You do not have permission to delete this booking.",
		})
	}

	if err := h.Bookings.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error deleting booking"})
	}

	h.Log.Info("booking deleted", zap.Uint64("booking_id", id), zap.Uint64("user_id", uid))
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking deleted successfully."})
}
