package model

import "time"

// Booking statuses.  New bookings always start as pending; no
// workflow currently moves them to approved or rejected.
const (
    BookingPending  = "pending"
    BookingApproved = "approved"
    BookingRejected = "rejected"
)

// Booking records a reservation of a venue slot.  A slot is the
// (venue, date, time) triple; the store enforces that at most one
// booking exists per slot.
//
// Fields:
//  ID             – primary key identifier.
//  VenueID        – venue being booked.
//  UserID         – user who made the booking.
//  Date           – booking date in "2006-01-02" form.
//  Time           – booking time in "HH:mm" form.
//  NumberOfPeople – party size.
//  Status         – pending | approved | rejected.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Booking struct {
    ID             uint64    `json:"id"`
    VenueID        uint64    `json:"venueId"`
    UserID         uint64    `json:"user"`
    Date           string    `json:"date"`
    Time           string    `json:"time"`
    NumberOfPeople uint32    `json:"numberOfPeople"`
    Status         string    `json:"status"`
    CreatedAt      time.Time `json:"createdAt"`
    UpdatedAt      time.Time `json:"updatedAt"`
}
