// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a booking has been persisted.
// It carries enough information for the notification consumer to send
// the confirmation email without querying the primary database.
type BookingCreatedEvent struct {
	BookingID uint64 `json:"booking_id"`
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	VenueID   uint64 `json:"venue_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	CreatedAt string `json:"created_at"`
}
