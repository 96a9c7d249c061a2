package model

import "time"

// Venue represents a bookable venue managed by an administrator.
// The slug is derived from the name at creation time and recomputed
// whenever the name changes; uniqueness is enforced by the store.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – venue display name.
//  Location    – free-form address or city.
//  Capacity    – maximum party size the venue advertises.
//  Description – longer description shown in listings.
//  Slug        – unique URL-friendly identifier derived from Name.
//  CreatedBy   – user ID of the administrator who created the venue.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Venue struct {
    ID          uint64    `json:"id"`
    Name        string    `json:"name"`
    Location    string    `json:"location"`
    Capacity    uint32    `json:"capacity"`
    Description string    `json:"description"`
    Slug        string    `json:"slug"`
    CreatedBy   uint64    `json:"createdBy"`
    CreatedAt   time.Time `json:"createdAt"`
    UpdatedAt   time.Time `json:"updatedAt"`
}

// VenueListing is the pagination envelope returned by the venue
// directory and cached verbatim in Redis.  The field names mirror the
// public API contract.
type VenueListing struct {
    Docs       []Venue `json:"docs"`
    TotalDocs  int64   `json:"totalDocs"`
    Limit      int     `json:"limit"`
    Page       int     `json:"page"`
    TotalPages int64   `json:"totalPages"`
}
