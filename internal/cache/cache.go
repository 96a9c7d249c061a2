package cache

import (
	"context"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/model"
)

// VenueListingCache is the cache-aside contract for venue listings.
// Get returns (nil, nil) on a miss. InvalidateAll discards every
// cached listing: listings are keyed by arbitrary page/filter
// combinations and any venue mutation can affect any of them, so
// blanket invalidation is the only correct strategy without
// dependency tracking.
type VenueListingCache interface {
	GetListing(ctx context.Context, page, limit int, location string) (*model.VenueListing, error)
	SetListing(ctx context.Context, page, limit int, location string, listing *model.VenueListing) error
	InvalidateAll(ctx context.Context) error
}
