package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/cache"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/model"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/repository"
)

// VenueHandler implements the venue directory: admin-managed CRUD plus
// the cached public listing. Every mutation invalidates all cached
// listings before responding.
type VenueHandler struct {
	Venues *repository.VenueRepo
	Cache  cache.VenueListingCache
	Log    *zap.Logger
}

func NewVenueHandler(v *repository.VenueRepo, c cache.VenueListingCache, log *zap.Logger) *VenueHandler {
	return &VenueHandler{Venues: v, Cache: c, Log: log}
}

type createVenueReq struct {
	Name        string `json:"name" validate:"required,min=3,max=20"`
	Location    string `json:"location" validate:"required"`
	Capacity    uint32 `json:"capacity" validate:"required,min=1"`
	Description string `json:"description" validate:"required,min=10,max=500"`
}

type updateVenueReq struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=20"`
	Location    *string `json:"location"`
	Capacity    *uint32 `json:"capacity" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=10,max=500"`
}

// uniqueSlug derives a slug from the venue name and resolves
// collisions by suffixing an incrementing counter, mirroring the
// collision handling applied at creation and rename time.
func (h *VenueHandler) uniqueSlug(ctx context.Context, name string, excludeID uint64) (string, error) {
	base := slug.Make(name)
	candidate := base
	for counter := 1; ; counter++ {
		exists, err := h.Venues.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// invalidateListings drops every cached listing. Cache failures are
// logged but never fail the mutation: the TTL bounds staleness.
func (h *VenueHandler) invalidateListings(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.InvalidateAll(ctx); err != nil {
		h.Log.Warn("venue cache invalidation failed", zap.Error(err))
	}
}

// Create persists a new venue for the calling administrator.
func (h *VenueHandler) Create(c echo.Context) error {
	var req createVenueReq
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

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.uniqueSlug(ctx, req.Name, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create venue failed"})
	}

	v := model.Venue{
		Name:        req.Name,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Description: req.Description,
		Slug:        s,
		CreatedBy:   uid,
	}
	if err := h.Venues.Create(ctx, &v); err != nil {
		if err == repository.ErrSlugExists {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Venue already exists"})
		}
		h.Log.Error("create venue failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create venue failed"})
	}

	h.invalidateListings(ctx)
	h.Log.Info("venue created", zap.Uint64("venue_id", v.ID), zap.String("slug", v.Slug))
	return c.JSON(http.StatusOK, v)
}

// Find serves the paginated public listing through the cache-aside
// path: cached envelopes are returned verbatim; on a miss the store is
// queried and the envelope written back before responding so the next
// identical request hits warm cache.
func (h *VenueHandler) Find(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	location := c.QueryParam("location")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if h.Cache != nil {
		cached, err := h.Cache.GetListing(ctx, page, limit, location)
		if err != nil {
			h.Log.Warn("venue cache read failed", zap.Error(err))
		} else if cached != nil {
			return c.JSON(http.StatusOK, cached)
		}
	}

	venues, total, err := h.Venues.List(ctx, page, limit, location)
	if err != nil {
		h.Log.Error("list venues failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "list venues failed"})
	}

	listing := &model.VenueListing{
		Docs:       venues,
		TotalDocs:  total,
		Limit:      limit,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}

	if h.Cache != nil {
		if err := h.Cache.SetListing(ctx, page, limit, location, listing); err != nil {
			h.Log.Warn("venue cache write failed", zap.Error(err))
		}
	}
	return c.JSON(http.StatusOK, listing)
}

// FindOne returns a single venue by id.
func (h *VenueHandler) FindOne(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid venue id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// Update applies a partial update. The slug is recomputed when the
// name changes, with the same collision handling as creation.
func (h *VenueHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid venue id"})
	}
	var req updateVenueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "query failed"})
	}

	if req.Name != nil && *req.Name != v.Name {
		v.Name = *req.Name
		s, err := h.uniqueSlug(ctx, v.Name, v.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update venue failed"})
		}
		v.Slug = s
	}
	if req.Location != nil {
		v.Location = *req.Location
	}
	if req.Capacity != nil {
		v.Capacity = *req.Capacity
	}
	if req.Description != nil {
		v.Description = *req.Description
	}

	if err := h.Venues.Update(ctx, &v); err != nil {
		if err == repository.ErrSlugExists {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Venue already exists"})
		}
		h.Log.Error("update venue failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update venue failed"})
	}

	h.invalidateListings(ctx)
	return c.JSON(http.StatusOK, v)
}

// Delete removes a venue.
func (h *VenueHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid venue id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Venues.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete venue failed"})
	}

	h.invalidateListings(ctx)
	return c.JSON(http.StatusOK, echo.Map{"message": "Venue deleted successfully"})
}

// queryInt parses a positive integer query parameter with a default.
func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// totalPages computes the page count for an offset-paginated listing.
func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
