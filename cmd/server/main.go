package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/cache"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/config"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/database"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/handler"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/mailer"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/middleware"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/queue"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/repository"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/router"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/utils"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	// A nil Redis client disables the listing cache; every read then
	// goes straight to the store.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, venue listing cache disabled")
	} else {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	venues := repository.NewVenueRepo(db)
	bookings := repository.NewBookingRepo(db)

	var listingCache cache.VenueListingCache
	if rdb != nil {
		listingCache = cache.NewRedisVenueCache(rdb)
	}

	mail := mailer.New(cfg, logger)

	// Booking confirmations are consumed off the broker in the
	// background. Losing the broker degrades notifications only.
	go func() {
		if err := queue.StartBookingConsumer(mail); err != nil {
			logger.Warn("booking consumer stopped", zap.Error(err))
		}
	}()

	authHandler := handler.NewAuthHandler(cfg, users, tokens, mail, logger)
	userHandler := handler.NewUserHandler(users)
	venueHandler := handler.NewVenueHandler(venues, listingCache, logger)
	bookingHandler := handler.NewBookingHandler(bookings, users, logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewRequestValidator()
	e.Use(middleware.Logger(logger))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, userHandler, cfg.JWTSecret)
	router.RegisterVenues(e, venueHandler, cfg.JWTSecret)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Block until interrupted, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
