package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/cache"
	"github.com/iliyamo/hotel-room-reservation/internal/config"
	"github.com/iliyamo/hotel-room-reservation/internal/database"
	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	"github.com/iliyamo/hotel-room-reservation/internal/router"
	"github.com/iliyamo/hotel-room-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it history reads hit the database and
	// rate limiting is off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, history cache and rate limiting disabled")
	}

	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	feedback := repository.NewFeedbackRepo(db)

	opts := []service.Option{
		service.WithStoreTimeout(cfg.StoreTimeout),
		service.WithPublisher(queue.PublishBookingConfirmed),
	}
	cacheCfg := config.LoadHistoryCacheConfig()
	if cacheCfg.Enabled && rdb != nil {
		hc := cache.NewHistoryCache(cache.NewRedisStore(rdb), bookings, cache.Options{
			TTL:      cacheCfg.TTL,
			MaxPages: cacheCfg.MaxPages,
			PageSize: cacheCfg.PageSize,
		})
		opts = append(opts, service.WithCache(hc), service.WithDefaultPageSize(cacheCfg.PageSize))
	}
	reservations := service.NewReservationService(rooms, bookings, opts...)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterBookings(e, handler.NewBookingHandler(reservations, bookings), cfg.JWTSecret, limiter)
	router.RegisterRooms(e, handler.NewRoomHandler(rooms), cfg.JWTSecret)
	router.RegisterFeedback(e, handler.NewFeedbackHandler(feedback), cfg.JWTSecret)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
