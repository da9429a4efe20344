package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	reservationRepo := repository.NewReservationRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	courseRepo := repository.NewCourseRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	engine := booking.New(reservationRepo, roomRepo, courseRepo, userRepo)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	roomHandler := handler.NewRoomHandler(engine, roomRepo, reservationRepo)
	reservationHandler := handler.NewReservationHandler(engine, reservationRepo)
	courseHandler := handler.NewCourseHandler(courseRepo)
	adminHandler := handler.NewAdminHandler(engine, roomRepo, courseRepo, reservationRepo)

	e := echo.New()
	e.Validator = handler.NewValidator()

	// Redis backs both the rate limiter and the response cache.  When it
	// is unreachable both middlewares degrade to pass-through.
	if rdb := config.NewRedisClient(); rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			e.Use(middleware.NewTokenBucket(rlCfg, rdb))
		}
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			e.Use(middleware.NewRedisCache(cacheCfg, rdb))
		}
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterAPI(e, roomHandler, reservationHandler, courseHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
