package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mosaicolive/mosaico/internal/cache"
	"github.com/mosaicolive/mosaico/internal/config"
	"github.com/mosaicolive/mosaico/internal/database"
	"github.com/mosaicolive/mosaico/internal/handler"
	"github.com/mosaicolive/mosaico/internal/queue"
	"github.com/mosaicolive/mosaico/internal/repository"
	"github.com/mosaicolive/mosaico/internal/router"
	"github.com/mosaicolive/mosaico/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	eventRepo := repository.NewEventRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	assignmentRepo := repository.NewAssignmentRepo(db)

	seatCache := cache.NewSeatCache(cacheCfg.HotTTL)
	activeEvent := cache.NewActiveEventCache(eventRepo, cacheCfg.ActiveEventTTL)

	publisher := queue.NewPublisher(cfg.AMQPURL)
	if cfg.AMQPURL != "" {
		go queue.StartInvalidationConsumer(cfg.AMQPURL, seatCache, activeEvent)
	}

	policy := service.ParsePolicy(cfg.ResolvePolicy)
	seatSvc := service.NewSeatService(seatCache, activeEvent, eventRepo, assignmentRepo, cacheCfg, policy)
	eventSvc := service.NewEventService(eventRepo, seatRepo, assignmentRepo, seatCache, activeEvent, publisher, cacheCfg)

	if cfg.SeedDefaultEvent {
		seedDefaultEvent(eventSvc, eventRepo)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, cacheCfg, rlCfg, rdb,
		handler.NewSeatHandler(seatSvc),
		handler.NewAdminHandler(eventSvc),
		handler.NewAuthHandler(cfg),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s policy=%s)", addr, cfg.Env, policy)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedDefaultEvent creates a default active event on a fresh install so
// the admin UI has something to paint into. Skipped when any event is
// already active.
func seedDefaultEvent(svc *service.EventService, events service.EventStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := events.FindActiveEvent(ctx); err == nil {
		return
	} else if !errors.Is(err, repository.ErrNoActiveEvent) {
		log.Printf("seed: active event check failed: %v", err)
		return
	}
	if _, err := svc.CreateActiveEvent(ctx, service.DefaultEventName, ""); err != nil {
		log.Printf("seed: could not create default event: %v", err)
	}
}
