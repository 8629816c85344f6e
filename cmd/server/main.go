package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"github.com/Key0string/SponsorBlockServer/internal/config"
	"github.com/Key0string/SponsorBlockServer/internal/db"
	"github.com/Key0string/SponsorBlockServer/internal/handler"
	"github.com/Key0string/SponsorBlockServer/internal/middleware"
	"github.com/Key0string/SponsorBlockServer/internal/repository"
	"github.com/Key0string/SponsorBlockServer/internal/router"
	"github.com/Key0string/SponsorBlockServer/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "sponsorblock-api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	// Repositories
	voteRepo := repository.NewVoteRepo(pool)
	userRepo := repository.NewUserRepo(pool)
	categoryRepo := repository.NewCategoryRepo(pool)
	segmentRepo := repository.NewSegmentRepo(pool)

	// Services
	identitySvc := service.NewIdentityService(userRepo, cfg.IPSalt)
	metadataSvc := service.NewMetadataService(cfg.OEmbedBaseURL)
	dispatchSvc := service.NewDispatchService(cfg, metadataSvc)
	voteSvc := service.NewVoteService(voteRepo, userRepo, categoryRepo, identitySvc, cache, dispatchSvc, cfg)
	categorySvc := service.NewCategoryService(voteRepo, userRepo, categoryRepo, identitySvc, cache, dispatchSvc, cfg, voteSvc)
	segmentSvc := service.NewSegmentService(segmentRepo, cache, cfg)
	userSvc := service.NewUserService(userRepo, identitySvc, cfg)

	handler.InitMetrics(pool, dispatchSvc.QueueDepth)

	// Notification dispatcher runs until shutdown.
	go dispatchSvc.Start(ctx)

	h := &router.Handlers{
		Vote:    handler.NewVoteHandler(voteSvc, categorySvc, segmentSvc),
		Segment: handler.NewSegmentHandler(segmentSvc),
		User:    handler.NewUserHandler(userSvc),
		Stats:   handler.NewStatsHandler(userSvc),
		Health:  handler.NewHealthHandler(pool, cache.Client()),
	}

	app := fiber.New(fiber.Config{
		AppName:      "SponsorBlock API",
		ServerHeader: "SponsorBlock",
	})
	router.Setup(app, h, cfg.CORSOrigins)

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("shutting down")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("SponsorBlock backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
