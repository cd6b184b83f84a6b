package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-market/config"
	"campus-market/internal/cache"
	"campus-market/internal/database"
	"campus-market/internal/logger"
	"campus-market/internal/producer"
	"campus-market/internal/repository"
	"campus-market/internal/service"
	"campus-market/internal/token"
	httptransport "campus-market/internal/transport/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	var (
		itemCache service.ItemCache
		cartStore service.CartStore
	)
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rc.Close()
		ttl := time.Duration(cfg.Redis.CartTTLMin) * time.Minute
		itemCache = cache.NewItemCache(rc, ttl, log)
		cartStore = cache.NewCartStore(rc, ttl)
	} else {
		log.Info("redis disabled, using in-memory cart store")
		cartStore = cache.NewMemoryCartStore()
	}

	var events service.EventBus
	if cfg.Kafka.Enabled {
		p := producer.NewOrderEventProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer p.Close()
		events = p
	}

	verifier := token.NewHSProvider(cfg.Token.AccessSecret, cfg.Token.Issuer, cfg.Token.Audience)

	svcs := httptransport.Services{
		Orders:    service.NewOrderService(repos, events, cfg.Order.MaxQuantityPerLine, nil),
		Catalog:   service.NewCatalogService(repos, itemCache),
		Addresses: service.NewAddressService(repos),
		Cart:      service.NewCartService(cartStore, repos),
		Reviews:   service.NewReviewService(repos),
		Favorites: service.NewFavoriteService(repos),
	}

	r := httptransport.Router(svcs, verifier, log)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("HTTP server stopped gracefully")
}
