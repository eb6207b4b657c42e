package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Qodestackr/Verity-sub004/config"
	"github.com/Qodestackr/Verity-sub004/internal/api"
	"github.com/Qodestackr/Verity-sub004/internal/broker"
	"github.com/Qodestackr/Verity-sub004/internal/catalog"
	"github.com/Qodestackr/Verity-sub004/internal/provision"
	"github.com/Qodestackr/Verity-sub004/internal/store"
	"github.com/Qodestackr/Verity-sub004/internal/typecache"
	"github.com/Qodestackr/Verity-sub004/internal/util"
	"github.com/Qodestackr/Verity-sub004/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting provisioning service")

	tp, err := util.InitTracer("provisioning-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	var cache typecache.Cache
	if cfg.Cache.Backend == "redis" {
		redisCache, err := typecache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		cache = redisCache
		log.Println("Redis type cache connected")
	} else {
		cache = typecache.NewHTTPCache(cfg.Cache.ServiceURL, cfg.Cache.Timeout)
		log.Println("HTTP type cache configured")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicProducts)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	catalogClient := catalog.NewClient(cfg.Catalog.Endpoint, cfg.Catalog.AuthToken, cfg.Catalog.Timeout)
	pipeline := provision.NewPipeline(catalogClient, cache, cfg.Provisioning)
	service := provision.NewService(db, pipeline, eventPublisher)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	intakeConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicProducts, cfg.Kafka.ConsumerGroup)
	intakeWorker := worker.NewIntakeWorker(intakeConsumer, service, db)
	go func() {
		if err := intakeWorker.Start(workerCtx); err != nil {
			log.Printf("Intake worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(service, eventPublisher)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	intakeWorker.Stop()

	log.Println("Server exited")
}
