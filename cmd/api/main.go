package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"blog-api/api/middleware"
	"blog-api/api/router"
	"blog-api/config"
	"blog-api/db"
	"blog-api/eventbus"
	"blog-api/internal/logger"
	"blog-api/repositories"
	"blog-api/services"
)

// @title           Blog API
// @version         1.0
// @description     CRUD API for blog posts stored in MongoDB
// @BasePath        /
func main() {
	if err := config.InitApp(); err != nil {
		logger.Log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, database, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		logger.ErrorWithFields("MongoDB connection error", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	logger.InfoWithFields("MongoDB connected", logger.Fields{
		"database":   cfg.Mongo.Database,
		"collection": cfg.Mongo.Collection,
	})
	defer disconnect(client)

	publisher := newPublisher(ctx, cfg.Kafka)
	defer publisher.Close()

	repo := repositories.NewBlogRepository(database, cfg.Mongo.Collection).
		WithOperationTimeout(cfg.Mongo.OperationTimeout)
	blogs := services.NewBlogService(repo,
		services.WithPublisher(publisher, eventbus.BlogEventsTopic(cfg.Kafka.TopicPrefix)),
	)

	engine := router.New(router.Deps{
		Blogs: blogs,
		Ping: func(ctx context.Context) error {
			return db.Ping(ctx, database)
		},
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           middleware.CORS(engine, cfg.CORS.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("Server is running", logger.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithFields("http server stopped", logger.Fields{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithFields("graceful shutdown failed", logger.Fields{"error": err.Error()})
	}
	if err := blogs.Drain(shutdownCtx); err != nil {
		logger.WarnWithFields("blog events still in flight at shutdown", logger.Fields{"error": err.Error()})
	}
}

// newPublisher returns a Kafka publisher when brokers are configured, otherwise a no-op.
func newPublisher(ctx context.Context, cfg config.KafkaConfig) eventbus.Publisher {
	if !cfg.Enabled() {
		logger.Log.Info("KAFKA_BOOTSTRAP_SERVERS not set, blog events disabled")
		return eventbus.NopPublisher{}
	}

	topic := eventbus.BlogEventsTopic(cfg.TopicPrefix)
	adminCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := eventbus.EnsureTopics(adminCtx, cfg.BootstrapServers, cfg.Partitions, topic); err != nil {
		logger.WarnWithFields("failed to ensure kafka topics", logger.Fields{"topic": topic.Base(), "error": err.Error()})
	}

	p, err := eventbus.NewKafkaPublisher(cfg.BootstrapServers)
	if err != nil {
		logger.WarnWithFields("kafka publisher unavailable, blog events disabled", logger.Fields{"error": err.Error()})
		return eventbus.NopPublisher{}
	}
	return p
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.ErrorWithFields("MongoDB disconnect failed", logger.Fields{"error": err.Error()})
	}
}
