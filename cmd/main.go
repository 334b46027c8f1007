package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adcart-backend/config"
	"github.com/oksasatya/adcart-backend/internal/application"
	"github.com/oksasatya/adcart-backend/internal/container"
	"github.com/oksasatya/adcart-backend/internal/infrastructure/mongostore"
	"github.com/oksasatya/adcart-backend/internal/infrastructure/notifier"
	"github.com/oksasatya/adcart-backend/internal/infrastructure/objectstore"
	"github.com/oksasatya/adcart-backend/internal/interface/middleware"
	"github.com/oksasatya/adcart-backend/internal/router"
	"github.com/oksasatya/adcart-backend/pkg/helpers"
	"github.com/oksasatya/adcart-backend/pkg/mailer"
	"github.com/oksasatya/adcart-backend/pkg/metrics"
	"github.com/oksasatya/adcart-backend/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// MongoDB
	client, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	// Redis backs rate limiting only; the API keeps serving without it
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		logger.WithError(err).Warn("redis unreachable; rate limits fail open")
	}

	store, closeStore, err := newObjectStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init object storage: %v", err)
	}
	defer closeStore()

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL)
	m := metrics.New(cfg.AppName, nil)

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetMongo(db)
	container.SetRedis(rdb)
	container.SetObjectStore(store)
	container.SetJWT(jwtManager)
	container.SetMetrics(m)
	wireNotifier(cfg, logger)
	defer container.GetRabbitPub().Close()

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// newObjectStore picks the image backend from STORAGE_DRIVER.
func newObjectStore(ctx context.Context, cfg *config.Config) (application.ObjectStore, func(), error) {
	switch cfg.StorageDriver {
	case "minio":
		store, err := objectstore.NewMinIO(objectstore.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
			BaseURL:   cfg.MinIOBaseURL(),
		})
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "gcs", "":
		client, err := objectstore.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, nil, err
		}
		store, err := objectstore.NewGCS(client, cfg.GCSBucket)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

// wireNotifier prefers the queue so order placement never waits on Mailgun.
// Without a queue, confirmations go straight to Mailgun; with mail disabled
// there is no notifier at all.
func wireNotifier(cfg *config.Config, logger *logrus.Logger) {
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; order confirmations are not sent")
		return
	}
	if cfg.RabbitMQURL != "" && cfg.RabbitMQEmailQueue != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err == nil {
			container.SetRabbitPub(pub)
			container.SetNotifier(notifier.NewQueue(pub, cfg))
			return
		}
		logger.WithError(err).Warn("rabbitmq unavailable; falling back to direct mail")
	}
	if cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" && cfg.MailgunSender != "" {
		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		container.SetNotifier(notifier.NewDirect(mg, cfg))
		return
	}
	logger.Warn("no mail transport configured; order confirmations are not sent")
}
