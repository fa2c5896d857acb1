package internal

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

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"file-manager-api/config"
	"file-manager-api/internal/application/ports"
	"file-manager-api/internal/application/services"
	"file-manager-api/internal/infrastructure/db/postgres"
	storedfileRepo "file-manager-api/internal/infrastructure/db/postgres/storedfile"
	userlinkRepo "file-manager-api/internal/infrastructure/db/postgres/userlink"
	"file-manager-api/internal/infrastructure/jwt"
	"file-manager-api/internal/infrastructure/metrics"
	"file-manager-api/internal/infrastructure/mq"
	"file-manager-api/internal/infrastructure/notify"
	"file-manager-api/internal/infrastructure/s3"
	"file-manager-api/internal/interface/api/rest"
	"file-manager-api/internal/interface/api/rest/middleware"
	"file-manager-api/pkg/taskrunner"
)

type App struct {
	logger   *zap.Logger
	cfg      config.Config
	db       *pgxpool.Pool
	store    ports.ObjectStore
	notifier ports.Notifier
	httpSrv  *http.Server
	router   *gin.Engine
	mCounter *prometheus.CounterVec
	queue    ports.TaskQueue
	consumer ports.TaskConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	// config
	if err = godotenv.Load(".env"); err != nil {
		logger.Fatal("error loading .env file", zap.Error(err))
	}
	cfg := config.Load()

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: r,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// s3
	store, err := s3.New(ctx, logger, cfg.S3)
	if err != nil {
		logger.Fatal("failed to connect to S3", zap.Error(err))
	}

	// redis notifier
	redisAddr, err := cfg.RedisAddr()
	if err != nil {
		logger.Fatal("redis config error", zap.Error(err))
	}
	notifier, err := notify.New(ctx, logger, cfg.Redis, redisAddr)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	// rabbitMQ task queue
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	queue := mq.New(cfg.MQ, logger)
	if err = queue.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = queue.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	// task consumer
	consumer := taskrunner.New(cfg.MQ, logger, queue.GetConn())
	if err = consumer.Connect(rabbitDsn); err != nil {
		logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
	}
	if err = consumer.Init(); err != nil {
		logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}

	return &App{
		logger:   logger,
		cfg:      cfg,
		db:       dbPool,
		store:    store,
		notifier: notifier,
		httpSrv:  httpSrv,
		router:   r,
		mCounter: mCounter,
		queue:    queue,
		consumer: consumer,
	}, nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.queue.GetConn() != nil {
		a.queue.GetConn().Close()
	}
	if n, ok := a.notifier.(*notify.RedisNotifier); ok {
		_ = n.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.cfg.App.Host+":"+a.cfg.App.Port))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.queue.PublisherWorker(ctx)
		return nil
	})

	g.Go(func() error {
		a.consumer.DeliveryWorker(ctx)
		return nil
	})

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	fileRepo := storedfileRepo.NewRepository(a.db)
	linkRepo := userlinkRepo.NewRepository(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	fileService := services.NewFileService(
		a.cfg.Files,
		fileRepo,
		linkRepo,
		a.store,
		a.queue,
		a.notifier,
		a.logger,
		a.mCounter,
	)

	// async phases run on the worker, detached from request lifetimes
	a.consumer.Handle(mq.TaskUpload, func(ctx context.Context, t mq.Task) error {
		return fileService.CompleteUpload(ctx, t.ExternalID, t.Extension, t.Payload)
	})
	a.consumer.Handle(mq.TaskPurge, func(ctx context.Context, t mq.Task) error {
		return fileService.Purge(ctx, t.ExternalID, t.Extension)
	})

	// controllers
	rest.NewFileController(a.router, fileService, a.logger, jwtService)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
