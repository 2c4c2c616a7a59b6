package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/app/health"
	"kanbaniq/internal/app/invitation"
	"kanbaniq/internal/app/notification"
	"kanbaniq/internal/app/task"
	"kanbaniq/internal/app/user"
	"kanbaniq/internal/config"
	"kanbaniq/internal/db"
	"kanbaniq/internal/db/seeder"
	"kanbaniq/internal/gateways/websocket"
	"kanbaniq/internal/middleware"
	"kanbaniq/internal/providers/firebase"
	"kanbaniq/internal/providers/mailer"
	"kanbaniq/internal/providers/queue"
	"kanbaniq/internal/providers/redis"
	"kanbaniq/internal/router"
	"kanbaniq/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	shutdownTimeout   = 10 * time.Second
	eventBusBuffer    = 1024
	natsWorkerGroup   = "kanbaniq-email-worker"
	notifyTimeout     = 30 * time.Second
	kafkaSetupTimeout = 10 * time.Second
)

type Application struct {
	Config   *config.Config
	Router   *router.Router
	DB       *gorm.DB
	Hub      *websocket.Hub
	Notifier notification.Notifier

	closers []func() error
	logger  *zap.Logger
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := task.RegisterValidators(); err != nil {
		return nil, err
	}

	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &Application{Config: cfg, DB: dbConn, logger: logger}
	if err := a.trackDB(dbConn); err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn, logger); err != nil {
		a.Close()
		return nil, err
	}
	if cfg.SeedDemo {
		if err := seeder.NewSeeder(dbConn, logger).Seed(context.Background()); err != nil {
			logger.Warn("Failed to run seeders", zap.Error(err))
		}
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
	a.closers = append(a.closers, redisProvider.Close)

	verifier, err := NewVerifier(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, func() error { verifier.Close(); return nil })

	dispatcher, pingers, err := NewDispatcher(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, dispatcher.Close)

	eventBus := utils.NewEventBus(eventBusBuffer)

	userRepo := user.NewRepository(dbConn)
	boardRepo := board.NewRepository(dbConn)
	taskRepo := task.NewRepository(dbConn)
	invitationRepo := invitation.NewRepository(dbConn)

	userService := user.NewService(userRepo, redisProvider, logger)
	boardService := board.NewService(boardRepo, userService, redisProvider, eventBus, logger)
	notifier := notification.NewService(userService, boardService, dispatcher, notification.Options{
		AppURL:      cfg.AppURL,
		NotifyActor: cfg.NotifyActor,
		Timeout:     notifyTimeout,
	}, logger)
	taskService := task.NewService(taskRepo, boardService, notifier, redisProvider, eventBus, logger)
	invitationService := invitation.NewService(invitationRepo, boardService, userService, notifier, cfg.InvitationTTL, logger)
	a.Notifier = notifier

	a.Hub = websocket.NewHub(eventBus, verifier, userService, boardService, logger)

	healthService := health.NewService(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisProvider.Client,
		Extra: pingers,
	})

	r := router.NewRouter(cfg.FrontendURL, middleware.AuthMiddleware(verifier, userService, logger), logger)
	r.RegisterHealthRoutes(health.NewHandler(healthService))
	r.RegisterWebSocketRoutes(a.Hub)
	r.RegisterUserRoutes(user.NewHandler(userService, logger))
	r.RegisterBoardRoutes(board.NewHandler(boardService, logger), boardService)
	r.RegisterTaskRoutes(task.NewHandler(taskService, logger), boardService)
	r.RegisterInvitationRoutes(invitation.NewHandler(invitationService, logger), boardService)
	r.RegisterSwaggerRoutes()
	a.Router = r

	return a, nil
}

// Serve runs the HTTP server and the realtime hub until ctx is cancelled, then
// shuts down gracefully and waits for in-flight notifications.
func (a *Application) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.ServerPort,
		Handler:           a.Router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		a.logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.Notifier.Wait()
	a.logger.Info("Server exited gracefully")
	return err
}

// trackDB registers the connection pool behind conn for Close.
func (a *Application) trackDB(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	a.closers = append(a.closers, sqlDB.Close)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *Application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Failed to release resource", zap.Error(err))
		}
	}
	a.closers = nil
}

func NewVerifier(cfg *config.Config, logger *zap.Logger) (firebase.Verifier, error) {
	if cfg.AuthMode == config.AuthModeHS256 {
		logger.Warn("Using HS256 token verification; do not use in production")
		return firebase.NewHS256Verifier([]byte(cfg.AuthHS256Secret), cfg.FirebaseProjectID), nil
	}
	return firebase.NewJWKSVerifier(cfg.FirebaseProjectID, cfg.FirebaseJWKSURL, logger)
}

func NewSender(cfg *config.Config, logger *zap.Logger) mailer.Sender {
	if cfg.MailDriver == config.MailDriverSMTP {
		return mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, logger)
	}
	return mailer.NewLogSender(logger)
}

func retryPolicy(cfg *config.Config) notification.RetryPolicy {
	return notification.RetryPolicy{MaxAttempts: cfg.EmailMaxAttempts, Backoff: cfg.EmailRetryBackoff}
}

// NewDispatcher picks how the API hands off emails, and returns the health
// probes for whatever broker that involves.
func NewDispatcher(cfg *config.Config, logger *zap.Logger) (notification.Dispatcher, []utils.Pinger, error) {
	switch cfg.EmailDispatch {
	case config.DispatchKafka:
		ensureKafkaTopics(cfg, logger)
		publisher := queue.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEmailTopic, logger)
		return notification.NewQueueDispatcher(publisher, logger), []utils.Pinger{queue.KafkaPinger{Brokers: cfg.KafkaBrokers}}, nil

	case config.DispatchNATS:
		conn, err := queue.ConnectNATS(cfg.NATSURL, "kanbaniq-api", logger)
		if err != nil {
			return nil, nil, err
		}
		publisher := queue.NewNATSPublisher(conn, cfg.NATSEmailSubject)
		closeConn := func() error {
			err := publisher.Close()
			conn.Close()
			return err
		}
		return notification.NewQueueDispatcher(closerPublisher{publisher, closeConn}, logger), []utils.Pinger{queue.NATSPinger{Conn: conn}}, nil

	default:
		sender := NewSender(cfg, logger)
		return notification.NewDirectDispatcher(sender, retryPolicy(cfg), cfg.EmailConcurrency, logger), nil, nil
	}
}

// NewEmailWorker builds the consumer side of the email queue.
func NewEmailWorker(cfg *config.Config, logger *zap.Logger) (*notification.Worker, func(), error) {
	if cfg.EmailDispatch != config.DispatchKafka && cfg.EmailDispatch != config.DispatchNATS {
		return nil, nil, fmt.Errorf("email-worker needs EMAIL_DISPATCH=%s or %s, got %q",
			config.DispatchKafka, config.DispatchNATS, cfg.EmailDispatch)
	}

	var (
		consumer queue.Consumer
		dlq      queue.Publisher
		release  = func() {}
	)
	if cfg.EmailDispatch == config.DispatchKafka {
		ensureKafkaTopics(cfg, logger)
		consumer = queue.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaEmailTopic, cfg.KafkaGroupID, logger)
		dlq = queue.NewKafkaPublisher(cfg.KafkaBrokers, queue.DeadLetterTopic(cfg.KafkaEmailTopic), logger)
	} else {
		conn, err := queue.ConnectNATS(cfg.NATSURL, natsWorkerGroup, logger)
		if err != nil {
			return nil, nil, err
		}
		consumer = queue.NewNATSConsumer(conn, cfg.NATSEmailSubject, natsWorkerGroup, logger)
		dlq = queue.NewNATSPublisher(conn, queue.DeadLetterTopic(cfg.NATSEmailSubject))
		release = conn.Close
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
	worker := notification.NewWorker(consumer, dlq, NewSender(cfg, logger), retryPolicy(cfg), redisProvider, logger)
	return worker, func() {
		if err := worker.Close(); err != nil {
			logger.Warn("Failed to close email worker", zap.Error(err))
		}
		release()
		if err := redisProvider.Close(); err != nil {
			logger.Warn("Failed to close redis", zap.Error(err))
		}
	}, nil
}

func ensureKafkaTopics(cfg *config.Config, logger *zap.Logger) {
	if len(cfg.KafkaBrokers) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), kafkaSetupTimeout)
	defer cancel()
	topics := []string{cfg.KafkaEmailTopic, queue.DeadLetterTopic(cfg.KafkaEmailTopic)}
	if err := queue.EnsureTopics(ctx, cfg.KafkaBrokers[0], topics...); err != nil {
		logger.Warn("Could not ensure Kafka topics", zap.Strings("topics", topics), zap.Error(err))
	}
}

// closerPublisher closes the NATS connection along with the publisher.
type closerPublisher struct {
	queue.Publisher
	close func() error
}

func (p closerPublisher) Close() error {
	return p.close()
}
