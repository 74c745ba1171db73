package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sngm3741/survey-services/api/internal/auth"
	"github.com/sngm3741/survey-services/api/internal/config"
	identityapp "github.com/sngm3741/survey-services/api/internal/identity/application"
	mongodoc "github.com/sngm3741/survey-services/api/internal/infrastructure/mongo"
	"github.com/sngm3741/survey-services/api/internal/infrastructure/payment"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/common"
	"github.com/sngm3741/survey-services/api/internal/interfaces/http/guard"
	identityhttp "github.com/sngm3741/survey-services/api/internal/interfaces/http/identity"
	surveyhttp "github.com/sngm3741/survey-services/api/internal/interfaces/http/survey"
	taskhttp "github.com/sngm3741/survey-services/api/internal/interfaces/http/task"
	"github.com/sngm3741/survey-services/api/internal/logging"
	"github.com/sngm3741/survey-services/api/internal/metrics"
	surveyapp "github.com/sngm3741/survey-services/api/internal/survey/application"
	taskapp "github.com/sngm3741/survey-services/api/internal/task/application"
)

// RequestIDHeader carries the correlation id in and out of the service.
const RequestIDHeader = "X-Request-ID"

// Registrar mounts a handler set onto the router.
type Registrar interface {
	Register(r chi.Router)
}

// Pinger reports store reachability for /healthz. *mongo.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// RouterConfig defines everything NewRouter needs.
type RouterConfig struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	Health         Pinger
	Handlers       []Registrar
}

// Server は HTTP サーバーのライフサイクルを管理し、各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger   zerolog.Logger
	client   *mongo.Client
	database *mongo.Database
	cfg      config.Config
	router   http.Handler
}

// New は Config と Mongo クライアントからリポジトリ、サービス、ハンドラを組み立てる。
func New(cfg config.Config, client *mongo.Client, logger zerolog.Logger) (*Server, error) {
	db := client.Database(cfg.Mongo.Database)
	cols := cfg.Mongo.Collections

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	users := identityapp.NewUserService(mongodoc.NewUserRepository(db, cols.Users))
	g := guard.New(tokens, users, logger)

	handlers := []Registrar{
		identityhttp.NewHandler(identityhttp.Config{
			Logger: logger,
			Users:  users,
			Tokens: tokens,
			Guard:  g,
		}),
	}

	switch cfg.App {
	case config.AppSurvey:
		surveys := mongodoc.NewSurveyRepository(db, cols.Surveys)
		votes := mongodoc.NewVoteRepository(db, cols.Votes, cols.Surveys, cfg.Mongo.UseTransactions)
		handlers = append(handlers, surveyhttp.NewHandler(surveyhttp.Config{
			Logger:  logger,
			Surveys: surveyapp.NewSurveyService(surveys, votes),
			Votes:   surveyapp.NewVoteService(surveys, votes),
			Engagement: surveyapp.NewEngagementService(
				mongodoc.NewReportRepository(db, cols.Reports),
				mongodoc.NewCommentRepository(db, cols.Comments),
			),
			Payments: surveyapp.NewPaymentService(
				paymentGateway(cfg.Payment, logger),
				mongodoc.NewPaymentRepository(db, cols.Payments),
			),
			Guard: g,
		}))
	case config.AppTask:
		handlers = append(handlers, taskhttp.NewHandler(taskhttp.Config{
			Logger: logger,
			Tasks: taskapp.NewTaskService(
				mongodoc.NewTaskRepository(db, cols.Tasks),
				mongodoc.NewActivityRepository(db, cols.Activities),
			),
			Guard: g,
		}))
	default:
		return nil, fmt.Errorf("unknown app %q", cfg.App)
	}

	return &Server{
		logger:   logger,
		client:   client,
		database: db,
		cfg:      cfg,
		router: NewRouter(RouterConfig{
			Logger:         logger,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Health:         client,
			Handlers:       handlers,
		}),
	}, nil
}

func paymentGateway(cfg config.PaymentConfig, logger zerolog.Logger) surveyapp.PaymentGateway {
	if cfg.StripeSecretKey == "" {
		logger.Warn().Msg("STRIPE_SECRET_KEY is not set; payment intents are disabled")
		return payment.DisabledGateway{}
	}
	return payment.NewStripeGateway(cfg.StripeSecretKey, cfg.Currency, payment.BreakerSettings{
		MaxFailures: cfg.BreakerMaxFailures,
		Timeout:     cfg.BreakerTimeout,
	}, logger)
}

// UniqueIndexes lists the indexes that close check-then-insert races for app.
func UniqueIndexes(app config.App, cols config.Collections) []mongodoc.UniqueIndex {
	indexes := []mongodoc.UniqueIndex{{Collection: cols.Users, Keys: []string{"email"}}}
	if app == config.AppSurvey {
		indexes = append(indexes,
			mongodoc.UniqueIndex{Collection: cols.Votes, Keys: []string{"surveyId", "userEmail"}},
			mongodoc.UniqueIndex{Collection: cols.Reports, Keys: []string{"surveyId", "userEmail"}},
		)
	}
	return indexes
}

// NewRouter builds the middleware chain and mounts the service routes.
func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger(cfg.Logger))
	router.Use(metrics.Middleware)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/", rootHandler)
	router.Get("/healthz", healthHandler(cfg.Logger, cfg.Health))
	router.Handle("/metrics", promhttp.Handler())
	for _, h := range cfg.Handlers {
		h.Register(router)
	}
	return router
}

// requestID honours an incoming X-Request-ID and otherwise assigns a UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func rootHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("App is Running"))
}

// healthHandler は MongoDB への疎通確認を行い、監視系からのヘルスチェック要求に応える。
func healthHandler(logger zerolog.Logger, pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pinger.Ping(ctx, readpref.Primary()); err != nil {
			common.WriteJSON(logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
		common.WriteJSON(logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// Run はユニークインデックスを用意してから HTTP サーバーを起動し、シグナルを受けるまでブロックする。
func (s *Server) Run() error {
	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mongodoc.EnsureUniqueIndexes(indexCtx, s.database, UniqueIndexes(s.cfg.App, s.cfg.Mongo.Collections)); err != nil {
		s.logger.Warn().Err(err).Msg("failed to ensure unique indexes; duplicate checks fall back to lookups")
	}
	cancel()

	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("app", string(s.cfg.App)).Str("addr", httpServer.Addr).Msg("HTTP server listening")
		errChan <- httpServer.ListenAndServe()
	}()

	return s.waitForShutdown(httpServer, errChan)
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("failed to disconnect MongoDB")
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func (s *Server) waitForShutdown(httpServer *http.Server, errChan <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigChan:
		s.logger.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}

	s.shutdown(context.Background())
	return runErr
}
