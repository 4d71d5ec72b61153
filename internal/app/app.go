package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"student-records/internal/config"
	"student-records/internal/db"
	"student-records/internal/health"
	"student-records/internal/httputil"
	"student-records/internal/logger"
	"student-records/internal/messaging"
	"student-records/internal/metrics"
	"student-records/internal/middleware"
	"student-records/internal/student"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

type App struct {
	config   *config.Config
	router   chi.Router
	server   *http.Server
	logger   *slog.Logger
	dbClient *mongo.Client
	producer *messaging.Producer
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	// The client connects lazily. The server accepts requests before the
	// store is confirmed reachable; those requests fail with 500 until the
	// store comes up.
	ctx := context.Background()
	dbClient, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to configure database client: %v", err)
	}
	app.dbClient = dbClient

	collection := dbClient.Database(cfg.Database.Name).Collection("students")
	if err := db.EnsureIndexes(ctx, collection); err != nil {
		slogLogger.Warn("failed to ensure indexes, uniqueness relies on duplicate-key translation", "error", err)
	}

	app.router.Use(middleware.RequestLogger(slogLogger))
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	// Metrics (no-op unless a global meter provider is installed)
	m, err := metrics.New(otel.Meter(ServiceName))
	if err != nil {
		slogLogger.Warn("failed to initialize metrics", "error", err)
		m = metrics.NewMock()
	}

	// NATS producer setup (optional)
	var producer *messaging.Producer
	if cfg.NATS.URL != "" {
		producer, err = messaging.NewProducer(cfg.NATS.URL, cfg.NATS.Subject, slogLogger)
		if err != nil {
			slogLogger.Warn("failed to initialize NATS producer", "error", err)
			producer = nil
		}
	}
	app.producer = producer

	// Student endpoints
	studentRepo := student.NewRepository(collection, m)
	studentService := newStudentService(studentRepo, producer, slogLogger)
	studentValidator := student.NewValidator(cfg.Students.GenderLabels)
	studentHandler := student.NewHandler(studentService, studentValidator, slogLogger, m, cfg.Env != "prod")

	app.router.Route("/api", func(r chi.Router) {
		studentHandler.RegisterRoutes(r)
	})

	app.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondWithError(w, http.StatusNotFound, "Route not found")
	})
	app.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondWithError(w, http.StatusNotFound, "Route not found")
	})

	slogLogger.Info("application initialized successfully")

	return app
}

// newStudentService keeps the nil-producer case an untyped nil so the
// service's nil check works
func newStudentService(repo student.Repository, producer *messaging.Producer, logger *slog.Logger) student.Service {
	if producer == nil {
		return student.NewService(repo, nil, logger)
	}
	return student.NewService(repo, producer, logger)
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	if a.producer != nil {
		a.producer.Close()
	}

	err := a.server.Shutdown(ctx)
	db.Close(ctx, a.dbClient)
	return err
}
