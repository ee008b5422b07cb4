package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/rof/invgen/docs"
	"github.com/rof/invgen/internal/api/handler"
	"github.com/rof/invgen/internal/api/middleware"
	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
	"github.com/rof/invgen/internal/infrastructure/http/handlers"
)

const (
	defaultBodyLimit      = "50M"
	defaultRequestTimeout = 60 * time.Second
)

// Options carries everything the router needs. Services are built by the
// caller so the router stays free of storage concerns.
type Options struct {
	Logger zerolog.Logger
	Tokens middleware.TokenParser

	Auth     ports.AuthService
	Entries  ports.EntryService
	Records  ports.RecordService
	Payments ports.PaymentService
	Reports  ports.ReportService
	Images   ports.ImageStore

	// Readiness lists the dependencies probed by /health/ready.
	Readiness map[string]handlers.Pinger

	AllowedOrigins []string
	BodyLimit      string
	RequestTimeout time.Duration

	// Registry receives the HTTP metrics. Nil uses the default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	if opts.BodyLimit == "" {
		opts.BodyLimit = defaultBodyLimit
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, handler.HeaderIdempotencyKey},
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit(opts.BodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "invgen",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(opts.Auth)
	entryHandler := handler.NewEntryHandler(opts.Entries)
	recordHandler := handler.NewRecordHandler(opts.Records)
	paymentHandler := handler.NewPaymentHandler(opts.Payments)
	documentHandler := handler.NewDocumentHandler(opts.Reports)
	uploadHandler := handler.NewUploadHandler(opts.Images)

	api := e.Group("/api", echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
		Timeout: opts.RequestTimeout,
	}))
	guard := []echo.MiddlewareFunc{
		middleware.Auth(opts.Tokens),
		middleware.RBAC(domain.RoleAdmin, domain.RoleUser),
	}

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.PUT("/edit", authHandler.Edit, guard...)
	auth.GET("/get", authHandler.List, guard...)

	// --- Entry routes ---
	entries := api.Group("/entry", guard...)
	entries.POST("/add", entryHandler.Add)
	entries.GET("/records", entryHandler.List)
	entries.GET("/export", documentHandler.ExportEntries)

	// --- Record routes ---
	records := api.Group("/record", guard...)
	records.GET("/get", recordHandler.List)
	records.POST("/create", recordHandler.Create)
	records.PUT("/edit/:id", recordHandler.Update)
	records.DELETE("/delete/:id", recordHandler.Delete)

	// --- Payment routes ---
	payments := api.Group("/payment", guard...)
	payments.POST("/create", paymentHandler.Create)
	payments.GET("/get", paymentHandler.List)
	payments.PUT("/edit/:id", paymentHandler.Update)
	payments.PUT("/update/:id", paymentHandler.Update)
	payments.DELETE("/delete/:id", paymentHandler.Delete)
	payments.GET("/:id/invoice/pdf", documentHandler.PaymentReceipt)
	payments.GET("/:recordId/invoice/summary", documentHandler.RecordStatement)

	// --- Uploaded images ---
	e.GET("/uploads/:name", uploadHandler.Serve)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(opts.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
