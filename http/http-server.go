package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
	"github.com/programme-lv/participation/httpjson"
	"github.com/programme-lv/participation/logger"
)

const RequestIdHeader = "X-Request-Id"

// RouteRegistrar is implemented by the domain http handlers.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type Options struct {
	AllowedOrigins []string
	LogLevel       slog.Level
	JsonLogs       bool
	// Metrics is served at /metrics when set.
	Metrics http.Handler
	// StatsInterval is how often endpoint latency stats are logged.
	// Zero disables them.
	StatsInterval time.Duration
}

type HttpServer struct {
	router *chi.Mux
}

func NewHttpServer(opts Options, handlers ...RouteRegistrar) *HttpServer {
	router := chi.NewRouter()

	httpLogger := httplog.NewLogger("participation", httplog.Options{
		LogLevel:         opts.LogLevel,
		JSON:             opts.JsonLogs,
		Concise:          true,
		RequestHeaders:   false,
		MessageFieldName: "message",
		QuietDownRoutes:  []string{"/healthz", "/metrics"},
		QuietDownPeriod:  time.Minute,
	})

	router.Use(httplog.RequestLogger(httpLogger))
	router.Use(requestIdMiddleware)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIdHeader},
		MaxAge:         3000,
	}))

	if opts.StatsInterval > 0 {
		router.Use(newStatsLogger(opts.StatsInterval).middleware)
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpjson.WriteSuccessJson(w, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	return &HttpServer{router: router}
}

func (httpserver *HttpServer) Handler() http.Handler {
	return httpserver.router
}

func (httpserver *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, httpserver.router)
}

// requestIdMiddleware reuses the caller's request id or makes a new one, and
// puts a logger tagged with it into the request context.
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get(RequestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		w.Header().Set(RequestIdHeader, requestId)

		ctx := logger.WithRequestID(r.Context(), requestId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
