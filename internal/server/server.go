package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polarisfn/Polaris_Go/internal/cloudstorage"
	"github.com/polarisfn/Polaris_Go/internal/database"
	"github.com/polarisfn/Polaris_Go/internal/handler"
	"github.com/polarisfn/Polaris_Go/internal/logger"
	"github.com/polarisfn/Polaris_Go/internal/metrics"
	"github.com/polarisfn/Polaris_Go/internal/profile"
)

type Server struct {
	httpServer     *http.Server
	dbPool         database.Pool
	profileService profile.Service
	storageService cloudstorage.Service
}

// NewServer creates a new Server instance
func NewServer(port int, dbPool database.Pool, profileService profile.Service, storageService cloudstorage.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.MetricsMiddleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Profile command routes
	profileHandler := handler.NewProfileHandler(profileService)
	r.Route("/api/game/v2/profile", func(r chi.Router) {
		r.Post("/{accountId}/client/{command}", profileHandler.ExecuteCommand)
	})

	// Cloud storage routes
	storageHandler := handler.NewCloudStorageHandler(storageService)
	r.Route("/api/cloudstorage", func(r chi.Router) {
		r.Get("/system", storageHandler.ListSystemFiles)
		r.Get("/system/{filename}", storageHandler.GetSystemFile)
		r.Route("/user/{accountId}", func(r chi.Router) {
			r.Get("/", storageHandler.ListUserFiles)
			r.Get("/{filename}", storageHandler.GetUserFile)
			r.Put("/{filename}", storageHandler.PutUserFile)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:         dbPool,
		profileService: profileService,
		storageService: storageService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		for _, quiet := range QuietPaths {
			if strings.HasPrefix(r.URL.Path, quiet) {
				next.ServeHTTP(w, r)
				return
			}
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
