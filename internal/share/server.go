package share

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/sadopc/kiosk/internal/kiosk"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

// NotFoundText is the body served for an unknown or revoked share token.
const NotFoundText = "Schedule not found or has been removed."

// ScheduleSource resolves share tokens.
type ScheduleSource interface {
	SafetyScheduleByShareToken(ctx context.Context, token string) (*kiosk.SafetySchedule, error)
}

// Server is the public, read-only safety schedule viewer.
type Server struct {
	schedules ScheduleSource
	logger    *logrus.Logger
}

func NewServer(schedules ScheduleSource, logger *logrus.Logger) *Server {
	return &Server{schedules: schedules, logger: logger}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(s.notFound)
	mux.MethodNotAllowed(s.methodNotAllowed)

	mux.Use(middleware.RequestID)
	mux.Use(s.logAccess)
	mux.Use(middleware.Recoverer)

	mux.Get("/safety/{token}", s.handleScheduleText)
	mux.Get("/api/safety/{token}", s.handleScheduleJSON)

	return mux
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.WithField("addr", addr).Info("starting share server")

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownErr; err != nil {
		return err
	}

	s.logger.WithField("addr", addr).Info("stopped share server")
	return nil
}

func (s *Server) logAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
		}).Info("access")
	})
}
