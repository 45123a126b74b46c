package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vbonduro/rentalmngr/internal/service"
)

type Server struct {
	service *service.RentalService
	router  chi.Router
	logger  *slog.Logger
}

func NewServer(svc *service.RentalService, logger *slog.Logger) *Server {
	s := &Server{
		service: svc,
		router:  chi.NewRouter(),
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/properties", func(r chi.Router) {
		r.Get("/", s.handleListProperties)
		r.Post("/", s.handleCreateProperty)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetProperty)
			r.Post("/rooms", s.handleCreateRoom)
			r.Get("/tenants", s.handleListTenants)
			r.Post("/tenants", s.handleCreateTenant)
			r.Get("/income", s.handleListIncome)
			r.Post("/income", s.handleRecordIncome)
			r.Post("/income/generate", s.handleGenerateIncome)
			r.Post("/expenses", s.handleRecordExpense)
			r.Get("/summary", s.handleSummary)
			r.Get("/rules", s.handleListRules)
			r.Post("/rules", s.handleAddRule)
			r.Get("/reminders", s.handleListReminders)
			r.Post("/reminders", s.handleAddReminder)
		})
	})

	r.Route("/tenants/{id}", func(r chi.Router) {
		r.Post("/renew", s.handleRenewContract)
		r.Post("/room", s.handleAssignTenant)
		r.Delete("/", s.handleDeactivateTenant)
		r.Get("/contract.pdf", s.handleContractPDF)
	})

	r.Route("/rooms/{id}", func(r chi.Router) {
		r.Post("/photos", s.handleUploadPhoto)
		r.Get("/photos/{index}", s.handleGetPhoto)
		r.Delete("/photos/{index}", s.handleDeletePhoto)
		r.Delete("/tenant", s.handleUnassignRoom)
		r.Get("/ad.pdf", s.handleRoomAdPDF)
	})

	r.Route("/reminders/{id}", func(r chi.Router) {
		r.Post("/completed", s.handleCompleteReminder)
		r.Delete("/completed", s.handleReopenReminder)
		r.Delete("/", s.handleDeleteReminder)
	})

	r.Post("/income/{id}/paid", s.handleMarkPaid)
	r.Delete("/income/{id}/paid", s.handleMarkUnpaid)

	r.Get("/alerts", s.handleAlerts)
}

// securityHeaders sets the browser hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
