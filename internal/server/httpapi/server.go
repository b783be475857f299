// Package httpapi is the HTTP boundary of the identity subsystem. It
// validates request shapes, invokes the services, and maps the typed service
// errors onto the product's error catalog. Raw store or provider errors
// never reach a client.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/fashionguide/chat-backend/internal/logging"
	"github.com/fashionguide/chat-backend/internal/server/auth"
	"github.com/fashionguide/chat-backend/internal/server/chat"
	"github.com/fashionguide/chat-backend/internal/server/google"
	"github.com/fashionguide/chat-backend/internal/server/services"
)

type Server struct {
	address       string
	users         *services.UserService
	verification  *services.VerificationService
	google        *services.GoogleService
	flow          *google.Flow
	chat          *chat.Handler
	tokens        *auth.TokenManager
	logger        logging.Logger
	allowedOrigin string
}

func NewServer(address string, logger logging.Logger, users *services.UserService, verification *services.VerificationService, googleSvc *services.GoogleService, flow *google.Flow, chatHandler *chat.Handler, tokens *auth.TokenManager, allowedOrigin string) *Server {
	return &Server{
		address:       address,
		users:         users,
		verification:  verification,
		google:        googleSvc,
		flow:          flow,
		chat:          chatHandler,
		tokens:        tokens,
		logger:        logger.With("module", "http_server"),
		allowedOrigin: allowedOrigin,
	}
}

// Handler assembles the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/google", s.handleGoogleLogin)
	mux.HandleFunc("GET /api/auth/google/start", s.handleGoogleStart)
	mux.HandleFunc("GET /api/auth/google/callback", s.handleGoogleCallback)
	mux.HandleFunc("POST /api/auth/verify-email", s.handleVerifyEmail)
	mux.HandleFunc("POST /api/auth/resend-verification", s.handleResendVerification)
	mux.HandleFunc("GET /api/auth/me", s.withAuth(s.handleMe))

	mux.Handle("/ws", s.chat)

	return s.withCORS(mux)
}

// Run serves until the context is cancelled, then drains gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
