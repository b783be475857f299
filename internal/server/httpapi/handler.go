package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fashionguide/chat-backend/internal/common"
	"github.com/fashionguide/chat-backend/internal/server/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleAuthRequest struct {
	Token string `json:"token"`
}

type verifyEmailRequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   *string   `json:"full_name"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

type messageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.DisplayName,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	if invalid := validateRegister(req); invalid != nil {
		s.writeError(w, http.StatusBadRequest, invalid.Error())
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			s.writeError(w, http.StatusConflict, "email already registered")
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	s.writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	if invalid := validateLogin(req); invalid != nil {
		s.writeError(w, http.StatusBadRequest, invalid.Error())
		return
	}

	token, _, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidCredentials):
			s.writeError(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, common.ErrNotVerified):
			// Deliberately specific, per the product's error catalog.
			s.writeError(w, http.StatusForbidden, "email not verified")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleAuthRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Token == "" {
		s.writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	s.finishGoogleLogin(w, r, req.Token)
}

func (s *Server) handleGoogleStart(w http.ResponseWriter, r *http.Request) {
	if s.flow == nil {
		http.NotFound(w, r)
		return
	}

	state, err := common.MakeStateToken()
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.flow.AuthURL(state), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.flow == nil {
		http.NotFound(w, r)
		return
	}
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		s.writeError(w, http.StatusBadRequest, "provider reported: "+errParam)
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookieName)
	if code == "" || state == "" || err != nil || cookie.Value != state {
		s.writeError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}

	idToken, err := s.flow.Exchange(r.Context(), code)
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, "invalid google token")
		return
	}

	s.finishGoogleLogin(w, r, idToken)
}

func (s *Server) finishGoogleLogin(w http.ResponseWriter, r *http.Request, rawToken string) {
	token, user, err := s.google.Login(r.Context(), rawToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidFederatedToken):
			s.writeError(w, http.StatusUnauthorized, "invalid google token")
		case errors.Is(err, common.ErrIdentityConflict):
			s.writeError(w, http.StatusConflict, "account already linked to a different google identity")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	s.logger.Info(r.Context(), "google login", "user_id", user.ID)
	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if !s.decode(w, r, &req) {
		return
	}
	if invalid := validateVerifyEmail(req); invalid != nil {
		s.writeError(w, http.StatusBadRequest, invalid.Error())
		return
	}

	if err := s.verification.Consume(r.Context(), req.UserID, req.Code); err != nil {
		if errors.Is(err, common.ErrInvalidOrExpiredCode) {
			s.writeError(w, http.StatusBadRequest, "invalid or expired verification code")
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "email verified successfully", Success: true})
}

func (s *Server) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendVerificationRequest
	if !s.decode(w, r, &req) {
		return
	}
	if invalid := validateEmailField(req.Email); invalid != nil {
		s.writeError(w, http.StatusBadRequest, invalid.Error())
		return
	}

	if err := s.verification.Resend(r.Context(), req.Email); err != nil {
		if errors.Is(err, common.ErrAlreadyVerified) {
			s.writeError(w, http.StatusBadRequest, "email already verified")
			return
		}
		s.internalError(w, r, err)
		return
	}

	// The response is identical for known and unknown emails.
	s.writeJSON(w, http.StatusOK, messageResponse{Message: "verification code sent", Success: true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		s.writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, newUserResponse(user))
}

// --- response helpers ---

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
	s.writeError(w, http.StatusInternalServerError, "internal error")
}
