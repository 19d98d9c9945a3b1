package handler

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/programpal/pathfinder/internal/ctxkeys"
	"github.com/programpal/pathfinder/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in credentials
	err := decodeJSON(w, r, &in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.authService.Signup(r.Context(), in.Email, in.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("user signed up", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, user)
}

// Token exchanges credentials for a bearer token. It accepts the OAuth2
// password-flow form (username, password) or a JSON body (email, password).
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	in, err := readCredentials(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		slog.Warn("password login failed", "error", err, "email", in.Email)
		writeServiceError(w, r, err)
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("user logged in with password", "user_id", user.ID)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func readCredentials(w http.ResponseWriter, r *http.Request) (credentials, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		err := r.ParseForm()
		if err != nil {
			return credentials{}, fmt.Errorf("%w: malformed form: %w", service.ErrInvalidRequest, err)
		}
		return credentials{Email: r.PostForm.Get("username"), Password: r.PostForm.Get("password")}, nil
	}

	var in credentials
	err := decodeJSON(w, r, &in)
	return in, err
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}
