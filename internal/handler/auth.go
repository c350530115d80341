package handler

import (
	"net/http"

	"github.com/dakflow/dakflow/internal/ctxkeys"
	"github.com/dakflow/dakflow/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, pair, err := h.authService.Register(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		ID:      user.ID,
		Email:   user.Email,
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
	})
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The login form accepts either field name
	email := req.Username
	if email == "" {
		email = req.Email
	}

	if email == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "username and password required")
		return
	}

	user, pair, err := h.authService.Login(email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		ID:      user.ID,
		Email:   user.Email,
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
	})
}

func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	writeJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (h *authHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	err := decodeJSON(r, &req)
	if err != nil || req.Refresh == "" {
		writeDetail(w, http.StatusBadRequest, "refresh token required")
		return
	}

	_, pair, err := h.authService.Refresh(req.Refresh)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
	})
}
