package handlers

import (
	"net/http"

	"taskmanager-project/backend/services"
)

type LoginHandler struct {
	service *services.UserService
}

func NewLoginHandler(service *services.UserService) *LoginHandler {
	return &LoginHandler{service: service}
}

func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Logout is stateless; the client discards its token.
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Logout successful",
	})
}
