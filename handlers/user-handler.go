package handlers

import (
	"net/http"

	"taskmanager-project/backend/middleware"
	"taskmanager-project/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"isAdmin"`
		Role     string `json:"role"`
		Title    string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, token, err := h.service.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
		Role:     req.Role,
		Title:    req.Title,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":  true,
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

func (h *UserHandler) GetTeamList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetTeamList(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": true,
		"users":  users,
	})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req struct {
		ID    string `json:"_id"`
		Name  string `json:"name"`
		Title string `json:"title"`
		Role  string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	targetID := primitive.NilObjectID
	if req.ID != "" {
		parsed, err := parseObjectID(req.ID, "user")
		if err != nil {
			writeError(w, err)
			return
		}
		targetID = parsed
	}

	user, err := h.service.UpdateProfile(r.Context(), identity.UserID, identity.IsAdmin, targetID, req.Name, req.Title, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Profile Updated Successfully.",
		"user":    user,
	})
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), identity.UserID, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Password changed successfully.",
	})
}

func (h *UserHandler) ActivateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseObjectID(mux.Vars(r)["id"], "user")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		IsActive bool `json:"isActive"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	isActive, err := h.service.SetActive(r.Context(), id, req.IsActive)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "User account has been disabled"
	if isActive {
		message = "User account has been activated"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": message,
	})
}

func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseObjectID(mux.Vars(r)["id"], "user")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "User deleted successfully",
	})
}
