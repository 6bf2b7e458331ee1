package handlers

import (
	"net/http"

	"taskmanager-project/backend/middleware"
	"taskmanager-project/backend/services"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// GetNotifications lists the caller's unread notices.
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	notices, err := h.service.ListUnread(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"notices": notices,
	})
}

// MarkRead acknowledges one notice (?id=) or all (?isReadType=all).
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	isReadType := r.URL.Query().Get("isReadType")
	noticeID := r.URL.Query().Get("id")

	if err := h.service.MarkRead(r.Context(), identity.UserID, isReadType, noticeID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Notifications marked as read",
	})
}
