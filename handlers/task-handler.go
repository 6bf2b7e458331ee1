package handlers

import (
	"net/http"

	"taskmanager-project/backend/middleware"
	"taskmanager-project/backend/models"
	"taskmanager-project/backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	service   *services.TaskService
	dashboard *services.DashboardService
}

func NewTaskHandler(service *services.TaskService, dashboard *services.DashboardService) *TaskHandler {
	return &TaskHandler{service: service, dashboard: dashboard}
}

type createTaskRequest struct {
	Title    string   `json:"title"`
	Team     []string `json:"team"`
	Stage    string   `json:"stage"`
	Date     string   `json:"date"`
	Priority string   `json:"priority"`
	Assets   []string `json:"assets"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	team, err := parseTeam(req.Team)
	if err != nil {
		writeError(w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.CreateTask(r.Context(), services.CreateTaskInput{
		Title:    req.Title,
		Team:     team,
		Stage:    req.Stage,
		Date:     date,
		Priority: req.Priority,
		Assets:   req.Assets,
	}, identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"task":    task,
		"message": "Task created successfully.",
	})
}

func (h *TaskHandler) DuplicateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseObjectID(mux.Vars(r)["id"], "task")
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.service.DuplicateTask(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Task duplicated successfully.",
	})
}

func (h *TaskHandler) PostTaskActivity(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	id, err := parseObjectID(mux.Vars(r)["id"], "task")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Type     string `json:"type"`
		Activity string `json:"activity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.PostTaskActivity(r.Context(), id, req.Type, req.Activity, identity.UserID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Activity posted successfully.",
	})
}

func (h *TaskHandler) CreateSubTask(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	if rawID == "" {
		writeError(w, models.NewValidationError("Task ID is required."))
		return
	}
	id, err := parseObjectID(rawID, "task")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Title string `json:"title"`
		Tag   string `json:"tag"`
		Date  string `json:"date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.CreateSubTask(r.Context(), id, req.Title, req.Tag, date); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Sub-task added successfully.",
	})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseObjectID(mux.Vars(r)["id"], "task")
	if err != nil {
		writeError(w, err)
		return
	}

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	team, err := parseTeam(req.Team)
	if err != nil {
		writeError(w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.UpdateTask(r.Context(), id, services.UpdateTaskInput{
		Title:    req.Title,
		Date:     date,
		Team:     team,
		Stage:    req.Stage,
		Priority: req.Priority,
		Assets:   req.Assets,
	}); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": "Task updated successfully.",
	})
}

var trashMessages = map[string]string{
	"trash":      "Task trashed successfully.",
	"restore":    "Task restored successfully.",
	"delete":     "Task deleted successfully.",
	"deleteAll":  "All trashed tasks deleted successfully.",
	"restoreAll": "All trashed tasks restored successfully.",
}

// TrashTask serves the trash state machine. The route without an id only
// makes sense for the bulk actions; the single-task actions parse it.
func (h *TaskHandler) TrashTask(w http.ResponseWriter, r *http.Request) {
	actionType := r.URL.Query().Get("actionType")
	if actionType == "" {
		actionType = "trash"
	}

	id := primitive.NilObjectID
	if rawID := mux.Vars(r)["id"]; rawID != "" {
		parsed, err := parseObjectID(rawID, "task")
		if err != nil {
			writeError(w, err)
			return
		}
		id = parsed
	}

	if err := h.service.TrashTask(r.Context(), id, actionType); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  true,
		"message": trashMessages[actionType],
	})
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	stage := r.URL.Query().Get("stage")
	isTrashed := r.URL.Query().Get("isTrashed") == "true"

	tasks, err := h.service.GetTasks(r.Context(), stage, isTrashed)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": true,
		"tasks":  tasks,
	})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseObjectID(mux.Vars(r)["id"], "task")
	if err != nil {
		writeError(w, err)
		return
	}

	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": true,
		"task":   task,
	})
}

type dashboardResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	*services.Summary
}

func (h *TaskHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	summary, err := h.dashboard.Summarize(r.Context(), identity.UserID, identity.IsAdmin)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Status:  true,
		Message: "Successfully",
		Summary: summary,
	})
}
