package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"taskmanager-project/backend/logging"
	"taskmanager-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// writeJSON writes a response payload with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP status codes and always
// responds with the {status, message} envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest

	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var authErr *models.AuthError
	var storeErr *models.StoreError

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	case errors.As(err, &authErr):
		if authErr.Forbidden {
			status = http.StatusForbidden
		} else {
			status = http.StatusUnauthorized
		}
	case errors.As(err, &storeErr):
		status = http.StatusInternalServerError
		logging.Logger.Errorf("Event ID: STORE_ERROR, Description: %v", err)
	}

	writeJSON(w, status, map[string]any{"status": false, "message": err.Error()})
}

// decodeJSON decodes a request body into a typed schema. A field of the
// wrong JSON type is a validation failure, not a server error; this is
// where a non-string stage or priority gets rejected.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return models.NewValidationError("Invalid data type for %s", typeErr.Field)
		}
		return models.NewValidationError("Invalid request payload")
	}
	return nil
}

// parseDate accepts ISO-8601 timestamps or bare dates. An empty value
// yields the zero time so required-field checks can catch it.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, models.NewValidationError("Invalid date format")
}

func parseObjectID(value, resource string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, models.NewValidationError("Invalid %s ID format", resource)
	}
	return id, nil
}

func parseTeam(ids []string) ([]primitive.ObjectID, error) {
	team := make([]primitive.ObjectID, 0, len(ids))
	for _, raw := range ids {
		id, err := parseObjectID(raw, "team member")
		if err != nil {
			return nil, err
		}
		team = append(team, id)
	}
	return team, nil
}
