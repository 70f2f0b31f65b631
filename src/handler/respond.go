package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/auth"
	"tradejournal/src/journal"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// actorFromRequest builds the engine actor from the authenticated user.
// It writes 401 and returns false when there is none.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (journal.Actor, bool) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok || user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return journal.Actor{}, false
	}
	return journal.Actor{UserID: user.ID, Trigger: auth.GetTriggerFromContext(r.Context())}, true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid " + name, Field: name})
		return 0, false
	}
	return uint(id), true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		logger.WithError(err).Warn("invalid request payload")
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid payload"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}

// writeError maps an engine error kind onto a status code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := journal.Kind(err)

	switch kind {
	case "validation_failed":
		var verr *journal.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Reason, Field: verr.Field})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: kind})
	case "not_found":
		writeJSON(w, http.StatusNotFound, errorBody{Error: kind})
	case "forbidden":
		writeJSON(w, http.StatusForbidden, errorBody{Error: kind})
	case "already_closed", "invalid_state":
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		logger.WithFields(logger.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// pagination reads page (1-based) and pageSize query parameters.
func pagination(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	page := 1
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		parsedPage, err := strconv.Atoi(pageParam)
		if err != nil || parsedPage <= 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid page", Field: "page"})
			return 0, 0, false
		}
		page = parsedPage
	}

	pageSize := 20
	if sizeParam := r.URL.Query().Get("pageSize"); sizeParam != "" {
		parsedSize, err := strconv.Atoi(sizeParam)
		if err != nil || parsedSize <= 0 || parsedSize > 200 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid pageSize", Field: "pageSize"})
			return 0, 0, false
		}
		pageSize = parsedSize
	}

	return pageSize, (page - 1) * pageSize, true
}

// optionalUint reads an unsigned query parameter; nil when absent.
func optionalUint(w http.ResponseWriter, r *http.Request, name string) (*uint, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid " + name, Field: name})
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// optionalTime reads an RFC3339 query parameter; nil when absent.
func optionalTime(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid " + name, Field: name})
		return nil, false
	}
	v = v.UTC()
	return &v, true
}

func optionalString(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}
