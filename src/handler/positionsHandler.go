package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tradejournal/src/journal"
	"tradejournal/src/model"
)

type positionService interface {
	TransferPosition(ctx context.Context, actor journal.Actor, positionID, toAccountID uint) (*model.Position, error)
	ListStatusHistory(ctx context.Context, actor journal.Actor, entityType model.EntityType, entityID uint) ([]model.StatusHistoryEntry, error)
}

type transferRequest struct {
	ToAccountID uint `json:"to_account_id"`
}

// TransferPositionHandler moves a position to another account of the user.
func TransferPositionHandler(svc positionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		var req transferRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.ToAccountID == 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "is required", Field: "to_account_id"})
			return
		}

		position, err := svc.TransferPosition(r.Context(), actor, id, req.ToAccountID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, position)
	}
}

// StatusHistoryHandler returns the audit trail of one entity, oldest first.
// The entity type is case-insensitive in the URL.
func StatusHistoryHandler(svc positionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		entityType := model.EntityType(strings.ToUpper(chi.URLParam(r, "entityType")))
		entries, err := svc.ListStatusHistory(r.Context(), actor, entityType, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
