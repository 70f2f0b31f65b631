package handler

import (
	"context"
	"net/http"

	"tradejournal/src/journal"
	"tradejournal/src/model"
)

type tradeService interface {
	CreateTrade(ctx context.Context, actor journal.Actor, accountID uint, in journal.CreateTradeInput) (*model.Trade, error)
	GetTrade(ctx context.Context, actor journal.Actor, id uint) (*model.Trade, error)
	ListTrades(ctx context.Context, actor journal.Actor, in journal.ListTradesInput) ([]model.Trade, error)
	ListPartialExits(ctx context.Context, actor journal.Actor, tradeID uint) ([]model.PartialExit, error)
	UpdateTrade(ctx context.Context, actor journal.Actor, id uint, patch journal.PositionPatch) (*model.Trade, error)
	CloseTrade(ctx context.Context, actor journal.Actor, id uint, in journal.CloseTradeInput) (*model.Trade, error)
	DeleteTrade(ctx context.Context, actor journal.Actor, id uint) error
}

// CreateTradeHandler records a trade that is already live.
func CreateTradeHandler(svc tradeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		accountID, ok := idParam(w, r, "accountID")
		if !ok {
			return
		}

		var in journal.CreateTradeInput
		if !decodeJSON(w, r, &in) {
			return
		}

		trade, err := svc.CreateTrade(r.Context(), actor, accountID, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, trade)
	}
}

func GetTradeHandler(svc tradeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		trade, err := svc.GetTrade(r.Context(), actor, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, trade)
	}
}

// SearchTradesHandler lists the trades of the authenticated user.
// Supports pagination and filters (accountId, status, symbol, openedAfter, openedBefore).
func SearchTradesHandler(svc tradeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}

		accountID, ok := optionalUint(w, r, "accountId")
		if !ok {
			return
		}
		openedAfter, ok := optionalTime(w, r, "openedAfter")
		if !ok {
			return
		}
		openedBefore, ok := optionalTime(w, r, "openedBefore")
		if !ok {
			return
		}
		limit, offset, ok := pagination(w, r)
		if !ok {
			return
		}

		in := journal.ListTradesInput{
			AccountID:    accountID,
			Symbol:       optionalString(r, "symbol"),
			OpenedAfter:  openedAfter,
			OpenedBefore: openedBefore,
			Limit:        limit,
			Offset:       offset,
		}
		if v := optionalString(r, "status"); v != nil {
			status := model.TradeStatus(*v)
			in.Status = &status
		}

		trades, err := svc.ListTrades(r.Context(), actor, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, trades)
	}
}

func ListPartialExitsHandler(svc tradeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		exits, err := svc.ListPartialExits(r.Context(), actor, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, exits)
	}
}

func UpdateTradeHandler(svc tradeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		var patch journal.PositionPatch
		if !decodeJSON(w, r, &patch) {
			return
		}

		trade, err := svc.UpdateTrade(r.Context(), actor, id, patch)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, trade)
	}
}

// CloseTradeHandler books one (partial or final) exit.
func CloseTradeHandler(svc tradeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		var in journal.CloseTradeInput
		if !decodeJSON(w, r, &in) {
			return
		}

		trade, err := svc.CloseTrade(r.Context(), actor, id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, trade)
	}
}

func DeleteTradeHandler(svc tradeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.DeleteTrade(r.Context(), actor, id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
