package handler

import (
	"context"
	"net/http"

	"tradejournal/src/journal"
	"tradejournal/src/model"
)

type orderService interface {
	CreateOrder(ctx context.Context, actor journal.Actor, accountID uint, in journal.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, actor journal.Actor, id uint) (*model.Order, error)
	ListOrders(ctx context.Context, actor journal.Actor, in journal.ListOrdersInput) ([]model.Order, error)
	UpdateOrder(ctx context.Context, actor journal.Actor, id uint, patch journal.PositionPatch) (*model.Order, error)
	CancelOrder(ctx context.Context, actor journal.Actor, id uint) (*model.Order, error)
	ExpireOrder(ctx context.Context, actor journal.Actor, id uint) (*model.Order, error)
	ExecuteOrder(ctx context.Context, actor journal.Actor, id uint) (*model.Trade, error)
	DeleteOrder(ctx context.Context, actor journal.Actor, id uint) error
}

// CreateOrderHandler records a PENDING order in the account of the URL.
func CreateOrderHandler(svc orderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		accountID, ok := idParam(w, r, "accountID")
		if !ok {
			return
		}

		var in journal.CreateOrderInput
		if !decodeJSON(w, r, &in) {
			return
		}

		order, err := svc.CreateOrder(r.Context(), actor, accountID, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, order)
	}
}

func GetOrderHandler(svc orderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		order, err := svc.GetOrder(r.Context(), actor, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

// SearchOrdersHandler lists the orders of the authenticated user.
// Supports pagination and filters (accountId, status, symbol, createdAfter, createdBefore).
func SearchOrdersHandler(svc orderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}

		accountID, ok := optionalUint(w, r, "accountId")
		if !ok {
			return
		}
		createdAfter, ok := optionalTime(w, r, "createdAfter")
		if !ok {
			return
		}
		createdBefore, ok := optionalTime(w, r, "createdBefore")
		if !ok {
			return
		}
		limit, offset, ok := pagination(w, r)
		if !ok {
			return
		}

		in := journal.ListOrdersInput{
			AccountID:     accountID,
			Symbol:        optionalString(r, "symbol"),
			CreatedAfter:  createdAfter,
			CreatedBefore: createdBefore,
			Limit:         limit,
			Offset:        offset,
		}
		if v := optionalString(r, "status"); v != nil {
			status := model.OrderStatus(*v)
			in.Status = &status
		}

		orders, err := svc.ListOrders(r.Context(), actor, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

func UpdateOrderHandler(svc orderService) http.HandlerFunc {
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

		order, err := svc.UpdateOrder(r.Context(), actor, id, patch)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

func CancelOrderHandler(svc orderService) http.HandlerFunc {
	return orderTransition(svc.CancelOrder)
}

func ExpireOrderHandler(svc orderService) http.HandlerFunc {
	return orderTransition(svc.ExpireOrder)
}

func orderTransition(apply func(ctx context.Context, actor journal.Actor, id uint) (*model.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		order, err := apply(r.Context(), actor, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

// ExecuteOrderHandler triggers a PENDING order and returns the new trade.
func ExecuteOrderHandler(svc orderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		trade, err := svc.ExecuteOrder(r.Context(), actor, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, trade)
	}
}

func DeleteOrderHandler(svc orderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := idParam(w, r, "id")
		if !ok {
			return
		}

		if err := svc.DeleteOrder(r.Context(), actor, id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
