package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"

	"tradejournal/src/auth"
	"tradejournal/src/journal"
	"tradejournal/src/model"
)

// fakeJournal records the last call and returns err when set.
type fakeJournal struct {
	err error

	actor     journal.Actor
	id        uint
	accountID uint

	createOrder journal.CreateOrderInput
	createTrade journal.CreateTradeInput
	listOrders  journal.ListOrdersInput
	listTrades  journal.ListTradesInput
	patch       journal.PositionPatch
	closeIn     journal.CloseTradeInput
	entityType  model.EntityType
	calls       []string
}

func (f *fakeJournal) called(name string, actor journal.Actor) {
	f.calls = append(f.calls, name)
	f.actor = actor
}

func (f *fakeJournal) CreateOrder(_ context.Context, actor journal.Actor, accountID uint, in journal.CreateOrderInput) (*model.Order, error) {
	f.called("CreateOrder", actor)
	f.accountID, f.createOrder = accountID, in
	if f.err != nil {
		return nil, f.err
	}
	return &model.Order{ID: 1, Status: model.OrderStatusPending}, nil
}

func (f *fakeJournal) GetOrder(_ context.Context, actor journal.Actor, id uint) (*model.Order, error) {
	f.called("GetOrder", actor)
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	return &model.Order{ID: id, Status: model.OrderStatusPending}, nil
}

func (f *fakeJournal) ListOrders(_ context.Context, actor journal.Actor, in journal.ListOrdersInput) ([]model.Order, error) {
	f.called("ListOrders", actor)
	f.listOrders = in
	if f.err != nil {
		return nil, f.err
	}
	return []model.Order{{ID: 2}, {ID: 1}}, nil
}

func (f *fakeJournal) UpdateOrder(_ context.Context, actor journal.Actor, id uint, patch journal.PositionPatch) (*model.Order, error) {
	f.called("UpdateOrder", actor)
	f.id, f.patch = id, patch
	if f.err != nil {
		return nil, f.err
	}
	return &model.Order{ID: id}, nil
}

func (f *fakeJournal) CancelOrder(_ context.Context, actor journal.Actor, id uint) (*model.Order, error) {
	f.called("CancelOrder", actor)
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	return &model.Order{ID: id, Status: model.OrderStatusCancelled}, nil
}

func (f *fakeJournal) ExpireOrder(_ context.Context, actor journal.Actor, id uint) (*model.Order, error) {
	f.called("ExpireOrder", actor)
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	return &model.Order{ID: id, Status: model.OrderStatusExpired}, nil
}

func (f *fakeJournal) ExecuteOrder(_ context.Context, actor journal.Actor, id uint) (*model.Trade, error) {
	f.called("ExecuteOrder", actor)
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	return &model.Trade{ID: 5, SourceOrderID: &id, Status: model.TradeStatusOpen}, nil
}

func (f *fakeJournal) DeleteOrder(_ context.Context, actor journal.Actor, id uint) error {
	f.called("DeleteOrder", actor)
	f.id = id
	return f.err
}

func (f *fakeJournal) CreateTrade(_ context.Context, actor journal.Actor, accountID uint, in journal.CreateTradeInput) (*model.Trade, error) {
	f.called("CreateTrade", actor)
	f.accountID, f.createTrade = accountID, in
	if f.err != nil {
		return nil, f.err
	}
	return &model.Trade{ID: 1, Status: model.TradeStatusOpen}, nil
}

func (f *fakeJournal) GetTrade(_ context.Context, actor journal.Actor, id uint) (*model.Trade, error) {
	f.called("GetTrade", actor)
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	return &model.Trade{ID: id}, nil
}

func (f *fakeJournal) ListTrades(_ context.Context, actor journal.Actor, in journal.ListTradesInput) ([]model.Trade, error) {
	f.called("ListTrades", actor)
	f.listTrades = in
	if f.err != nil {
		return nil, f.err
	}
	return []model.Trade{{ID: 1}}, nil
}

func (f *fakeJournal) ListPartialExits(_ context.Context, actor journal.Actor, tradeID uint) ([]model.PartialExit, error) {
	f.called("ListPartialExits", actor)
	f.id = tradeID
	if f.err != nil {
		return nil, f.err
	}
	return []model.PartialExit{{ID: 1, TradeID: tradeID}}, nil
}

func (f *fakeJournal) UpdateTrade(_ context.Context, actor journal.Actor, id uint, patch journal.PositionPatch) (*model.Trade, error) {
	f.called("UpdateTrade", actor)
	f.id, f.patch = id, patch
	if f.err != nil {
		return nil, f.err
	}
	return &model.Trade{ID: id}, nil
}

func (f *fakeJournal) CloseTrade(_ context.Context, actor journal.Actor, id uint, in journal.CloseTradeInput) (*model.Trade, error) {
	f.called("CloseTrade", actor)
	f.id, f.closeIn = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &model.Trade{ID: id, Status: model.TradeStatusSecured}, nil
}

func (f *fakeJournal) DeleteTrade(_ context.Context, actor journal.Actor, id uint) error {
	f.called("DeleteTrade", actor)
	f.id = id
	return f.err
}

func (f *fakeJournal) TransferPosition(_ context.Context, actor journal.Actor, positionID, toAccountID uint) (*model.Position, error) {
	f.called("TransferPosition", actor)
	f.id, f.accountID = positionID, toAccountID
	if f.err != nil {
		return nil, f.err
	}
	return &model.Position{ID: positionID, AccountID: toAccountID}, nil
}

func (f *fakeJournal) ListStatusHistory(_ context.Context, actor journal.Actor, entityType model.EntityType, entityID uint) ([]model.StatusHistoryEntry, error) {
	f.called("ListStatusHistory", actor)
	f.entityType, f.id = entityType, entityID
	if f.err != nil {
		return nil, f.err
	}
	return []model.StatusHistoryEntry{{ID: 1, EntityType: entityType, EntityID: entityID, NewStatus: "PENDING"}}, nil
}

// serve routes one request through pattern as the given user (0 = anonymous).
func serve(method, pattern, target, body string, userID uint, h http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != 0 {
		req = req.WithContext(context.WithValue(req.Context(), auth.UserKey, &model.User{ID: userID}))
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}
