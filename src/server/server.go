package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/auth"
	"tradejournal/src/handler"
	"tradejournal/src/journal"
	"tradejournal/src/model"
)

type userFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// NewRouter wires every journal route behind the acting-user middleware.
func NewRouter(engine *journal.Engine, users userFinder, config *Config) http.Handler {
	r := chi.NewRouter()

	// === Global Middleware ===
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("healthcheck write failed")
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(users, config.UserHeader, config.TriggerHeader))

		r.Post("/accounts/{accountID}/orders", handler.CreateOrderHandler(engine))
		r.Post("/accounts/{accountID}/trades", handler.CreateTradeHandler(engine))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", handler.SearchOrdersHandler(engine))
			r.Get("/{id}", handler.GetOrderHandler(engine))
			r.Patch("/{id}", handler.UpdateOrderHandler(engine))
			r.Delete("/{id}", handler.DeleteOrderHandler(engine))
			r.Post("/{id}/cancel", handler.CancelOrderHandler(engine))
			r.Post("/{id}/expire", handler.ExpireOrderHandler(engine))
			r.Post("/{id}/execute", handler.ExecuteOrderHandler(engine))
		})

		r.Route("/trades", func(r chi.Router) {
			r.Get("/", handler.SearchTradesHandler(engine))
			r.Get("/{id}", handler.GetTradeHandler(engine))
			r.Patch("/{id}", handler.UpdateTradeHandler(engine))
			r.Delete("/{id}", handler.DeleteTradeHandler(engine))
			r.Post("/{id}/close", handler.CloseTradeHandler(engine))
			r.Get("/{id}/exits", handler.ListPartialExitsHandler(engine))
		})

		r.Post("/positions/{id}/transfer", handler.TransferPositionHandler(engine))
		r.Get("/history/{entityType}/{id}", handler.StatusHistoryHandler(engine))
	})

	return r
}

// StartServer serves h until SIGINT or SIGTERM, then drains in-flight
// requests for at most config.ShutdownTimeout.
func StartServer(config *Config, h http.Handler) {
	addr := ":" + config.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: h,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
