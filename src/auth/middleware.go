package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"tradejournal/src/model"
)

type userFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// RequireUser resolves the acting user from userHeader and rejects the
// request with 401 when it is missing or unknown. Identity is issued
// upstream; this only maps it onto a stored user.
//
// triggerHeader optionally names the channel (WEBHOOK, BROKER_API, ...).
func RequireUser(users userFinder, userHeader, triggerHeader string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(userHeader))
			id, err := strconv.ParseUint(raw, 10, 64)
			if raw == "" || err != nil || id == 0 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := users.FindByID(r.Context(), uint(id))
			if err != nil {
				logger.WithError(err).Error("failed to resolve acting user")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				logger.WithField("user_id", id).Warn("unknown acting user")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			trigger := model.TriggerManual
			if v := strings.ToUpper(strings.TrimSpace(r.Header.Get(triggerHeader))); v != "" {
				trigger = model.TriggerType(v)
				if !trigger.Valid() || trigger == model.TriggerSystem {
					http.Error(w, "invalid "+triggerHeader, http.StatusBadRequest)
					return
				}
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			ctx = context.WithValue(ctx, TriggerKey, trigger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
