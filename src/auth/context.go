package auth

import (
	"context"

	"tradejournal/src/model"
)

type contextKey string

const (
	UserKey    contextKey = "user"
	TriggerKey contextKey = "trigger"
)

func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserKey).(*model.User)
	return user, ok
}

// GetTriggerFromContext returns the trigger set by the middleware, MANUAL
// when none was set.
func GetTriggerFromContext(ctx context.Context) model.TriggerType {
	if trigger, ok := ctx.Value(TriggerKey).(model.TriggerType); ok {
		return trigger
	}
	return model.TriggerManual
}
