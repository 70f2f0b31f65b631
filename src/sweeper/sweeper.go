package sweeper

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
)

type orderExpirer interface {
	ExpireDueOrders(ctx context.Context, now time.Time) (int, error)
}

// RunOnce expires every order due at now.
func RunOnce(ctx context.Context, expirer orderExpirer, now time.Time) (int, error) {
	n, err := expirer.ExpireDueOrders(ctx, now)
	if err != nil {
		logger.WithError(err).WithField("expired", n).Error("Expiry sweep failed")
		return n, err
	}
	logger.WithFields(logger.Fields{
		"expired": n,
		"now":     now.Format(time.RFC3339),
	}).Info("Expiry sweep done")
	return n, nil
}

// StartLoop sweeps every period until ctx is cancelled. A failed sweep is
// logged and retried on the next tick.
func StartLoop(ctx context.Context, expirer orderExpirer, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("expiry loop stopped")
			return nil

		case <-ticker.C:
			logger.Debug("expiry loop tick")
			_, _ = RunOnce(ctx, expirer, time.Now().UTC())
		}
	}
}
