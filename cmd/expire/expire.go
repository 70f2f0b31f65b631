package expire

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"tradejournal/cmd/serve"
	"tradejournal/src/database"
	"tradejournal/src/sweeper"
)

type Expire struct {
	Loop     bool
	Interval time.Duration
}

func (e *Expire) Start() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	db, engine, err := serve.Open(false)
	if err != nil {
		logrus.WithError(err).Error("Failed to connect to database")
		return err
	}
	defer database.Close(db)

	if !e.Loop {
		_, err := sweeper.RunOnce(ctx, engine, time.Now().UTC())
		return err
	}

	period := e.Interval
	if period <= 0 {
		period = sweeper.GetConfig().LoopPeriod
	}
	logrus.WithField("period", period).Info("Starting order expiry loop")
	return sweeper.StartLoop(ctx, engine, period)
}
