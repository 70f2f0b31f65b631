package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"tradejournal/cmd/expire"
	"tradejournal/cmd/serve"
	"tradejournal/src/database"
	"tradejournal/src/logging"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "Trade Journal CMD"
	app.Usage = "The trade journal command line interface"
	app.Version = Version
	app.Before = func(_ *cli.Context) error {
		logging.Setup(logging.GetConfig())
		return nil
	}

	app.Commands = []cli.Command{
		serveCMD,
		migrateCMD,
		expireOrdersCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the journal HTTP API",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Migrate the schema and serve the journal API`,
	}
	migrateCMD = cli.Command{
		Name:        "migrate",
		Usage:       "migrate the database schema",
		Action:      migrateAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Create or update every journal table`,
	}
	expireOrdersCMD = cli.Command{
		Name:      "expire-orders",
		Usage:     "expire pending orders past their expiry time",
		Action:    expireOrdersAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.BoolFlag{
				Name:  "loop",
				Usage: "keep sweeping until interrupted",
			},
			cli.DurationFlag{
				Name:  "interval",
				Usage: "sweep period in loop mode (defaults to EXPIRE_LOOP_PERIOD)",
			},
		},
		Description: `Move due PENDING orders to EXPIRED`,
	}
)

func serveAction(_ *cli.Context) error {
	logrus.WithField("cmd", "serve").Info("Starting journal API")
	if err := serve.Start(); err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}
	return nil
}

func migrateAction(_ *cli.Context) error {
	log := logrus.WithField("cmd", "migrate")
	db, err := database.Connect(database.GetConfig())
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.WithError(err).Error("Migration failed")
		return err
	}
	log.Info("Schema up to date")
	return nil
}

func expireOrdersAction(c *cli.Context) error {
	logrus.WithField("cmd", "expire-orders").Info("Starting order expiry")
	e := &expire.Expire{
		Loop:     c.Bool("loop"),
		Interval: c.Duration("interval"),
	}
	if err := e.Start(); err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}
	return nil
}
