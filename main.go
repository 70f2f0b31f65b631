package main

import (
	"fmt"
	"os"
	"time"

	logger "github.com/sirupsen/logrus"

	"tradejournal/cmd/serve"
	"tradejournal/src/logging"
)

var APP_NAME = os.Getenv("APP_NAME")

func main() {
	logging.Setup(logging.GetConfig())
	defer handlePanic()

	if err := serve.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start journal API")
	}
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
	}
	//nolint
	time.Sleep(time.Second * 5)
}
