package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"schoolhub/core"
	"schoolhub/core/session"
	"schoolhub/restapi"
	logsvc "schoolhub/services/logger"
	"schoolhub/web"
)

func main() {
	conf, err := core.LoadConfig()
	errAndDie(err)

	// set up services
	var logger core.Logger
	if conf.Rollbar.Token != "" && !conf.Debug {
		std := log.New(os.Stdout, "SCHOOLHUB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewLogrusLogger(conf.Debug)
	}
	logger.Enable(!conf.TestMode)

	validate, translator := core.NewValidator()
	api := restapi.NewClient(conf.Backend.BaseURL, conf.Backend.Timeout)
	sessSvc := session.NewService(api, validate, translator)

	// start the web server
	shutdown := make(chan struct{}, 1)
	app := web.NewServer(&web.Options{
		Conf:       conf,
		Logger:     logger,
		API:        api,
		Sessions:   sessSvc,
		Validate:   validate,
		Translator: translator,
		Shutdown: func() {
			select {
			case shutdown <- struct{}{}:
			default:
			}
		},
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", map[string]interface{}{"addr": conf.Server.Addr, "env": conf.Env})
		serverErrors <- app.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("server error", err)
	case <-shutdown:
		logger.Error("unrecoverable error, shutting down")
		stop(app, conf, logger)
	case sig := <-quit:
		logger.Info("shutdown started", map[string]interface{}{"signal": sig.String()})
		stop(app, conf, logger)
	}
}

func stop(app web.Server, conf *core.Config, logger core.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Fatal("graceful shutdown failed", err)
	}
	logger.Info("shutdown complete")
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
