package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattackal/family-onboarding/internal/server"
	"github.com/mattackal/family-onboarding/modules/onboarding"
	"github.com/mattackal/family-onboarding/pkg/application"
	"github.com/mattackal/family-onboarding/pkg/configuration"
	"github.com/mattackal/family-onboarding/pkg/eventbus"
	"github.com/mattackal/family-onboarding/pkg/logging"
)

func main() {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	if conf.OpenTelemetry.Enabled {
		shutdown := logging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.Endpoint,
		)
		defer shutdown()
	}

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := application.Load(app, onboarding.NewModule()); err != nil {
		logger.WithError(err).Fatal("failed to load modules")
	}

	httpServer := server.Default(app, conf)

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		conf.Unload()
		os.Exit(0)
	}()

	logger.WithField("address", conf.SocketAddress).Info("starting server")
	if err := httpServer.Start(conf.SocketAddress); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
