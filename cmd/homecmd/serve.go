package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"homecmd/config"
	"homecmd/internal/application"
	"homecmd/internal/infra/inbound"
)

func newServeCmd(load func() (*env, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Accept commands over HTTP or a spool directory and publish them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := load()
			if err != nil {
				return err
			}
			defer e.logger.Sync()
			return serve(cmd.Context(), e)
		},
	}
}

func serve(parent context.Context, e *env) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pub, closePub, err := e.connect(ctx)
	if err != nil {
		return err
	}
	defer closePub()

	logPhrase := application.NotifierFunc(func(_ context.Context, phrase string) error {
		e.logger.Info("confirmation", zap.String("phrase", phrase))
		return nil
	})

	source := createInputSource(e.cfg, e.logger)
	if hs, ok := source.(*inbound.HTTPSource); ok {
		if bus, ok := pub.(interface{ IsConnected() bool }); ok {
			hs.SetBusCheck(bus.IsConnected)
		}
	}

	assistant := application.NewAssistant(
		source,
		e.resolver(),
		pub,
		e.notifiers(logPhrase),
		e.options(),
		e.logger,
	)

	e.logger.Info("starting home command service",
		zap.String("input", e.cfg.Input.Source),
		zap.String("output", e.cfg.Output),
		zap.String("broker", e.cfg.MQTT.Broker),
		zap.Int("priority", application.Priority),
		zap.Strings("keywords", application.Keywords()),
	)

	if err := assistant.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("assistant: %w", err)
	}
	e.logger.Info("shutting down")
	return nil
}

func createInputSource(cfg *config.Config, logger *zap.Logger) application.InputSource {
	switch cfg.Input.Source {
	case "http":
		return inbound.NewHTTPSource(cfg.HTTP.Addr, cfg.HTTP.AuthToken, cfg.HTTP.RatePerMinute, logger)
	case "file":
		return inbound.NewFileSource(cfg.Input.FileDir)
	default:
		logger.Warn("unknown input source, using http", zap.String("source", cfg.Input.Source))
		return inbound.NewHTTPSource(cfg.HTTP.Addr, cfg.HTTP.AuthToken, cfg.HTTP.RatePerMinute, logger)
	}
}
