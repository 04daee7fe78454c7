package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"homecmd/config"
	"homecmd/internal/application"
	"homecmd/internal/domain"
	"homecmd/internal/infra/homeassistant"
	"homecmd/internal/infra/logging"
	"homecmd/internal/infra/mqtt"
	"homecmd/internal/infra/pushover"
	"homecmd/internal/resolve"
)

// env is what every subcommand needs before it can handle input.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	vocab  *domain.Vocabulary
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "homecmd",
		Short: "Resolve home-automation utterances into MQTT device commands",
		Long: `homecmd interprets short utterances ("kitchen lights on and volume 50")
or tagged intent trees and publishes one command per request to
ha/<location>/<item> on an MQTT broker.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (built-in defaults when empty)")

	load := func() (*env, error) {
		return loadEnv(configPath)
	}

	root.AddCommand(newServeCmd(load), newResolveCmd(load))
	return root
}

func loadEnv(configPath string) (*env, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format, "homecmd")
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	vocab, err := config.LoadVocabulary(cfg.VocabularyFile)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, vocab: vocab}, nil
}

func (e *env) options() application.Options {
	return application.Options{
		TopicRoot:   e.cfg.MQTT.TopicRoot,
		StatusQuery: e.cfg.MQTT.StatusQuery,
	}
}

func (e *env) resolver() *resolve.Resolver {
	return resolve.New(e.vocab)
}

// connect builds the configured publisher. The returned func releases it.
func (e *env) connect(ctx context.Context) (application.Publisher, func(), error) {
	if e.cfg.Output == "homeassistant" {
		ha := homeassistant.NewClient(e.cfg.HomeAssistant.URL, e.cfg.HomeAssistant.Token, e.logger,
			homeassistant.WithQoS(e.cfg.MQTT.QoS, e.cfg.MQTT.Retained))
		if err := ha.Ping(ctx); err != nil {
			return nil, nil, err
		}
		if e.cfg.MQTT.StatusQuery {
			e.logger.Warn("status query is not available through home assistant")
		}
		return ha, func() {}, nil
	}

	statusTimeout, err := time.ParseDuration(e.cfg.MQTT.StatusTimeout)
	if err != nil {
		e.logger.Warn("invalid status timeout, using default",
			zap.String("value", e.cfg.MQTT.StatusTimeout), zap.Error(err))
		statusTimeout = 5 * time.Second
	}
	bus, err := mqtt.Connect(ctx, e.cfg.MQTT, statusTimeout, e.logger)
	if err != nil {
		return nil, nil, err
	}
	return bus, bus.Close, nil
}

// notifiers returns the configured confirmation channels plus extra.
func (e *env) notifiers(extra application.Notifier) application.Notifier {
	n := application.MultiNotifier{extra}
	if e.cfg.Pushover.Enabled {
		n = append(n, pushover.NewClient(e.cfg.Pushover.Token, e.cfg.Pushover.UserKey,
			pushover.WithLocation(string(e.vocab.DefaultLocation())),
			pushover.WithDevice(e.cfg.Pushover.Device)))
	}
	return n
}
