package mqtt

import (
	"context"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"homecmd/config"
	"homecmd/internal/application"
	"homecmd/internal/infra"
)

const (
	defaultStatusTimeout = 5 * time.Second
	disconnectQuiesce    = 250 // ms
)

type Options struct {
	QoS      byte
	Retained bool
	// StatusTimeout bounds the wait in PublishAwaitStatus.
	StatusTimeout time.Duration
}

// Client publishes device commands to an MQTT broker. It implements
// application.StatusPublisher.
type Client struct {
	client paho.Client
	opts   Options
	logger *zap.Logger
}

// New wraps an already configured paho client.
func New(client paho.Client, opts Options, logger *zap.Logger) *Client {
	if opts.StatusTimeout <= 0 {
		opts.StatusTimeout = defaultStatusTimeout
	}
	return &Client{client: client, opts: opts, logger: logger}
}

// Connect dials the broker described by cfg, retrying with backoff.
func Connect(ctx context.Context, cfg config.MQTTConfig, statusTimeout time.Duration, logger *zap.Logger) (*Client, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID(cfg.ClientID))
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn("mqtt connection lost", zap.Error(err))
	})

	client := paho.NewClient(opts)

	retry := infra.DefaultRetryConfig()
	if cfg.ConnectRetries > 0 {
		retry.MaxAttempts = cfg.ConnectRetries
	}
	retry.OnRetry = func(attempt int, delay time.Duration, err error) {
		logger.Warn("mqtt connect failed, retrying",
			zap.String("broker", cfg.Broker),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}

	err := infra.WithRetry(ctx, retry, func() error {
		return wait(ctx, client.Connect())
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to mqtt broker %s: %w", cfg.Broker, err)
	}

	logger.Info("connected to mqtt broker", zap.String("broker", cfg.Broker))

	return New(client, Options{
		QoS:           cfg.QoS,
		Retained:      cfg.Retained,
		StatusTimeout: statusTimeout,
	}, logger), nil
}

// clientID keeps the configured prefix recognisable on the broker while
// letting several processes connect at once.
func clientID(prefix string) string {
	suffix := uuid.NewString()[:8]
	if prefix == "" {
		return "homecmd-" + suffix
	}
	return prefix + "-" + suffix
}

func (c *Client) Publish(ctx context.Context, topic, payload string) error {
	if err := wait(ctx, c.client.Publish(topic, c.opts.QoS, c.opts.Retained, payload)); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	c.logger.Debug("published", zap.String("topic", topic), zap.String("payload", payload))
	return nil
}

// PublishAwaitStatus subscribes to statusTopic, publishes the command and
// returns the first status message. It returns application.ErrStatusTimeout
// when nothing arrives within the configured timeout.
func (c *Client) PublishAwaitStatus(ctx context.Context, topic, payload, statusTopic string) (string, error) {
	replies := make(chan string, 1)
	handler := func(_ paho.Client, msg paho.Message) {
		select {
		case replies <- string(msg.Payload()):
		default:
		}
	}

	if err := wait(ctx, c.client.Subscribe(statusTopic, c.opts.QoS, handler)); err != nil {
		return "", fmt.Errorf("subscribing to %s: %w", statusTopic, err)
	}
	defer func() {
		unsubCtx, cancel := context.WithTimeout(context.Background(), c.opts.StatusTimeout)
		defer cancel()
		if err := wait(unsubCtx, c.client.Unsubscribe(statusTopic)); err != nil {
			c.logger.Warn("unsubscribing", zap.String("topic", statusTopic), zap.Error(err))
		}
	}()

	if err := c.Publish(ctx, topic, payload); err != nil {
		return "", err
	}

	timer := time.NewTimer(c.opts.StatusTimeout)
	defer timer.Stop()

	select {
	case status := <-replies:
		return status, nil
	case <-timer.C:
		return "", application.ErrStatusTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Client) Close() {
	c.client.Disconnect(disconnectQuiesce)
}

func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

func wait(ctx context.Context, token paho.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
