package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"homecmd/internal/infra"
)

const publishPath = "/api/services/mqtt/publish"

// Client relays commands through a Home Assistant instance's mqtt.publish
// service, for installations where only Home Assistant talks to the broker.
// It implements application.Publisher.
type Client struct {
	baseURL    string
	token      string
	qos        byte
	retain     bool
	retry      infra.RetryConfig
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

func WithQoS(qos byte, retain bool) Option {
	return func(c *Client) {
		c.qos = qos
		c.retain = retain
	}
}

func WithRetryConfig(cfg infra.RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

func NewClient(baseURL, token string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		retry:      infra.DefaultRetryConfig(),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type publishRequest struct {
	Topic   string `json:"topic"`
	Payload string `json:"payload"`
	QoS     byte   `json:"qos"`
	Retain  bool   `json:"retain"`
}

func (c *Client) Publish(ctx context.Context, topic, payload string) error {
	body, err := json.Marshal(publishRequest{
		Topic:   topic,
		Payload: payload,
		QoS:     c.qos,
		Retain:  c.retain,
	})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	if _, err := c.doRequest(ctx, http.MethodPost, publishPath, body); err != nil {
		return fmt.Errorf("publishing %s via home assistant: %w", topic, err)
	}
	return nil
}

// Ping checks that the API is reachable and the token is accepted.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/", nil); err != nil {
		return fmt.Errorf("checking home assistant api: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var respBody []byte

	cfg := c.retry
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		c.logger.Warn("home assistant request failed, retrying",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
	}

	retryErr := infra.WithRetry(ctx, cfg, func() error {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return infra.Permanent(fmt.Errorf("creating request: %w", err))
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return infra.Permanent(fmt.Errorf("unauthorized: check your Home Assistant token"))
		case infra.IsRetryableHTTPStatus(resp.StatusCode):
			return fmt.Errorf("home assistant API error %d (retryable): %s", resp.StatusCode, string(respBody))
		case resp.StatusCode >= 400:
			return infra.Permanent(fmt.Errorf("home assistant API error %d: %s", resp.StatusCode, string(respBody)))
		}
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}
	return respBody, nil
}
