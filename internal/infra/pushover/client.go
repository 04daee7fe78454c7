package pushover

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"homecmd/internal/application"
)

const (
	defaultURL   = "https://api.pushover.net/1/messages.json"
	defaultTitle = "Home commands"
	maxMessage   = 1024

	priorityQuiet  = -1
	priorityNormal = 0
)

// Client delivers confirmation phrases as push notifications. It implements
// application.Notifier. Confirmations arrive silently; the could-not-understand
// reply alerts at normal priority.
type Client struct {
	token      string
	userKey    string
	url        string
	title      string
	device     string
	httpClient *http.Client
}

type Option func(*Client)

// WithURL overrides the API endpoint.
func WithURL(endpoint string) Option {
	return func(c *Client) { c.url = endpoint }
}

// WithLocation names the speaker's default location in the title, so
// several installations can share one Pushover account.
func WithLocation(location string) Option {
	return func(c *Client) {
		if location != "" {
			c.title = defaultTitle + " (" + location + ")"
		}
	}
}

// WithDevice limits delivery to one registered device.
func WithDevice(device string) Option {
	return func(c *Client) { c.device = device }
}

func NewClient(token, userKey string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		userKey:    userKey,
		url:        defaultURL,
		title:      defaultTitle,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Notify(ctx context.Context, message string) error {
	if c.token == "" || c.userKey == "" {
		return nil
	}

	priority := priorityQuiet
	if message == application.BadParseMessage {
		priority = priorityNormal
	}
	if len(message) > maxMessage {
		message = message[:maxMessage]
	}

	data := url.Values{}
	data.Set("token", c.token)
	data.Set("user", c.userKey)
	data.Set("message", message)
	data.Set("title", c.title)
	data.Set("priority", strconv.Itoa(priority))
	if c.device != "" {
		data.Set("device", c.device)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushover error: %s", resp.Status)
	}

	return nil
}
