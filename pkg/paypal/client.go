package paypal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	paypalsdk "github.com/plutov/paypal/v4"

	"github.com/ezzshop/ezzshop-backend/pkg/config"
	"github.com/ezzshop/ezzshop-backend/pkg/logger"
)

var errCredentialsRequired = errors.New("paypal client id and secret are required")

// Client wraps the PayPal REST client with env-specific metadata.
type Client struct {
	api      *paypalsdk.Client
	live     bool
	currency string
}

// NewClient initializes the PayPal SDK against the configured environment
// and verifies the credentials by fetching an access token.
func NewClient(ctx context.Context, cfg config.PayPalConfig, logg *logger.Logger) (*Client, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	secret := strings.TrimSpace(cfg.Secret)
	if clientID == "" || secret == "" {
		return nil, errCredentialsRequired
	}

	base := paypalsdk.APIBaseSandBox
	if cfg.IsLive() {
		base = paypalsdk.APIBaseLive
	}

	api, err := paypalsdk.NewClient(clientID, secret, base)
	if err != nil {
		return nil, fmt.Errorf("creating paypal client: %w", err)
	}
	if _, err := api.GetAccessToken(ctx); err != nil {
		return nil, fmt.Errorf("paypal credentials rejected: %w", err)
	}

	if logg != nil {
		env := "sandbox"
		if cfg.IsLive() {
			env = "live"
		}
		logg.Info(ctx, fmt.Sprintf("paypal client initialized (%s)", env))
	}

	return &Client{
		api:      api,
		live:     cfg.IsLive(),
		currency: strings.ToUpper(strings.TrimSpace(cfg.Currency)),
	}, nil
}

// API returns the underlying PayPal REST client.
func (c *Client) API() *paypalsdk.Client {
	if c == nil {
		return nil
	}
	return c.api
}

// Currency returns the configured charge currency (uppercase ISO code).
func (c *Client) Currency() string {
	if c == nil {
		return ""
	}
	return c.currency
}

// IsLive reports whether the client targets the live endpoint.
func (c *Client) IsLive() bool {
	return c != nil && c.live
}
