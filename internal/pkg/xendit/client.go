package xendit

import (
	"time"

	"github.com/evermoment/evermoment-backend-go/internal/config"
	xenditSDK "github.com/xendit/xendit-go/v7"
	"github.com/xendit/xendit-go/v7/invoice"
)

// Client wraps the official Xendit SDK
type Client struct {
	sdk         *xenditSDK.APIClient
	invoiceAPI  invoice.InvoiceApi
	environment string
	currency    string
	timeout     time.Duration
}

// NewClient creates a new Xendit client using the official SDK
func NewClient(cfg config.XenditConfig) *Client {
	sdk := xenditSDK.NewClient(cfg.APIKey)

	return &Client{
		sdk:         sdk,
		invoiceAPI:  sdk.InvoiceApi,
		environment: cfg.Environment,
		currency:    cfg.Currency,
		timeout:     cfg.Timeout,
	}
}

// IsSandbox returns true if running in sandbox mode
func (c *Client) IsSandbox() bool {
	return c.environment == "sandbox"
}
