package xendit

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xendit/xendit-go/v7/invoice"
)

// CreateInvoiceRequest represents the request to create an invoice
type CreateInvoiceRequest struct {
	ExternalID         string
	Amount             decimal.Decimal
	Description        string
	PayerEmail         string
	Currency           string
	InvoiceDuration    int // In seconds
	SuccessRedirectURL string
	FailureRedirectURL string
	Items              []InvoiceItem
	Metadata           map[string]string
}

// InvoiceItem represents an item in the invoice
type InvoiceItem struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// InvoiceResponse represents the response from creating an invoice
type InvoiceResponse struct {
	ID         string
	ExternalID string
	Status     string // PENDING, PAID, SETTLED, EXPIRED
	Amount     float64
	InvoiceURL string
	Currency   string
}

// CreateInvoice creates a new invoice using the official Xendit SDK
func (c *Client) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	currency := req.Currency
	if currency == "" {
		currency = c.currency
	}

	// Convert decimal to float64 for SDK
	amount, _ := req.Amount.Float64()

	// Build SDK request
	sdkReq := *invoice.NewCreateInvoiceRequest(req.ExternalID, amount)

	if req.PayerEmail != "" {
		sdkReq.SetPayerEmail(req.PayerEmail)
	}
	if req.Description != "" {
		sdkReq.SetDescription(req.Description)
	}
	if req.InvoiceDuration > 0 {
		sdkReq.SetInvoiceDuration(float32(req.InvoiceDuration))
	}
	if req.SuccessRedirectURL != "" {
		sdkReq.SetSuccessRedirectUrl(req.SuccessRedirectURL)
	}
	if req.FailureRedirectURL != "" {
		sdkReq.SetFailureRedirectUrl(req.FailureRedirectURL)
	}
	if currency != "" {
		sdkReq.SetCurrency(currency)
	}

	if len(req.Items) > 0 {
		items := make([]invoice.InvoiceItem, len(req.Items))
		for i, item := range req.Items {
			price, _ := item.Price.Float64()
			items[i] = *invoice.NewInvoiceItem(item.Name, float32(price), float32(item.Quantity))
		}
		sdkReq.SetItems(items)
	}

	if len(req.Metadata) > 0 {
		metadata := make(map[string]interface{}, len(req.Metadata))
		for k, v := range req.Metadata {
			metadata[k] = v
		}
		sdkReq.SetMetadata(metadata)
	}

	resp, _, err := c.invoiceAPI.CreateInvoice(ctx).
		CreateInvoiceRequest(sdkReq).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	return toInvoiceResponse(resp), nil
}

// toInvoiceResponse converts SDK Invoice to our InvoiceResponse
func toInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}

	return &InvoiceResponse{
		ID:         inv.GetId(),
		ExternalID: inv.GetExternalId(),
		Status:     string(inv.GetStatus()),
		Amount:     inv.GetAmount(),
		InvoiceURL: inv.GetInvoiceUrl(),
		Currency:   string(inv.GetCurrency()),
	}
}
