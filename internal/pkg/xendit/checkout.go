package xendit

import (
	"context"
	"errors"

	"github.com/evermoment/evermoment-backend-go/internal/domain/payment"
)

// CreateCheckoutSession opens a hosted invoice page for the session request.
func (c *Client) CreateCheckoutSession(ctx context.Context, req payment.CheckoutSessionRequest) (payment.CheckoutSession, error) {
	items := make([]InvoiceItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = InvoiceItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	resp, err := c.CreateInvoice(ctx, CreateInvoiceRequest{
		ExternalID:         req.Reference,
		Amount:             req.Amount,
		Description:        req.Description,
		PayerEmail:         req.CustomerEmail,
		Currency:           req.Currency,
		InvoiceDuration:    int(req.Duration.Seconds()),
		SuccessRedirectURL: req.SuccessURL,
		FailureRedirectURL: req.CancelURL,
		Items:              items,
		Metadata:           req.Metadata.ToMap(),
	})
	if err != nil {
		return payment.CheckoutSession{}, err
	}
	if resp == nil || resp.InvoiceURL == "" {
		return payment.CheckoutSession{}, errors.New("xendit returned no invoice url")
	}

	return payment.CheckoutSession{
		ID:  resp.ID,
		URL: resp.InvoiceURL,
	}, nil
}
