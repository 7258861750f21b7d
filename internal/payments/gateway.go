package payments

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Intent is the gateway-issued payment intent reference.
type Intent struct {
	ID       string
	Amount   int64
	Currency string
}

// Gateway requests payment intents from the external payment provider.
// Amounts are in minor currency units (paise for INR).
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency, receipt string) (Intent, error)
}

// RazorpayGateway is a Gateway backed by the Razorpay Orders API.
type RazorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway builds a gateway from API credentials.
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateIntent creates a Razorpay order referencing receipt.
func (g *RazorpayGateway) CreateIntent(_ context.Context, amountMinorUnits int64, currency, receipt string) (Intent, error) {
	body := map[string]interface{}{
		"amount":   amountMinorUnits,
		"currency": currency,
		"receipt":  receipt,
	}
	res, err := g.client.Order.Create(body, nil)
	if err != nil {
		return Intent{}, fmt.Errorf("create razorpay order: %w", err)
	}

	id, ok := res["id"].(string)
	if !ok || id == "" {
		return Intent{}, fmt.Errorf("razorpay order response missing id")
	}
	return Intent{ID: id, Amount: amountMinorUnits, Currency: currency}, nil
}
