package payment

import (
	"context"

	"website-audit/internal/common/logger"
	"website-audit/internal/providers/stripe"
)

type Input struct {
	Email string `json:"email"`
	URL   string `json:"url"`
	// Amount is accepted from the form for display purposes but the charged
	// amount always comes from configuration.
	Amount int `json:"amount,omitempty"`
}

type Output struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CheckoutProvider is the slice of the Stripe client the service uses.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutParams) (*stripe.CheckoutSession, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
}
