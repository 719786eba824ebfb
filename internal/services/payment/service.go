package payment

import (
	"context"
	"strings"

	"website-audit/internal/common/errors"
	"website-audit/internal/common/logger"
	"website-audit/internal/providers/stripe"
)

const productName = "Detailed Website Audit Report"

type Service struct {
	config   *Config
	logger   logger.Logger
	checkout CheckoutProvider
}

func NewService(deps ServiceDependencies, config *Config, checkout CheckoutProvider) *Service {
	return &Service{
		config:   config,
		logger:   deps.Logger,
		checkout: checkout,
	}
}

// NewServiceWithClient wires the real Stripe client from config.
func NewServiceWithClient(deps ServiceDependencies, config *Config) *Service {
	client := stripe.NewClient(config.StripeSecretKey, config.StripeBaseURL, config.StripeTimeout)
	return NewService(deps, config, client)
}

// Execute creates one checkout session per call. The email/URL pairing lives
// in provider-side metadata, not local storage. No idempotency key is used,
// so a repeated submission creates a fresh session.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, errors.NewValidationError("Missing required field: email", "")
	}
	if strings.TrimSpace(input.URL) == "" {
		return nil, errors.NewValidationError("Missing required field: url", "")
	}
	if s.config.StripeSecretKey == "" {
		return nil, errors.NewConfigMissingError("STRIPE_SECRET_KEY")
	}

	s.logger.Info("Creating checkout session", map[string]interface{}{
		"email": input.Email,
		"url":   input.URL,
	})

	session, err := s.checkout.CreateCheckoutSession(ctx, &stripe.CheckoutParams{
		Email:       input.Email,
		WebsiteURL:  input.URL,
		AmountCents: s.config.ReportPriceCents,
		Currency:    s.config.Currency,
		ProductName: productName,
		SuccessURL:  s.config.SuccessURL,
		CancelURL:   s.config.CancelURL,
	})
	if err != nil {
		return nil, errors.NewPaymentFailedError(err)
	}

	s.logger.Info("Checkout session created", map[string]interface{}{
		"sessionId": session.ID,
		"email":     input.Email,
	})

	return &Output{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}
