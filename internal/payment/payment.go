// Package payment confirms with the payment provider that a payment was
// captured before an order is marked paid.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
)

const (
	ProviderStripe = "stripe"
	ProviderManual = "manual"
)

var ErrPaymentNotConfirmed = errors.New("payment not confirmed")

// Verifier confirms a payment for any provider.
type Verifier interface {
	Verify(ctx context.Context, provider, paymentID string, amount decimal.Decimal, currency string) error
}

// ProviderVerifier confirms payments of a single provider.
type ProviderVerifier interface {
	Verify(ctx context.Context, paymentID string, amount decimal.Decimal, currency string) error
}

// Registry dispatches to the verifier registered for a provider. A provider
// without a verifier is accepted only if it was listed as unverified.
type Registry struct {
	providers  map[string]ProviderVerifier
	unverified map[string]bool
}

func NewRegistry(unverified ...string) *Registry {
	r := &Registry{
		providers:  make(map[string]ProviderVerifier),
		unverified: make(map[string]bool, len(unverified)),
	}
	for _, p := range unverified {
		r.unverified[strings.ToLower(p)] = true
	}

	return r
}

func (r *Registry) Register(provider string, v ProviderVerifier) {
	r.providers[strings.ToLower(provider)] = v
}

func (r *Registry) Verify(ctx context.Context, provider, paymentID string, amount decimal.Decimal, currency string) error {
	name := strings.ToLower(provider)
	if v, ok := r.providers[name]; ok {
		return v.Verify(ctx, paymentID, amount, currency)
	}
	if r.unverified[name] {
		return nil
	}

	return fmt.Errorf("no verifier for provider %q: %w", provider, ErrPaymentNotConfirmed)
}

type IntentGetter interface {
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type StripeVerifier struct {
	intents IntentGetter
}

func NewStripeVerifier(secretKey string) *StripeVerifier {
	return &StripeVerifier{
		intents: &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
	}
}

func NewStripeVerifierWithClient(intents IntentGetter) *StripeVerifier {
	return &StripeVerifier{
		intents: intents,
	}
}

// Verify checks that the PaymentIntent exists, succeeded, and charged the
// order amount in the order currency.
func (v *StripeVerifier) Verify(ctx context.Context, paymentID string, amount decimal.Decimal, currency string) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := v.intents.Get(paymentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return fmt.Errorf("%w: payment intent %s not found", ErrPaymentNotConfirmed, paymentID)
		}
		return fmt.Errorf("v.intents.Get -> %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: payment intent status is %s", ErrPaymentNotConfirmed, pi.Status)
	}

	expected := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if pi.Amount != expected {
		return fmt.Errorf("%w: charged %d, expected %d", ErrPaymentNotConfirmed, pi.Amount, expected)
	}
	if !strings.EqualFold(string(pi.Currency), currency) {
		return fmt.Errorf("%w: charged in %s, expected %s", ErrPaymentNotConfirmed, pi.Currency, currency)
	}

	return nil
}
