// Package payment creates card payment intents with Stripe.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/sngm3741/survey-services/api/internal/apperr"
)

var (
	// ErrDisabled is returned when no Stripe key is configured.
	ErrDisabled = fmt.Errorf("payments are not configured: %w", apperr.ErrUnavailable)
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = fmt.Errorf("payment provider: %w", apperr.ErrUnavailable)
)

// BreakerSettings tunes the circuit breaker in front of Stripe.
type BreakerSettings struct {
	MaxFailures uint32
	Timeout     time.Duration
}

// DefaultBreakerSettings trips after 5 consecutive failures and probes again after 30s.
var DefaultBreakerSettings = BreakerSettings{MaxFailures: 5, Timeout: 30 * time.Second}

type createIntentFunc func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)

// StripeGateway creates card payment intents in one currency.
type StripeGateway struct {
	create   createIntentFunc
	currency string
	breaker  *gobreaker.CircuitBreaker[*stripe.PaymentIntent]
	logger   zerolog.Logger
}

// NewStripeGateway builds a gateway for secretKey.
func NewStripeGateway(secretKey, currency string, settings BreakerSettings, logger zerolog.Logger) *StripeGateway {
	sc := client.New(secretKey, nil)
	return newGateway(sc.PaymentIntents.New, currency, settings, logger)
}

func newGateway(create createIntentFunc, currency string, settings BreakerSettings, logger zerolog.Logger) *StripeGateway {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	if settings.MaxFailures == 0 {
		settings.MaxFailures = DefaultBreakerSettings.MaxFailures
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultBreakerSettings.Timeout
	}

	g := &StripeGateway{create: create, currency: currency, logger: logger}
	g.breaker = gobreaker.NewCircuitBreaker[*stripe.PaymentIntent](gobreaker.Settings{
		Name:        "stripe-payment-intents",
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("payment circuit breaker state changed")
		},
	})
	return g
}

// CreateIntent creates a card intent for amount minor units and returns its client secret.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(g.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := g.breaker.Execute(func() (*stripe.PaymentIntent, error) {
		return g.create(params)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

// DisabledGateway is used when no Stripe key is configured.
type DisabledGateway struct{}

func (DisabledGateway) CreateIntent(context.Context, int64) (string, error) {
	return "", ErrDisabled
}
