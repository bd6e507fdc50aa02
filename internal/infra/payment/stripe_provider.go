package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pizzeria/internal/usecase"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	WebhookSecret  string
	Timeout        time.Duration
	Currency       string

	// APIURL overrides the Stripe API base URL.
	APIURL string
}

// StripeProvider implements usecase.PaymentProvider. With no secret key
// every remote call fails with ErrProviderUnavailable.
type StripeProvider struct {
	api            *client.API
	publishableKey string
	webhookSecret  string
	currency       string
}

var _ usecase.PaymentProvider = (*StripeProvider)(nil)

func NewStripeProvider(cfg StripeConfig) *StripeProvider {
	p := &StripeProvider{
		publishableKey: cfg.PublishableKey,
		webhookSecret:  cfg.WebhookSecret,
		currency:       cfg.Currency,
	}
	if p.currency == "" {
		p.currency = string(stripe.CurrencyUSD)
	}
	if cfg.SecretKey == "" {
		return p
	}

	// no client-side retries: a failed create must surface to the caller
	bc := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if cfg.APIURL != "" {
		bc.URL = stripe.String(cfg.APIURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, bc)
	p.api = &client.API{}
	p.api.Init(cfg.SecretKey, &stripe.Backends{API: backend, Uploads: backend})
	return p
}

func (p *StripeProvider) PublishableKey() string { return p.publishableKey }

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, amountCents int64, md usecase.IntentMetadata) (usecase.PaymentIntent, error) {
	if p.api == nil {
		return usecase.PaymentIntent{}, usecase.ErrProviderUnavailable
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(p.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", strconv.FormatInt(md.OrderID, 10))
	params.AddMetadata("store_id", strconv.FormatInt(md.StoreID, 10))
	if md.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(md.ReceiptEmail)
	}
	if md.IdempotencyKey != "" {
		params.SetIdempotencyKey(md.IdempotencyKey)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return usecase.PaymentIntent{}, classify("create payment intent", err)
	}
	return toIntent(pi), nil
}

func (p *StripeProvider) RetrievePaymentIntent(ctx context.Context, intentID string) (usecase.PaymentIntent, error) {
	if p.api == nil {
		return usecase.PaymentIntent{}, usecase.ErrProviderUnavailable
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return usecase.PaymentIntent{}, classify("retrieve payment intent", err)
	}
	return toIntent(pi), nil
}

func (p *StripeProvider) CancelPaymentIntent(ctx context.Context, intentID string) error {
	if p.api == nil {
		return usecase.ErrProviderUnavailable
	}
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := p.api.PaymentIntents.Cancel(intentID, params); err != nil {
		return classify("cancel payment intent", err)
	}
	return nil
}

func (p *StripeProvider) PaymentMethodType(ctx context.Context, paymentMethodID string) (string, error) {
	if p.api == nil {
		return "", usecase.ErrProviderUnavailable
	}
	params := &stripe.PaymentMethodParams{}
	params.Context = ctx

	pm, err := p.api.PaymentMethods.Get(paymentMethodID, params)
	if err != nil {
		return "", classify("retrieve payment method", err)
	}
	return string(pm.Type), nil
}

func (p *StripeProvider) VerifyWebhook(payload []byte, signatureHeader string) (usecase.WebhookEvent, error) {
	if p.webhookSecret == "" {
		return usecase.WebhookEvent{}, usecase.ErrProviderUnavailable
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signatureHeader, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return usecase.WebhookEvent{}, fmt.Errorf("%w: %v", usecase.ErrInvalidSignature, err)
	}

	out := usecase.WebhookEvent{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data == nil || len(ev.Data.Raw) == 0 {
		return out, nil
	}
	if out.Type != usecase.EventPaymentSucceeded && out.Type != usecase.EventPaymentFailed {
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return usecase.WebhookEvent{}, fmt.Errorf("%w: decode payment intent: %v", usecase.ErrMalformedEvent, err)
	}
	out.PaymentIntentID = pi.ID
	if pi.PaymentMethod != nil {
		out.PaymentMethodID = pi.PaymentMethod.ID
	}
	return out, nil
}

func toIntent(pi *stripe.PaymentIntent) usecase.PaymentIntent {
	return usecase.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}
}

// classify separates API answers from transport failures.
func classify(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.HTTPStatusCode < http.StatusInternalServerError {
		return fmt.Errorf("%s: %w: %s", op, usecase.ErrProviderRejected, se.Msg)
	}
	return fmt.Errorf("%s: %w: %v", op, usecase.ErrProviderUnavailable, err)
}
