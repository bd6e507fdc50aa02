package usecase

import (
	"context"
	"errors"
	"fmt"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/logger"
	"pizzeria/internal/metrics"
	repo "pizzeria/internal/repository"
)

// PaymentUsecase bridges orders and the payment provider. Remote calls are
// never made while a transaction is open.
type PaymentUsecase struct {
	tx       repo.TransactionManager
	provider PaymentProvider
	dedup    WebhookDeduper
	clock    Clock
}

func NewPaymentUsecase(tx repo.TransactionManager, provider PaymentProvider, dedup WebhookDeduper, clock Clock) *PaymentUsecase {
	if dedup == nil {
		dedup = NoopDeduper{}
	}
	return &PaymentUsecase{tx: tx, provider: provider, dedup: dedup, clock: clock}
}

type IntentOutput struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	AmountCents     int64  `json:"amount"`
}

type PaymentConfigOutput struct {
	PublishableKey string `json:"publishable_key"`
}

func (u *PaymentUsecase) Config() PaymentConfigOutput {
	return PaymentConfigOutput{PublishableKey: u.provider.PublishableKey()}
}

// CreateIntent returns a live intent for the order, reusing the stored one
// while the provider still waits for payment on it.
func (u *PaymentUsecase) CreateIntent(ctx context.Context, orderID int64, actingUserID int64) (IntentOutput, error) {
	out, result, err := u.createIntent(ctx, orderID, actingUserID)
	if err != nil {
		result = string(KindOf(err))
	}
	metrics.PaymentIntents.WithLabelValues(result).Inc()
	return out, err
}

func (u *PaymentUsecase) createIntent(ctx context.Context, orderID int64, actingUserID int64) (IntentOutput, string, error) {
	var o model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		o, err = r.Orders().FindByID(ctx, orderID)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return IntentOutput{}, "", errOrderNotFound
	}
	if err != nil {
		return IntentOutput{}, "", internal("load order", err)
	}
	if o.UserID == nil || *o.UserID != actingUserID {
		return IntentOutput{}, "", errOrderNotFound
	}
	if o.StoreID == nil {
		return IntentOutput{}, "", NewError(KindOrderHasNoStore, "order has no store")
	}

	if o.PaymentStatus == model.PaymentStatusPaid {
		return IntentOutput{}, "", NewError(KindAlreadyPaid, "order is already paid")
	}

	amount := o.AmountCents()
	if amount <= 0 {
		return IntentOutput{}, "", NewError(KindZeroAmount, "order total must be greater than zero")
	}

	log := logger.WithCtx(ctx)

	if o.PaymentIntentID != nil && *o.PaymentIntentID != "" && o.PaymentStatus == model.PaymentStatusPending {
		pi, err := u.provider.RetrievePaymentIntent(ctx, *o.PaymentIntentID)
		switch {
		case err == nil:
			switch pi.Status {
			case IntentRequiresPaymentMethod, IntentRequiresConfirmation, IntentRequiresAction:
				return IntentOutput{ClientSecret: pi.ClientSecret, PaymentIntentID: pi.ID, AmountCents: amount}, "reused", nil
			case IntentSucceeded:
				return IntentOutput{}, "", NewError(KindAlreadyPaid, "order is already paid")
			}
			// canceled or processing: start over with a fresh intent
		case errors.Is(err, ErrProviderUnavailable):
			return IntentOutput{}, "", providerError(err)
		default:
			log.Warn("could not retrieve existing payment intent, creating a new one",
				"order_id", o.ID, "payment_intent_id", *o.PaymentIntentID, "err", err)
		}
	}

	email := ""
	if payload, err := o.Payload(); err == nil {
		email = payload.Delivery.Email
	}

	prior := ""
	if o.PaymentIntentID != nil {
		prior = *o.PaymentIntentID
	}

	pi, err := u.provider.CreatePaymentIntent(ctx, amount, IntentMetadata{
		OrderID:        o.ID,
		StoreID:        *o.StoreID,
		ReceiptEmail:   email,
		IdempotencyKey: intentIdempotencyKey(o.ID, prior),
	})
	if err != nil {
		log.Warn("payment intent creation failed", "order_id", o.ID, "err", err)
		return IntentOutput{}, "", providerError(err)
	}

	var (
		swapped bool
		current model.Order
	)
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		swapped, err = r.Orders().SwapPaymentIntent(ctx, o.ID, prior, pi.ID, u.clock.Now())
		if err != nil || swapped {
			return err
		}
		current, err = r.Orders().FindByID(ctx, o.ID)
		return err
	})
	if err != nil {
		return IntentOutput{}, "", internal("store payment intent", err)
	}

	if swapped || (current.PaymentIntentID != nil && *current.PaymentIntentID == pi.ID) {
		log.Info("payment intent created", "order_id", o.ID, "payment_intent_id", pi.ID, "amount", amount)
		return IntentOutput{ClientSecret: pi.ClientSecret, PaymentIntentID: pi.ID, AmountCents: amount}, "created", nil
	}
	return u.adoptStoredIntent(ctx, current, pi.ID, amount)
}

// adoptStoredIntent runs when a concurrent request stored its intent first.
// The intent created here is canceled so only the stored one can be paid.
func (u *PaymentUsecase) adoptStoredIntent(ctx context.Context, current model.Order, lostID string, amount int64) (IntentOutput, string, error) {
	log := logger.WithCtx(ctx)
	if err := u.provider.CancelPaymentIntent(ctx, lostID); err != nil {
		log.Warn("could not cancel superseded payment intent",
			"order_id", current.ID, "payment_intent_id", lostID, "err", err)
	}

	if current.PaymentStatus == model.PaymentStatusPaid {
		return IntentOutput{}, "", NewError(KindAlreadyPaid, "order is already paid")
	}
	if current.PaymentIntentID == nil || *current.PaymentIntentID == "" {
		return IntentOutput{}, "", internal("store payment intent", fmt.Errorf("order %d lost its intent", current.ID))
	}

	pi, err := u.provider.RetrievePaymentIntent(ctx, *current.PaymentIntentID)
	if err != nil {
		return IntentOutput{}, "", providerError(err)
	}
	log.Info("payment intent reused after concurrent create", "order_id", current.ID, "payment_intent_id", pi.ID)
	return IntentOutput{ClientSecret: pi.ClientSecret, PaymentIntentID: pi.ID, AmountCents: amount}, "reused", nil
}

// intentIdempotencyKey is stable per order and per intent generation.
func intentIdempotencyKey(orderID int64, prior string) string {
	if prior == "" {
		prior = "none"
	}
	return fmt.Sprintf("order-%d-after-%s", orderID, prior)
}

// HandleWebhook verifies and applies one provider event. Unknown event types
// and unknown intents are acknowledged without changes.
func (u *PaymentUsecase) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	ev, err := u.provider.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			metrics.WebhookEvents.WithLabelValues("unknown", "invalid_signature").Inc()
			return NewError(KindInvalidSignature, "invalid signature")
		}
		if errors.Is(err, ErrMalformedEvent) {
			metrics.WebhookEvents.WithLabelValues("unknown", "malformed").Inc()
			return &Error{Kind: KindValidation, Message: "malformed event", Cause: err}
		}
		return providerError(err)
	}

	log := logger.WithCtx(ctx).With("event_id", ev.ID, "event_type", ev.Type)

	if ev.Type != EventPaymentSucceeded && ev.Type != EventPaymentFailed {
		metrics.WebhookEvents.WithLabelValues(ev.Type, "ignored").Inc()
		return nil
	}

	first, err := u.dedup.Claim(ctx, ev.ID)
	if err != nil {
		log.Warn("webhook dedup unavailable", "err", err)
		first = true
	}
	if !first {
		metrics.WebhookEvents.WithLabelValues(ev.Type, "duplicate").Inc()
		return nil
	}

	result, err := u.applyEvent(ctx, ev)
	if err != nil {
		if rerr := u.dedup.Release(ctx, ev.ID); rerr != nil {
			log.Warn("webhook dedup release failed", "err", rerr)
		}
		metrics.WebhookEvents.WithLabelValues(ev.Type, "error").Inc()
		return err
	}
	metrics.WebhookEvents.WithLabelValues(ev.Type, result).Inc()
	log.Info("payment webhook handled", "payment_intent_id", ev.PaymentIntentID, "result", result)
	return nil
}

func (u *PaymentUsecase) applyEvent(ctx context.Context, ev WebhookEvent) (string, error) {
	if ev.PaymentIntentID == "" {
		return "no_intent", nil
	}

	method := ""
	if ev.Type == EventPaymentSucceeded {
		method = u.paymentMethodType(ctx, ev.PaymentMethodID)
	}

	result := "applied"
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByPaymentIntentIDForUpdate(ctx, ev.PaymentIntentID)
		if errors.Is(err, repo.ErrNotFound) {
			result = "unknown_intent"
			return nil
		}
		if err != nil {
			return err
		}

		now := u.clock.Now()
		if ev.Type == EventPaymentSucceeded {
			return ApplyPaymentConfirmation(ctx, r, o, method, now)
		}
		return r.Orders().SetPaymentStatus(ctx, o.ID, model.PaymentStatusFailed, now)
	})
	if err != nil {
		return "", internal("apply payment event", err)
	}
	return result, nil
}

// paymentMethodType falls back to "card" when the provider cannot tell;
// the payment itself already succeeded.
func (u *PaymentUsecase) paymentMethodType(ctx context.Context, paymentMethodID string) string {
	if paymentMethodID == "" {
		return "card"
	}
	t, err := u.provider.PaymentMethodType(ctx, paymentMethodID)
	if err != nil || t == "" {
		logger.WithCtx(ctx).Warn("payment method lookup failed, recording card",
			"payment_method_id", paymentMethodID, "err", err)
		return "card"
	}
	return t
}

func providerError(err error) error {
	switch {
	case errors.Is(err, ErrProviderRejected):
		return &Error{Kind: KindPaymentRejected, Message: "payment provider rejected the request", Cause: err}
	case errors.Is(err, ErrProviderUnavailable):
		return &Error{Kind: KindPaymentProviderUnavailable, Message: "payment provider unavailable", Cause: err}
	default:
		return &Error{Kind: KindPaymentProviderUnavailable, Message: "payment provider unavailable", Cause: fmt.Errorf("provider: %w", err)}
	}
}
