package usecase

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// PasswordHasher hashes and checks plain-text passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain string, hashed string) bool
}

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptPasswordHasher) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// TokenIssuer signs access tokens for both principal types.
type TokenIssuer interface {
	IssueUserToken(userID int64, now time.Time) (token string, expiresAt time.Time, err error)
	IssueAdminToken(adminID int64, storeID int64, now time.Time) (token string, expiresAt time.Time, err error)
}

// Payment provider intent states the bridge cares about.
const (
	IntentRequiresPaymentMethod = "requires_payment_method"
	IntentRequiresConfirmation  = "requires_confirmation"
	IntentRequiresAction        = "requires_action"
	IntentSucceeded             = "succeeded"
)

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

var (
	// not configured, unreachable or timed out
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	// the provider answered with an API error
	ErrProviderRejected = errors.New("payment provider rejected request")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// signature verified but the event body could not be decoded
	ErrMalformedEvent = errors.New("malformed webhook event")
)

type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// IntentMetadata travels with a create request. Requests sharing an
// IdempotencyKey yield the same intent.
type IntentMetadata struct {
	OrderID        int64
	StoreID        int64
	ReceiptEmail   string
	IdempotencyKey string
}

// WebhookEvent is a verified provider event reduced to what the bridge reads.
type WebhookEvent struct {
	ID              string
	Type            string
	PaymentIntentID string
	PaymentMethodID string
}

type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, md IntentMetadata) (PaymentIntent, error)
	RetrievePaymentIntent(ctx context.Context, intentID string) (PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, intentID string) error
	PaymentMethodType(ctx context.Context, paymentMethodID string) (string, error)
	VerifyWebhook(payload []byte, signatureHeader string) (WebhookEvent, error)
	PublishableKey() string
}

// WebhookDeduper remembers processed provider event ids.
type WebhookDeduper interface {
	// Claim reports true the first time eventID is seen.
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

// NoopDeduper claims every event.
type NoopDeduper struct{}

func (NoopDeduper) Claim(context.Context, string) (bool, error) { return true, nil }
func (NoopDeduper) Release(context.Context, string) error       { return nil }
