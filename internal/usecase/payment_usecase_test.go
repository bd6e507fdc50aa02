package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) CreatePaymentIntent(ctx context.Context, amountCents int64, md usecase.IntentMetadata) (usecase.PaymentIntent, error) {
	args := m.Called(ctx, amountCents, md)
	return args.Get(0).(usecase.PaymentIntent), args.Error(1)
}

func (m *ProviderMock) RetrievePaymentIntent(ctx context.Context, intentID string) (usecase.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	return args.Get(0).(usecase.PaymentIntent), args.Error(1)
}

func (m *ProviderMock) CancelPaymentIntent(ctx context.Context, intentID string) error {
	return m.Called(ctx, intentID).Error(0)
}

func (m *ProviderMock) PaymentMethodType(ctx context.Context, paymentMethodID string) (string, error) {
	args := m.Called(ctx, paymentMethodID)
	return args.String(0), args.Error(1)
}

func (m *ProviderMock) VerifyWebhook(payload []byte, signatureHeader string) (usecase.WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	return args.Get(0).(usecase.WebhookEvent), args.Error(1)
}

func (m *ProviderMock) PublishableKey() string {
	return m.Called().String(0)
}

type memDeduper struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemDeduper() *memDeduper {
	return &memDeduper{seen: map[string]bool{}}
}

func (d *memDeduper) Claim(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[id] {
		return false, nil
	}
	d.seen[id] = true
	return true, nil
}

func (d *memDeduper) Release(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
	return nil
}

type paymentFixture struct {
	env      *testEnv
	provider *ProviderMock
	uc       *usecase.PaymentUsecase
	store    model.Store
	user     model.User
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	env := newTestEnv(t)
	p := &ProviderMock{}
	t.Cleanup(func() { p.AssertExpectations(t) })

	return &paymentFixture{
		env:      env,
		provider: p,
		uc:       usecase.NewPaymentUsecase(env.tx, p, newMemDeduper(), env.clock),
		store:    env.store(t, "Baner"),
		user:     env.user(t, "payer@example.com"),
	}
}

func (f *paymentFixture) setIntent(t *testing.T, orderID int64, intentID string) {
	t.Helper()
	swapped, err := f.env.repos.Orders().SwapPaymentIntent(context.Background(), orderID, "", intentID, f.env.clock.Now())
	require.NoError(t, err)
	require.True(t, swapped)
}

func TestCreateIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates then reuses a waiting intent", func(t *testing.T) {
		f := newPaymentFixture(t)
		o := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "23.50")

		f.provider.On("CreatePaymentIntent", mock.Anything, int64(2350), usecase.IntentMetadata{
			OrderID:        o.ID,
			StoreID:        f.store.ID,
			ReceiptEmail:   "asha@example.com",
			IdempotencyKey: fmt.Sprintf("order-%d-after-none", o.ID),
		}).Return(usecase.PaymentIntent{ID: "pi_1", ClientSecret: "sec_1", Status: usecase.IntentRequiresPaymentMethod}, nil).Once()
		f.provider.On("RetrievePaymentIntent", mock.Anything, "pi_1").
			Return(usecase.PaymentIntent{ID: "pi_1", ClientSecret: "sec_1", Status: usecase.IntentRequiresAction}, nil).Once()

		out, err := f.uc.CreateIntent(ctx, o.ID, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, usecase.IntentOutput{ClientSecret: "sec_1", PaymentIntentID: "pi_1", AmountCents: 2350}, out)

		stored := f.env.reload(t, o.ID)
		require.NotNil(t, stored.PaymentIntentID)
		assert.Equal(t, "pi_1", *stored.PaymentIntentID)
		assert.Equal(t, model.PaymentStatusPending, stored.PaymentStatus)

		again, err := f.uc.CreateIntent(ctx, o.ID, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, out, again)
		f.provider.AssertNumberOfCalls(t, "CreatePaymentIntent", 1)
	})

	t.Run("succeeded intent reports already paid", func(t *testing.T) {
		f := newPaymentFixture(t)
		o := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "10.00")
		f.setIntent(t, o.ID, "pi_done")

		f.provider.On("RetrievePaymentIntent", mock.Anything, "pi_done").
			Return(usecase.PaymentIntent{ID: "pi_done", Status: usecase.IntentSucceeded}, nil).Once()

		_, err := f.uc.CreateIntent(ctx, o.ID, f.user.ID)
		requireKind(t, err, usecase.KindAlreadyPaid)
	})

	t.Run("canceled intent is replaced", func(t *testing.T) {
		f := newPaymentFixture(t)
		o := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "10.00")
		f.setIntent(t, o.ID, "pi_old")

		f.provider.On("RetrievePaymentIntent", mock.Anything, "pi_old").
			Return(usecase.PaymentIntent{ID: "pi_old", Status: "canceled"}, nil).Once()
		newGeneration := mock.MatchedBy(func(md usecase.IntentMetadata) bool {
			return md.IdempotencyKey == fmt.Sprintf("order-%d-after-pi_old", o.ID)
		})
		f.provider.On("CreatePaymentIntent", mock.Anything, int64(1000), newGeneration).
			Return(usecase.PaymentIntent{ID: "pi_new", ClientSecret: "sec_new"}, nil).Once()

		out, err := f.uc.CreateIntent(ctx, o.ID, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, "pi_new", out.PaymentIntentID)
		assert.Equal(t, "pi_new", *f.env.reload(t, o.ID).PaymentIntentID)
	})

	t.Run("paid order", func(t *testing.T) {
		f := newPaymentFixture(t)
		o := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusConfirmed, "10.00")
		require.NoError(t, f.env.repos.Orders().MarkPaid(ctx, o.ID, "card", f.env.clock.Now()))

		_, err := f.uc.CreateIntent(ctx, o.ID, f.user.ID)
		requireKind(t, err, usecase.KindAlreadyPaid)
	})

	t.Run("rejections before the provider is called", func(t *testing.T) {
		f := newPaymentFixture(t)
		other := f.env.user(t, "someone@example.com")
		mine := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "10.00")
		orphan := f.env.order(t, nil, f.user.ID, model.OrderStatusPending, "10.00")
		free := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "0.00")

		_, err := f.uc.CreateIntent(ctx, 999999, f.user.ID)
		requireKind(t, err, usecase.KindNotFound)

		_, err = f.uc.CreateIntent(ctx, mine.ID, other.ID)
		requireKind(t, err, usecase.KindNotFound)

		_, err = f.uc.CreateIntent(ctx, orphan.ID, f.user.ID)
		requireKind(t, err, usecase.KindOrderHasNoStore)

		_, err = f.uc.CreateIntent(ctx, free.ID, f.user.ID)
		requireKind(t, err, usecase.KindZeroAmount)

		f.provider.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("provider failures", func(t *testing.T) {
		cases := []struct {
			name string
			err  error
			want usecase.Kind
		}{
			{"unavailable", usecase.ErrProviderUnavailable, usecase.KindPaymentProviderUnavailable},
			{"rejected", usecase.ErrProviderRejected, usecase.KindPaymentRejected},
			{"unclassified", errors.New("boom"), usecase.KindPaymentProviderUnavailable},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newPaymentFixture(t)
				o := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "10.00")
				f.provider.On("CreatePaymentIntent", mock.Anything, int64(1000), mock.Anything).
					Return(usecase.PaymentIntent{}, tc.err).Once()

				_, err := f.uc.CreateIntent(ctx, o.ID, f.user.ID)
				requireKind(t, err, tc.want)
				assert.Nil(t, f.env.reload(t, o.ID).PaymentIntentID)
			})
		}
	})

	t.Run("retrieve outage is not masked", func(t *testing.T) {
		f := newPaymentFixture(t)
		o := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "10.00")
		f.setIntent(t, o.ID, "pi_x")
		f.provider.On("RetrievePaymentIntent", mock.Anything, "pi_x").
			Return(usecase.PaymentIntent{}, usecase.ErrProviderUnavailable).Once()

		_, err := f.uc.CreateIntent(ctx, o.ID, f.user.ID)
		requireKind(t, err, usecase.KindPaymentProviderUnavailable)
	})
}

// racingProvider answers after a delay so concurrent callers overlap. With
// honorKeys it replays the first intent created under an idempotency key.
type racingProvider struct {
	delay     time.Duration
	honorKeys bool

	mu      sync.Mutex
	creates int
	byKey   map[string]usecase.PaymentIntent
	intents map[string]usecase.PaymentIntent
}

func newRacingProvider(delay time.Duration, honorKeys bool) *racingProvider {
	return &racingProvider{
		delay:     delay,
		honorKeys: honorKeys,
		byKey:     map[string]usecase.PaymentIntent{},
		intents:   map[string]usecase.PaymentIntent{},
	}
}

func (p *racingProvider) CreatePaymentIntent(_ context.Context, _ int64, md usecase.IntentMetadata) (usecase.PaymentIntent, error) {
	time.Sleep(p.delay)
	p.mu.Lock()
	defer p.mu.Unlock()
	if pi, ok := p.byKey[md.IdempotencyKey]; ok && p.honorKeys {
		return pi, nil
	}
	p.creates++
	id := fmt.Sprintf("pi_%d", p.creates)
	pi := usecase.PaymentIntent{ID: id, ClientSecret: id + "_secret", Status: usecase.IntentRequiresPaymentMethod}
	p.byKey[md.IdempotencyKey] = pi
	p.intents[id] = pi
	return pi, nil
}

func (p *racingProvider) RetrievePaymentIntent(_ context.Context, intentID string) (usecase.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pi, ok := p.intents[intentID]
	if !ok {
		return usecase.PaymentIntent{}, usecase.ErrProviderRejected
	}
	return pi, nil
}

func (p *racingProvider) CancelPaymentIntent(_ context.Context, intentID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	pi := p.intents[intentID]
	pi.Status = "canceled"
	p.intents[intentID] = pi
	return nil
}

func (p *racingProvider) PaymentMethodType(context.Context, string) (string, error) {
	return "card", nil
}

func (p *racingProvider) VerifyWebhook([]byte, string) (usecase.WebhookEvent, error) {
	return usecase.WebhookEvent{}, usecase.ErrInvalidSignature
}

func (p *racingProvider) PublishableKey() string { return "" }

func (p *racingProvider) live() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ids []string
	for id, pi := range p.intents {
		if pi.Status != "canceled" {
			ids = append(ids, id)
		}
	}
	return ids
}

func TestCreateIntentConcurrentCallsShareOneIntent(t *testing.T) {
	for _, honorKeys := range []bool{false, true} {
		t.Run(fmt.Sprintf("honor keys %v", honorKeys), func(t *testing.T) {
			env := newTestEnv(t)
			p := newRacingProvider(50*time.Millisecond, honorKeys)
			uc := usecase.NewPaymentUsecase(env.tx, p, newMemDeduper(), env.clock)
			store := env.store(t, "Baner")
			user := env.user(t, "racer@example.com")
			o := env.order(t, &store.ID, user.ID, model.OrderStatusPending, "23.50")

			var wg sync.WaitGroup
			outs := make([]usecase.IntentOutput, 2)
			errs := make([]error, 2)
			for i := range outs {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					outs[i], errs[i] = uc.CreateIntent(context.Background(), o.ID, user.ID)
				}(i)
			}
			wg.Wait()

			require.NoError(t, errs[0])
			require.NoError(t, errs[1])

			stored := env.reload(t, o.ID)
			require.NotNil(t, stored.PaymentIntentID)
			assert.Equal(t, *stored.PaymentIntentID, outs[0].PaymentIntentID)
			assert.Equal(t, *stored.PaymentIntentID, outs[1].PaymentIntentID)
			assert.Equal(t, int64(2350), outs[0].AmountCents)
			assert.Equal(t, []string{*stored.PaymentIntentID}, p.live())
			if honorKeys {
				assert.Equal(t, 1, p.creates)
			}
		})
	}
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()
	body := []byte(`{}`)

	event := func(f *paymentFixture, ev usecase.WebhookEvent) {
		f.provider.On("VerifyWebhook", body, "sig").Return(ev, nil)
	}

	t.Run("succeeded confirms the order", func(t *testing.T) {
		f := newPaymentFixture(t)
		o := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "23.50")
		f.setIntent(t, o.ID, "pi_1")
		f.env.clock.Advance(5 * time.Minute)

		event(f, usecase.WebhookEvent{ID: "evt_1", Type: usecase.EventPaymentSucceeded, PaymentIntentID: "pi_1", PaymentMethodID: "pm_1"})
		f.provider.On("PaymentMethodType", mock.Anything, "pm_1").Return("upi", nil).Once()

		require.NoError(t, f.uc.HandleWebhook(ctx, body, "sig"))

		got := f.env.reload(t, o.ID)
		assert.Equal(t, model.OrderStatusConfirmed, got.Status)
		assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
		require.NotNil(t, got.PaymentMethod)
		assert.Equal(t, "upi", *got.PaymentMethod)
		require.NotNil(t, got.UpdatedAt)
		assert.True(t, got.UpdatedAt.Equal(f.env.clock.Now()))
		assert.Equal(t, "23.50", got.Total.StringFixed(2))
	})

	t.Run("duplicate delivery is acknowledged once", func(t *testing.T) {
		f := newPaymentFixture(t)
		o := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "10.00")
		f.setIntent(t, o.ID, "pi_dup")

		event(f, usecase.WebhookEvent{ID: "evt_dup", Type: usecase.EventPaymentSucceeded, PaymentIntentID: "pi_dup"})

		require.NoError(t, f.uc.HandleWebhook(ctx, body, "sig"))
		require.NoError(t, f.uc.HandleWebhook(ctx, body, "sig"))

		got := f.env.reload(t, o.ID)
		assert.Equal(t, model.OrderStatusConfirmed, got.Status)
		assert.Equal(t, "card", *got.PaymentMethod)
		f.provider.AssertNotCalled(t, "PaymentMethodType", mock.Anything, mock.Anything)
	})

	t.Run("method lookup failure records card", func(t *testing.T) {
		f := newPaymentFixture(t)
		o := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "10.00")
		f.setIntent(t, o.ID, "pi_m")

		event(f, usecase.WebhookEvent{ID: "evt_m", Type: usecase.EventPaymentSucceeded, PaymentIntentID: "pi_m", PaymentMethodID: "pm_gone"})
		f.provider.On("PaymentMethodType", mock.Anything, "pm_gone").Return("", usecase.ErrProviderRejected).Once()

		require.NoError(t, f.uc.HandleWebhook(ctx, body, "sig"))
		assert.Equal(t, "card", *f.env.reload(t, o.ID).PaymentMethod)
	})

	t.Run("failed payment keeps the order status", func(t *testing.T) {
		f := newPaymentFixture(t)
		o := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "10.00")
		f.setIntent(t, o.ID, "pi_f")

		event(f, usecase.WebhookEvent{ID: "evt_f", Type: usecase.EventPaymentFailed, PaymentIntentID: "pi_f"})

		require.NoError(t, f.uc.HandleWebhook(ctx, body, "sig"))
		got := f.env.reload(t, o.ID)
		assert.Equal(t, model.OrderStatusPending, got.Status)
		assert.Equal(t, model.PaymentStatusFailed, got.PaymentStatus)
	})

	t.Run("unknown intent and other types are no-ops", func(t *testing.T) {
		f := newPaymentFixture(t)
		o := f.env.order(t, &f.store.ID, f.user.ID, model.OrderStatusPending, "10.00")

		f.provider.On("VerifyWebhook", []byte(`a`), "sig").
			Return(usecase.WebhookEvent{ID: "evt_a", Type: usecase.EventPaymentSucceeded, PaymentIntentID: "pi_nobody"}, nil)
		f.provider.On("VerifyWebhook", []byte(`b`), "sig").
			Return(usecase.WebhookEvent{ID: "evt_b", Type: "charge.refunded", PaymentIntentID: "pi_nobody"}, nil)

		require.NoError(t, f.uc.HandleWebhook(ctx, []byte(`a`), "sig"))
		require.NoError(t, f.uc.HandleWebhook(ctx, []byte(`b`), "sig"))

		got := f.env.reload(t, o.ID)
		assert.Equal(t, model.OrderStatusPending, got.Status)
		assert.Equal(t, model.PaymentStatusPending, got.PaymentStatus)
	})

	t.Run("bad signature", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.provider.On("VerifyWebhook", body, "forged").
			Return(usecase.WebhookEvent{}, usecase.ErrInvalidSignature).Once()

		err := f.uc.HandleWebhook(ctx, body, "forged")
		requireKind(t, err, usecase.KindInvalidSignature)
	})

	t.Run("undecodable event is a validation error", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.provider.On("VerifyWebhook", body, "sig").
			Return(usecase.WebhookEvent{}, fmt.Errorf("%w: decode payment intent", usecase.ErrMalformedEvent)).Once()

		err := f.uc.HandleWebhook(ctx, body, "sig")
		requireKind(t, err, usecase.KindValidation)
	})
}

func TestPaymentConfig(t *testing.T) {
	f := newPaymentFixture(t)
	f.provider.On("PublishableKey").Return("pk_test_123").Once()

	assert.Equal(t, usecase.PaymentConfigOutput{PublishableKey: "pk_test_123"}, f.uc.Config())
}
