package checkout

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nyxieeee/aa2000-website/internal/cart"
	"github.com/nyxieeee/aa2000-website/internal/domain"
	"github.com/nyxieeee/aa2000-website/internal/event"
	"github.com/nyxieeee/aa2000-website/internal/storage"
	apperrors "github.com/nyxieeee/aa2000-website/pkg/errors"
	pkgkafka "github.com/nyxieeee/aa2000-website/pkg/kafka"
	"github.com/nyxieeee/aa2000-website/pkg/validator"
)

// --- Mock order creator ---

type mockOrderCreator struct {
	mock.Mock
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, payload domain.OrderPayload) (*domain.Order, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func newTestSessions(t *testing.T) *cart.Sessions {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := storage.NewRedisStore(client, 0, newTestLogger())
	return cart.NewSessions(store, newTestProducer(), newTestLogger())
}

func newTestService(t *testing.T, backend *mockOrderCreator, delay time.Duration) (*Service, *cart.Sessions) {
	t.Helper()
	sessions := newTestSessions(t)
	return NewService(sessions, backend, newTestProducer(), newTestLogger(), delay), sessions
}

func validForm() Form {
	return Form{
		FullName:   "Juan dela Cruz",
		Email:      "juan@example.com",
		Phone:      "09171234567",
		Address:    "123 Rizal Avenue",
		City:       "Manila",
		ZipCode:    "1000",
		CardNumber: "4111 1111 1111 1111",
		ExpiryDate: "12/27",
		CVV:        "123",
	}
}

func camera() domain.Product {
	return domain.Product{ID: 1, Name: "Dome Camera", Category: domain.CategoryCCTV, Price: 100000}
}

// --- Submit ---

func TestSubmit_PlacesOrder(t *testing.T) {
	backend := new(mockOrderCreator)
	var received domain.OrderPayload
	backend.On("CreateOrder", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		received = args.Get(1).(domain.OrderPayload)
	}).Return(&domain.Order{ID: 42, Total: 160000, Status: domain.OrderStatusPending}, nil)

	svc, sessions := newTestService(t, backend, 10*time.Millisecond)
	ctx := context.Background()
	ledger := sessions.Ledger(ctx, "sess-1")
	ledger.AddItem(ctx, camera())
	ledger.SetQuantity(ctx, 1, 2)
	ledger.ApplyCode(ctx, "aa2000")

	order, err := svc.Submit(ctx, "sess-1", validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	assert.Equal(t, "Juan dela Cruz", received.FullName)
	assert.Equal(t, int64(200000), received.Subtotal)
	assert.Equal(t, int64(40000), received.DiscountAmount)
	assert.Equal(t, "AA2000", received.DiscountCode)
	assert.Equal(t, int64(160000), received.Total)
	require.Len(t, received.Items, 1)
	assert.Equal(t, int64(1), received.Items[0].ID)
	assert.Equal(t, 2, received.Items[0].Quantity)

	st := svc.Status("sess-1")
	assert.Equal(t, StatePlaced, st.State)
	assert.Equal(t, int64(42), st.OrderID)
}

func TestSubmit_WithoutDiscountOmitsCode(t *testing.T) {
	backend := new(mockOrderCreator)
	var received domain.OrderPayload
	backend.On("CreateOrder", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		received = args.Get(1).(domain.OrderPayload)
	}).Return(&domain.Order{ID: 7}, nil)

	svc, sessions := newTestService(t, backend, 10*time.Millisecond)
	ctx := context.Background()
	sessions.Ledger(ctx, "sess-1").AddItem(ctx, camera())

	_, err := svc.Submit(ctx, "sess-1", validForm())
	require.NoError(t, err)

	assert.Empty(t, received.DiscountCode)
	assert.Zero(t, received.DiscountAmount)
	assert.Equal(t, received.Subtotal, received.Total)
}

func TestSubmit_EmptyCart(t *testing.T) {
	backend := new(mockOrderCreator)
	svc, _ := newTestService(t, backend, 10*time.Millisecond)

	_, err := svc.Submit(context.Background(), "sess-1", validForm())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	backend.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

// --- Validation ---

func TestSubmit_FormValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		field  string
	}{
		{"short full name", func(f *Form) { f.FullName = "J" }, "FullName"},
		{"bad email", func(f *Form) { f.Email = "not-an-email" }, "Email"},
		{"short phone", func(f *Form) { f.Phone = "1234567" }, "Phone"},
		{"short address", func(f *Form) { f.Address = "Rzl" }, "Address"},
		{"short city", func(f *Form) { f.City = "M" }, "City"},
		{"short zip", func(f *Form) { f.ZipCode = "1" }, "ZipCode"},
		{"short card number", func(f *Form) { f.CardNumber = "4111 1111" }, "CardNumber"},
		{"bad expiry", func(f *Form) { f.ExpiryDate = "13-27" }, "ExpiryDate"},
		{"short cvv", func(f *Form) { f.CVV = "12" }, "CVV"},
		{"long cvv", func(f *Form) { f.CVV = "12345" }, "CVV"},
	}

	backend := new(mockOrderCreator)
	svc, sessions := newTestService(t, backend, 10*time.Millisecond)
	ctx := context.Background()
	sessions.Ledger(ctx, "sess-1").AddItem(ctx, camera())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			_, err := svc.Submit(ctx, "sess-1", form)
			require.Error(t, err)

			var vErr *validator.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Contains(t, vErr.Fields(), tt.field)
		})
	}

	backend.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestSubmit_ExpiryFormats(t *testing.T) {
	backend := new(mockOrderCreator)
	backend.On("CreateOrder", mock.Anything, mock.Anything).Return(&domain.Order{ID: 1}, nil)
	svc, sessions := newTestService(t, backend, time.Hour)
	ctx := context.Background()

	for i, expiry := range []string{"1/26", "12/27"} {
		sessionID := string(rune('a' + i))
		sessions.Ledger(ctx, sessionID).AddItem(ctx, camera())
		form := validForm()
		form.ExpiryDate = expiry

		_, err := svc.Submit(ctx, sessionID, form)
		assert.NoError(t, err, "expiry %q must be accepted", expiry)
	}
}

// --- Failure path ---

func TestSubmit_BackendErrorSurfacesMessage(t *testing.T) {
	backend := new(mockOrderCreator)
	backend.On("CreateOrder", mock.Anything, mock.Anything).Return(
		nil, apperrors.InvalidInput("Missing required fields"))

	svc, sessions := newTestService(t, backend, 10*time.Millisecond)
	ctx := context.Background()
	ledger := sessions.Ledger(ctx, "sess-1")
	ledger.AddItem(ctx, camera())

	_, err := svc.Submit(ctx, "sess-1", validForm())
	require.Error(t, err)

	st := svc.Status("sess-1")
	assert.Equal(t, StateFailed, st.State)
	assert.Equal(t, "Missing required fields", st.Message)

	// The cart is untouched so the user can retry.
	assert.Len(t, ledger.Snapshot().Items, 1)
}

func TestSubmit_BackendErrorGenericMessage(t *testing.T) {
	backend := new(mockOrderCreator)
	backend.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: refused"))

	svc, sessions := newTestService(t, backend, 10*time.Millisecond)
	ctx := context.Background()
	sessions.Ledger(ctx, "sess-1").AddItem(ctx, camera())

	_, err := svc.Submit(ctx, "sess-1", validForm())
	require.Error(t, err)
	assert.Equal(t, genericSubmitError, svc.Status("sess-1").Message)
}

func TestSubmit_RetryAfterFailure(t *testing.T) {
	backend := new(mockOrderCreator)
	backend.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, errors.New("down")).Once()
	backend.On("CreateOrder", mock.Anything, mock.Anything).Return(&domain.Order{ID: 5}, nil)

	svc, sessions := newTestService(t, backend, time.Hour)
	ctx := context.Background()
	sessions.Ledger(ctx, "sess-1").AddItem(ctx, camera())

	_, err := svc.Submit(ctx, "sess-1", validForm())
	require.Error(t, err)

	order, err := svc.Submit(ctx, "sess-1", validForm())
	require.NoError(t, err)
	assert.Equal(t, int64(5), order.ID)
}

// --- In-flight guard ---

func TestSubmit_ConcurrentSubmissionRejected(t *testing.T) {
	inCall := make(chan struct{})
	release := make(chan struct{})

	backend := new(mockOrderCreator)
	backend.On("CreateOrder", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(inCall)
		<-release
	}).Return(&domain.Order{ID: 1}, nil)

	svc, sessions := newTestService(t, backend, time.Hour)
	ctx := context.Background()
	sessions.Ledger(ctx, "sess-1").AddItem(ctx, camera())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, "sess-1", validForm())
		done <- err
	}()

	<-inCall
	_, err := svc.Submit(ctx, "sess-1", validForm())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	close(release)
	require.NoError(t, <-done)
}

// --- Delayed cart clear ---

func TestSubmit_CartClearedAfterConfirmationDelay(t *testing.T) {
	backend := new(mockOrderCreator)
	backend.On("CreateOrder", mock.Anything, mock.Anything).Return(&domain.Order{ID: 1}, nil)

	svc, sessions := newTestService(t, backend, 20*time.Millisecond)
	ctx := context.Background()
	ledger := sessions.Ledger(ctx, "sess-1")
	ledger.AddItem(ctx, camera())
	ledger.ApplyCode(ctx, "aa2000")

	_, err := svc.Submit(ctx, "sess-1", validForm())
	require.NoError(t, err)
	assert.Len(t, ledger.Snapshot().Items, 1)

	require.Eventually(t, func() bool {
		return ledger.Snapshot().Empty()
	}, time.Second, 5*time.Millisecond)

	snap := ledger.Snapshot()
	assert.Zero(t, snap.Discount)
	assert.Equal(t, StateIdle, svc.Status("sess-1").State)
}

func TestSubmit_ClearSkippedWhenCartChanged(t *testing.T) {
	backend := new(mockOrderCreator)
	backend.On("CreateOrder", mock.Anything, mock.Anything).Return(&domain.Order{ID: 1}, nil)

	svc, sessions := newTestService(t, backend, 20*time.Millisecond)
	ctx := context.Background()
	ledger := sessions.Ledger(ctx, "sess-1")
	ledger.AddItem(ctx, camera())

	_, err := svc.Submit(ctx, "sess-1", validForm())
	require.NoError(t, err)

	// The user keeps shopping before the confirmation delay elapses.
	ledger.AddItem(ctx, domain.Product{ID: 2, Name: "Smoke Sensor", Price: 50000})

	require.Eventually(t, func() bool {
		return svc.Status("sess-1").State == StateIdle
	}, time.Second, 5*time.Millisecond)

	assert.Len(t, ledger.Snapshot().Items, 2)
}

func TestStatus_DefaultsToIdle(t *testing.T) {
	svc, _ := newTestService(t, new(mockOrderCreator), time.Hour)
	assert.Equal(t, Status{State: StateIdle}, svc.Status("unknown"))
}
