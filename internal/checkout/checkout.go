// Package checkout implements order submission: form validation, payload
// assembly from the cart ledger, the call to the back office, and the
// post-confirmation cart clear.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nyxieeee/aa2000-website/internal/cart"
	"github.com/nyxieeee/aa2000-website/internal/domain"
	"github.com/nyxieeee/aa2000-website/internal/event"
	apperrors "github.com/nyxieeee/aa2000-website/pkg/errors"
	"github.com/nyxieeee/aa2000-website/pkg/validator"
)

// State is the submission state of one session's checkout.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StatePlaced     State = "placed"
	StateFailed     State = "failed"
)

// DefaultConfirmationDelay is how long the confirmation stands before the
// cart is cleared.
const DefaultConfirmationDelay = 3 * time.Second

// genericSubmitError is shown when the backend gives no usable message.
const genericSubmitError = "Failed to submit order. Try again."

var checkoutOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions by outcome",
	},
	[]string{"outcome"},
)

// Form is the checkout form. The card fields are validated here and go no
// further; they are never part of the order payload.
type Form struct {
	FullName   string `json:"fullName" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=8"`
	Address    string `json:"address" validate:"required,min=5"`
	City       string `json:"city" validate:"required,min=2"`
	ZipCode    string `json:"zipCode" validate:"required,min=2"`
	CardNumber string `json:"cardNumber" validate:"required,cardnumber"`
	ExpiryDate string `json:"expiryDate" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

// Status is one session's checkout state as reported to clients.
type Status struct {
	State   State  `json:"state"`
	OrderID int64  `json:"orderId,omitempty"`
	Message string `json:"message,omitempty"`
}

// OrderCreator is the slice of the back office client checkout needs.
type OrderCreator interface {
	CreateOrder(ctx context.Context, payload domain.OrderPayload) (*domain.Order, error)
}

// Service runs checkout submissions.
type Service struct {
	sessions          *cart.Sessions
	backend           OrderCreator
	producer          *event.Producer
	logger            *slog.Logger
	confirmationDelay time.Duration

	mu     sync.Mutex
	states map[string]Status
}

// NewService creates a checkout service. A non-positive confirmationDelay
// falls back to the default.
func NewService(sessions *cart.Sessions, backend OrderCreator, producer *event.Producer, logger *slog.Logger, confirmationDelay time.Duration) *Service {
	if confirmationDelay <= 0 {
		confirmationDelay = DefaultConfirmationDelay
	}
	return &Service{
		sessions:          sessions,
		backend:           backend,
		producer:          producer,
		logger:            logger,
		confirmationDelay: confirmationDelay,
		states:            make(map[string]Status),
	}
}

// Status returns the session's current checkout state, idle when the
// session never submitted.
func (s *Service) Status(sessionID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.states[sessionID]; ok {
		return st
	}
	return Status{State: StateIdle}
}

// Submit validates the form, assembles the order payload from the session's
// ledger, and sends it to the back office. On acceptance the confirmation
// stands for the configured delay, then the cart is cleared unless it
// changed in the meantime. On failure the cart is left untouched so the
// user can retry.
func (s *Service) Submit(ctx context.Context, sessionID string, form Form) (*domain.Order, error) {
	if err := validator.Validate(&form); err != nil {
		return nil, err
	}

	ledger := s.sessions.Ledger(ctx, sessionID)
	snap := ledger.Snapshot()
	if snap.Empty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}
	gen := ledger.Generation()

	if !s.beginSubmission(sessionID) {
		return nil, apperrors.Conflict("checkout already in progress")
	}

	items := make([]domain.OrderItemPayload, len(snap.Items))
	for i, item := range snap.Items {
		items[i] = domain.OrderItemPayload{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	payload := domain.OrderPayload{
		FullName:       form.FullName,
		Email:          form.Email,
		Phone:          form.Phone,
		Address:        form.Address,
		City:           form.City,
		ZipCode:        form.ZipCode,
		Subtotal:       snap.Subtotal,
		DiscountAmount: snap.DiscountAmount,
		DiscountCode:   snap.AppliedCode,
		Total:          snap.Total,
		Items:          items,
	}

	order, err := s.backend.CreateOrder(ctx, payload)
	if err != nil {
		s.setStatus(sessionID, Status{State: StateFailed, Message: submitErrorMessage(err)})
		checkoutOutcomes.WithLabelValues("failed").Inc()

		s.logger.ErrorContext(ctx, "order submission failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)

		return nil, err
	}

	s.setStatus(sessionID, Status{State: StatePlaced, OrderID: order.ID})
	checkoutOutcomes.WithLabelValues("placed").Inc()

	s.logger.InfoContext(ctx, "order placed",
		slog.String("session_id", sessionID),
		slog.Int64("order_id", order.ID),
		slog.Int64("total", order.Total),
	)

	if err := s.producer.PublishOrderPlaced(ctx, sessionID, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.scheduleCartClear(ctx, sessionID, order.ID, gen)

	return order, nil
}

// beginSubmission flips the session into the submitting state unless a
// submission is already in flight.
func (s *Service) beginSubmission(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.states[sessionID].State == StateSubmitting {
		return false
	}
	s.states[sessionID] = Status{State: StateSubmitting}
	return true
}

func (s *Service) setStatus(sessionID string, st Status) {
	s.mu.Lock()
	s.states[sessionID] = st
	s.mu.Unlock()
}

// scheduleCartClear clears the cart once the confirmation delay elapses,
// unless the ledger changed since the submission snapshot was taken. The
// clear outlives the request, so it runs on a detached context.
func (s *Service) scheduleCartClear(ctx context.Context, sessionID string, orderID int64, gen uint64) {
	bg := context.WithoutCancel(ctx)

	time.AfterFunc(s.confirmationDelay, func() {
		ledger := s.sessions.Ledger(bg, sessionID)
		cleared := ledger.ClearIfGeneration(bg, gen)
		if !cleared {
			s.logger.InfoContext(bg, "skipped post-confirmation cart clear, cart changed",
				slog.String("session_id", sessionID),
			)
		}

		// The confirmation is over either way; return the session to idle
		// unless a newer submission took over.
		s.mu.Lock()
		if st := s.states[sessionID]; st.State == StatePlaced && st.OrderID == orderID {
			s.states[sessionID] = Status{State: StateIdle}
		}
		s.mu.Unlock()
	})
}

// submitErrorMessage extracts the backend's message when it has one.
func submitErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return genericSubmitError
}
