package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/kamga/mokolo/internal/domain/cart"
	"github.com/kamga/mokolo/internal/domain/order"
	"github.com/kamga/mokolo/internal/notify"
	"github.com/kamga/mokolo/internal/payment"
)

// Session is one in-flight checkout. All access goes through the Service,
// which serializes operations per session; a checkout session has exactly
// one writer and its steps run strictly sequentially.
type Session struct {
	ID     string
	UserID string

	state     State
	shipping  ShippingInfo
	pay       PaymentInfo
	lastError string

	// Captured at payment submission: item snapshot and total. Prices are
	// not re-fetched between payment and persistence.
	items []cart.Item
	total decimal.Decimal

	countdown int
	completed bool
	result    *order.Order
}

// Snapshot is the externally visible session state.
type Snapshot struct {
	ID        string
	State     State
	Error     string
	Countdown int
	Order     *order.Order
}

// Service owns checkout sessions and drives them through the state machine.
type Service struct {
	carts     *cart.Store
	providers map[order.PaymentMethod]payment.Provider
	orders    order.Repository
	notifier  *notify.Hub

	after func(time.Duration, func()) // injectable time.AfterFunc

	ordersPlaced    metric.Int64Counter
	paymentFailures metric.Int64Counter

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService creates a checkout Service. The meter may be a noop meter;
// counters are created eagerly so instrument errors surface at wiring time.
func NewService(
	carts *cart.Store,
	providers map[order.PaymentMethod]payment.Provider,
	orders order.Repository,
	notifier *notify.Hub,
	meter metric.Meter,
) (*Service, error) {
	ordersPlaced, err := meter.Int64Counter("checkout.orders_placed")
	if err != nil {
		return nil, errors.Wrap(err, "orders_placed counter")
	}
	paymentFailures, err := meter.Int64Counter("checkout.payment_failures")
	if err != nil {
		return nil, errors.Wrap(err, "payment_failures counter")
	}

	return &Service{
		carts:     carts,
		providers: providers,
		orders:    orders,
		notifier:  notifier,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		ordersPlaced:    ordersPlaced,
		paymentFailures: paymentFailures,
		sessions:        make(map[string]*Session),
	}, nil
}

// WithAfter overrides the delayed-execution hook. Test hook.
func (s *Service) WithAfter(after func(time.Duration, func())) *Service {
	s.after = after
	return s
}

// Start opens a checkout session for the user's current cart. The cart must
// be non-empty and every line must fit within the product's stock; the cart
// store itself does not enforce the stock ceiling, this is where it happens.
func (s *Service) Start(_ context.Context, userID string) (Snapshot, error) {
	// Read the cart under the store lock; handlers mutate it through the
	// same lock concurrently.
	var items []cart.Item
	s.carts.With(userID, func(c *cart.Cart) {
		items = c.Items()
	})
	if len(items) == 0 {
		return Snapshot{}, ErrCartEmpty
	}
	for _, item := range items {
		if item.Quantity > item.Product.Stock {
			return Snapshot{}, &InsufficientStockError{
				ProductID: item.Product.ID,
				Stock:     item.Product.Stock,
				Requested: item.Quantity,
			}
		}
	}

	sess := &Session{
		ID:     uuid.New().String(),
		UserID: userID,
		state:  StateInfo,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return snapshotOf(sess), nil
}

// session looks up a session owned by the given user. Sessions belonging to
// other users are reported as missing so IDs do not leak across accounts.
// Must be called with s.mu held.
func (s *Service) session(sessionID, userID string) (*Session, bool) {
	sess, ok := s.sessions[sessionID]
	if !ok || sess.UserID != userID {
		return nil, false
	}
	return sess, true
}

// Get returns the current session snapshot.
func (s *Service) Get(sessionID, userID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.session(sessionID, userID)
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	return snapshotOf(sess), nil
}

// SubmitShipping applies the info -> payment transition. On a validation
// failure the session stays in info and the field error is surfaced.
func (s *Service) SubmitShipping(_ context.Context, sessionID, userID string, info ShippingInfo) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.session(sessionID, userID)
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	if sess.state != StateInfo && sess.state != StatePayment {
		return snapshotOf(sess), &TransitionError{From: sess.state, Op: "submit shipping"}
	}

	if err := info.validate(); err != nil {
		sess.lastError = err.Error()
		return snapshotOf(sess), err
	}

	sess.shipping = info
	sess.state = StatePayment
	sess.lastError = ""
	return snapshotOf(sess), nil
}

// SubmitPayment applies the payment -> processing transition: it captures
// the cart snapshot, invokes the selected provider, and on success persists
// the order. Payment failure returns the session to the payment step with
// shipping data intact; order persistence failure does the same.
func (s *Service) SubmitPayment(ctx context.Context, sessionID, userID string, info PaymentInfo) (Snapshot, error) {
	s.mu.Lock()
	sess, ok := s.session(sessionID, userID)
	if !ok {
		s.mu.Unlock()
		return Snapshot{}, ErrSessionNotFound
	}
	if sess.state != StatePayment {
		defer s.mu.Unlock()
		return snapshotOf(sess), &TransitionError{From: sess.state, Op: "submit payment"}
	}
	if !info.Method.Valid() {
		defer s.mu.Unlock()
		sess.lastError = "unknown payment method"
		return snapshotOf(sess), &FieldError{Field: "method", Reason: "unknown payment method"}
	}
	provider, ok := s.providers[info.Method]
	if !ok {
		defer s.mu.Unlock()
		sess.lastError = "payment method unavailable"
		return snapshotOf(sess), &FieldError{Field: "method", Reason: "payment method unavailable"}
	}

	if info.Phone == "" {
		info.Phone = sess.shipping.Phone
	}
	sess.pay = info
	sess.state = StateProcessing
	sess.lastError = ""

	// Capture the cart at submission time, under the store lock. Prices
	// come from the snapshot, not a re-fetch.
	s.carts.With(sess.UserID, func(c *cart.Cart) {
		sess.items = c.Items()
		sess.total = c.Total()
	})
	s.mu.Unlock()

	// The provider call runs without the service lock; it may sleep for
	// seconds. The session is still single-writer: it is in processing and
	// every other operation rejects that state.
	result, err := provider.Process(ctx, payment.Request{
		Amount: sess.total,
		Phone:  info.Phone,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.paymentFailures.Add(ctx, 1)
		sess.state = StatePayment
		sess.lastError = err.Error()
		zctx.From(ctx).Info("Payment attempt failed",
			zap.String("session_id", sess.ID),
			zap.String("method", string(info.Method)),
			zap.Error(err),
		)
		return snapshotOf(sess), err
	}

	if err := s.persistOrder(ctx, sess, result.TransactionID); err != nil {
		sess.state = StatePayment
		sess.lastError = "failed to create order"
		return snapshotOf(sess), err
	}

	sess.state = StateSuccess
	sess.countdown = CountdownTicks
	s.scheduleTick(sess.ID)

	return snapshotOf(sess), nil
}

// persistOrder writes the order and then its line items. Item failure is
// deliberately lenient: the order stands, the failure is logged as
// order.ErrItemsDropped so it can be found later. Must be called with s.mu
// held.
func (s *Service) persistOrder(ctx context.Context, sess *Session, transactionID string) error {
	o := &order.Order{
		ID:              uuid.New().String(),
		UserID:          sess.UserID,
		Total:           sess.total,
		PaymentMethod:   sess.pay.Method,
		TransactionID:   transactionID,
		ShippingAddress: sess.shipping.Address,
		Phone:           sess.shipping.Phone,
		Notes:           sess.shipping.Notes,
		Status:          order.StatusProcessing,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return errors.Wrap(err, "create order")
	}

	items := make([]order.Item, len(sess.items))
	for i, line := range sess.items {
		items[i] = order.Item{
			OrderID:   o.ID,
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		}
	}
	if err := s.orders.CreateItems(ctx, items); err != nil {
		zctx.From(ctx).Error("Order line items dropped",
			zap.String("order_id", o.ID),
			zap.Error(errors.Wrap(err, order.ErrItemsDropped.Error())),
		)
	} else {
		o.Items = items
	}

	sess.result = o
	s.ordersPlaced.Add(ctx, 1)

	s.notifier.Publish(notify.Event{
		Kind:   notify.KindOrderCreated,
		UserID: sess.UserID,
		ID:     o.ID,
	})

	return nil
}

// Continue completes the success step immediately instead of waiting out
// the countdown.
func (s *Service) Continue(sessionID, userID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.session(sessionID, userID)
	if !ok {
		return Snapshot{}, ErrSessionNotFound
	}
	if sess.state != StateSuccess {
		return snapshotOf(sess), &TransitionError{From: sess.state, Op: "continue"}
	}

	s.complete(sess)
	return snapshotOf(sess), nil
}

// scheduleTick arms the next one-second countdown tick. Must be called with
// s.mu held.
func (s *Service) scheduleTick(sessionID string) {
	s.after(time.Second, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		sess, ok := s.sessions[sessionID]
		if !ok || sess.state != StateSuccess || sess.completed {
			return
		}
		sess.countdown--
		if sess.countdown <= 0 {
			s.complete(sess)
			return
		}
		s.scheduleTick(sessionID)
	})
}

// complete clears the cart and finalizes the session. Idempotent; must be
// called with s.mu held.
func (s *Service) complete(sess *Session) {
	if sess.completed {
		return
	}
	sess.completed = true
	sess.countdown = 0
	s.carts.With(sess.UserID, func(c *cart.Cart) { c.Clear() })
}

func snapshotOf(sess *Session) Snapshot {
	snap := Snapshot{
		ID:        sess.ID,
		State:     sess.state,
		Error:     sess.lastError,
		Countdown: sess.countdown,
	}
	if sess.state == StateSuccess {
		snap.Order = sess.result
	}
	return snap
}
