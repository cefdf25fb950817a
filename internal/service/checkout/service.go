package checkout

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"waves-backend/internal/cache"
	"waves-backend/internal/domain"
)

// Checkout step names, recorded on the intent when a step fails.
const (
	StepIntent       = "record_intent"
	StepHistory      = "record_history"
	StepPayment      = "record_payment"
	StepSoldCounters = "sold_counters"
)

// StepError reports which checkout step failed. Steps committed before the
// failing one are not rolled back; the intent record keeps the trail for
// manual reconciliation.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("checkout step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	AppendHistoryAndClearCart(ctx context.Context, id string, entries []domain.HistoryEntry) (*domain.User, error)
}

type productRepo interface {
	IncrementSold(ctx context.Context, id string, quantity int) error
}

type paymentRepo interface {
	Create(ctx context.Context, p domain.Payment) (*domain.Payment, error)
	CreateIntent(ctx context.Context, intent domain.CheckoutIntent) error
	UpdateIntentStatus(ctx context.Context, id, status, failedStep string) error
}

type mailer interface {
	SendPurchase(ctx context.Context, email, name string, payment domain.Payment) error
}

// LineItem is one cartDetail line supplied by the client: a product snapshot
// captured at the moment the user initiated payment.
type LineItem struct {
	ProductID string  `json:"_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Result is the checkout outcome returned to the handler. Cart and
// CartDetail are empty on success so the client clears its local view.
type Result struct {
	PurchaseOrder string            `json:"porder"`
	Cart          []domain.CartLine `json:"cart"`
	CartDetail    []LineItem        `json:"cartDetail"`
}

// Service converts a cart into a purchase order. The sequence spans three
// collections with no multi-document transaction: each step commits
// independently and a failure stops the run without undoing prior steps.
type Service struct {
	users    userRepo
	products productRepo
	payments paymentRepo
	mail     mailer
	cache    cache.CartCache
	logger   *log.Logger
	now      func() time.Time
}

func New(users userRepo, products productRepo, payments paymentRepo, mail mailer, cartCache cache.CartCache, logger *log.Logger) *Service {
	if cartCache == nil {
		cartCache = cache.Noop{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		users:    users,
		products: products,
		payments: payments,
		mail:     mail,
		cache:    cartCache,
		logger:   logger,
		now:      time.Now,
	}
}

// CompletePurchase runs the checkout sequence for one purchase attempt:
// persist an intent, append history and clear the cart, write the payment
// ledger record, then bump each product's sold counter.
func (s *Service) CompletePurchase(ctx context.Context, userID string, cartDetail []LineItem, paymentData map[string]interface{}) (*Result, error) {
	if len(cartDetail) == 0 {
		return nil, fmt.Errorf("%w: cartDetail is empty", domain.ErrValidation)
	}
	paymentID := paymentIDFrom(paymentData)
	if paymentID == "" {
		return nil, fmt.Errorf("%w: paymentData.paymentID is required", domain.ErrValidation)
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	po := purchaseOrderID(now, userID)

	if err := s.payments.CreateIntent(ctx, domain.CheckoutIntent{
		ID:     po,
		UserID: userID,
		Status: domain.IntentPending,
	}); err != nil {
		return nil, &StepError{Step: StepIntent, Err: err}
	}

	history := make([]domain.HistoryEntry, 0, len(cartDetail))
	lines := make([]domain.PaymentLine, 0, len(cartDetail))
	for _, item := range cartDetail {
		history = append(history, domain.HistoryEntry{
			PurchaseOrder:  po,
			DateOfPurchase: now,
			Name:           item.Name,
			ProductID:      item.ProductID,
			Price:          item.Price,
			Quantity:       item.Quantity,
			PaymentID:      paymentID,
		})
		lines = append(lines, domain.PaymentLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	updated, err := s.users.AppendHistoryAndClearCart(ctx, userID, history)
	if err != nil {
		s.markIntent(ctx, po, domain.IntentFailed, StepHistory)
		return nil, &StepError{Step: StepHistory, Err: err}
	}
	s.markIntent(ctx, po, domain.IntentHistoryRecorded, "")
	s.invalidateCart(userID)

	data := make(map[string]interface{}, len(paymentData)+1)
	for k, v := range paymentData {
		data[k] = v
	}
	data["porder"] = po

	paymentRecord, err := s.payments.Create(ctx, domain.Payment{
		User: domain.PaymentUser{
			ID:       u.ID,
			Name:     u.Name,
			Lastname: u.Lastname,
			Email:    u.Email,
		},
		Data:    data,
		Product: lines,
	})
	if err != nil {
		// History is already recorded but the ledger write is lost. No
		// compensation is attempted; the failed intent marks the purchase
		// for manual reconciliation.
		s.markIntent(ctx, po, domain.IntentFailed, StepPayment)
		return nil, &StepError{Step: StepPayment, Err: err}
	}
	s.markIntent(ctx, po, domain.IntentPaymentRecorded, "")

	// Sequential, independently committed increments. A mid-sequence failure
	// stops the run; earlier increments stand.
	for _, line := range paymentRecord.Product {
		if err := s.products.IncrementSold(ctx, line.ProductID, line.Quantity); err != nil {
			s.markIntent(ctx, po, domain.IntentFailed, StepSoldCounters)
			return nil, &StepError{Step: StepSoldCounters, Err: err}
		}
	}
	s.markIntent(ctx, po, domain.IntentCompleted, "")

	if s.mail != nil {
		if err := s.mail.SendPurchase(ctx, u.Email, u.Name, *paymentRecord); err != nil {
			s.logger.Printf("checkout: purchase email user=%s porder=%s error=%v", userID, po, err)
		}
	}

	s.logger.Printf("checkout: completed user=%s porder=%s lines=%d", userID, po, len(lines))
	return &Result{
		PurchaseOrder: po,
		Cart:          updated.Cart,
		CartDetail:    []LineItem{},
	}, nil
}

func (s *Service) markIntent(ctx context.Context, po, status, failedStep string) {
	if err := s.payments.UpdateIntentStatus(ctx, po, status, failedStep); err != nil {
		s.logger.Printf("checkout: intent update porder=%s status=%s error=%v", po, status, err)
	}
}

func (s *Service) invalidateCart(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Printf("checkout: cache invalidate user=%s error=%v", userID, err)
	}
}

func paymentIDFrom(paymentData map[string]interface{}) string {
	for _, key := range []string{"paymentID", "paymentId"} {
		if v, ok := paymentData[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
