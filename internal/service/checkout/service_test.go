package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"waves-backend/internal/domain"
)

type stubUserRepo struct {
	user       *domain.User
	getErr     error
	appendErr  error
	gotEntries []domain.HistoryEntry
}

func (s *stubUserRepo) GetByID(_ context.Context, _ string) (*domain.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.user, nil
}

func (s *stubUserRepo) AppendHistoryAndClearCart(_ context.Context, _ string, entries []domain.HistoryEntry) (*domain.User, error) {
	if s.appendErr != nil {
		return nil, s.appendErr
	}
	s.gotEntries = entries
	updated := *s.user
	updated.History = append(updated.History, entries...)
	updated.Cart = []domain.CartLine{}
	return &updated, nil
}

type stubProductRepo struct {
	increments []domain.PaymentLine
	failAtCall int
}

func (s *stubProductRepo) IncrementSold(_ context.Context, id string, quantity int) error {
	if s.failAtCall > 0 && len(s.increments)+1 == s.failAtCall {
		return errors.New("store unavailable")
	}
	s.increments = append(s.increments, domain.PaymentLine{ProductID: id, Quantity: quantity})
	return nil
}

type intentUpdate struct {
	status     string
	failedStep string
}

type stubPaymentRepo struct {
	createErr     error
	intentErr     error
	created       *domain.Payment
	intent        *domain.CheckoutIntent
	intentUpdates []intentUpdate
}

func (s *stubPaymentRepo) Create(_ context.Context, p domain.Payment) (*domain.Payment, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	p.ID = "pay-doc-1"
	s.created = &p
	return &p, nil
}

func (s *stubPaymentRepo) CreateIntent(_ context.Context, intent domain.CheckoutIntent) error {
	if s.intentErr != nil {
		return s.intentErr
	}
	s.intent = &intent
	return nil
}

func (s *stubPaymentRepo) UpdateIntentStatus(_ context.Context, _, status, failedStep string) error {
	s.intentUpdates = append(s.intentUpdates, intentUpdate{status: status, failedStep: failedStep})
	return nil
}

type stubCache struct {
	deletes []string
}

func (c *stubCache) Get(_ context.Context, _ string) ([]domain.CartLine, error) {
	return nil, errors.New("not cached")
}

func (c *stubCache) Set(_ context.Context, _ string, _ []domain.CartLine) error { return nil }

func (c *stubCache) Delete(_ context.Context, userID string) error {
	c.deletes = append(c.deletes, userID)
	return nil
}

type stubMailer struct {
	sent int
}

func (s *stubMailer) SendPurchase(_ context.Context, _, _ string, _ domain.Payment) error {
	s.sent++
	return nil
}

func buyer() *domain.User {
	return &domain.User{
		ID:       "u1",
		Email:    "jo@example.com",
		Name:     "Jo",
		Lastname: "Reed",
		Cart:     []domain.CartLine{{ProductID: "P1", Quantity: 2}},
	}
}

func twoLines() []LineItem {
	return []LineItem{
		{ProductID: "P1", Name: "Strat", Price: 749, Quantity: 2},
		{ProductID: "P2", Name: "Mug", Price: 12, Quantity: 1},
	}
}

func payData() map[string]interface{} {
	return map[string]interface{}{"paymentID": "PAY1"}
}

func newTestService(users *stubUserRepo, products *stubProductRepo, payments *stubPaymentRepo, mail *stubMailer) *Service {
	var m mailer
	if mail != nil {
		m = mail
	}
	svc := New(users, products, payments, m, nil, nil)
	svc.now = func() time.Time {
		return time.Date(2024, 6, 1, 10, 30, 42, 123e6, time.UTC)
	}
	return svc
}

func TestCompletePurchaseValidation(t *testing.T) {
	svc := newTestService(&stubUserRepo{user: buyer()}, &stubProductRepo{}, &stubPaymentRepo{}, nil)

	_, err := svc.CompletePurchase(context.Background(), "u1", nil, payData())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty cartDetail, got %v", err)
	}

	_, err = svc.CompletePurchase(context.Background(), "u1", twoLines(), map[string]interface{}{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing paymentID, got %v", err)
	}
}

func TestCompletePurchaseUserNotFound(t *testing.T) {
	svc := newTestService(&stubUserRepo{getErr: domain.ErrNotFound}, &stubProductRepo{}, &stubPaymentRepo{}, nil)

	_, err := svc.CompletePurchase(context.Background(), "missing", twoLines(), payData())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompletePurchaseHappyPath(t *testing.T) {
	users := &stubUserRepo{user: buyer()}
	products := &stubProductRepo{}
	payments := &stubPaymentRepo{}
	mail := &stubMailer{}
	svc := newTestService(users, products, payments, mail)

	result, err := svc.CompletePurchase(context.Background(), "u1", twoLines(), payData())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(users.gotEntries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(users.gotEntries))
	}
	po := users.gotEntries[0].PurchaseOrder
	if po == "" || po != users.gotEntries[1].PurchaseOrder {
		t.Fatalf("expected both entries to share one purchase order, got %q and %q",
			users.gotEntries[0].PurchaseOrder, users.gotEntries[1].PurchaseOrder)
	}
	if result.PurchaseOrder != po {
		t.Fatalf("result porder %q does not match history %q", result.PurchaseOrder, po)
	}
	if users.gotEntries[0].DateOfPurchase != users.gotEntries[1].DateOfPurchase {
		t.Fatalf("expected entries to share one purchase timestamp")
	}
	for _, entry := range users.gotEntries {
		if entry.PaymentID != "PAY1" {
			t.Fatalf("expected payment id PAY1 on entry, got %q", entry.PaymentID)
		}
	}

	if payments.created == nil {
		t.Fatal("expected a payment record")
	}
	if payments.created.User.ID != "u1" || payments.created.User.Email != "jo@example.com" {
		t.Fatalf("unexpected user snapshot: %+v", payments.created.User)
	}
	if got := payments.created.Data["porder"]; got != po {
		t.Fatalf("expected porder %q merged into payment data, got %v", po, got)
	}
	if len(payments.created.Product) != 2 {
		t.Fatalf("expected 2 payment lines, got %d", len(payments.created.Product))
	}

	if len(products.increments) != 2 {
		t.Fatalf("expected 2 sold increments, got %d", len(products.increments))
	}
	if products.increments[0] != (domain.PaymentLine{ProductID: "P1", Quantity: 2}) {
		t.Fatalf("unexpected first increment: %+v", products.increments[0])
	}
	if products.increments[1] != (domain.PaymentLine{ProductID: "P2", Quantity: 1}) {
		t.Fatalf("unexpected second increment: %+v", products.increments[1])
	}

	if len(result.Cart) != 0 {
		t.Fatalf("expected cleared cart in result, got %+v", result.Cart)
	}
	if len(result.CartDetail) != 0 {
		t.Fatalf("expected empty cartDetail in result, got %+v", result.CartDetail)
	}
	if mail.sent != 1 {
		t.Fatalf("expected one purchase email, got %d", mail.sent)
	}

	final := payments.intentUpdates[len(payments.intentUpdates)-1]
	if final.status != domain.IntentCompleted {
		t.Fatalf("expected final intent status %q, got %q", domain.IntentCompleted, final.status)
	}
}

func TestCompletePurchaseHistoryStepFailure(t *testing.T) {
	users := &stubUserRepo{user: buyer(), appendErr: errors.New("write failed")}
	products := &stubProductRepo{}
	payments := &stubPaymentRepo{}
	svc := newTestService(users, products, payments, nil)

	_, err := svc.CompletePurchase(context.Background(), "u1", twoLines(), payData())
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepHistory {
		t.Fatalf("expected StepError at %s, got %v", StepHistory, err)
	}
	if payments.created != nil {
		t.Fatal("no payment may be written after a history failure")
	}
	if len(products.increments) != 0 {
		t.Fatal("no sold increments may run after a history failure")
	}

	final := payments.intentUpdates[len(payments.intentUpdates)-1]
	if final.status != domain.IntentFailed || final.failedStep != StepHistory {
		t.Fatalf("expected failed intent at %s, got %+v", StepHistory, final)
	}
}

func TestCompletePurchasePaymentStepFailure(t *testing.T) {
	users := &stubUserRepo{user: buyer()}
	products := &stubProductRepo{}
	payments := &stubPaymentRepo{createErr: errors.New("ledger down")}
	svc := newTestService(users, products, payments, nil)

	_, err := svc.CompletePurchase(context.Background(), "u1", twoLines(), payData())
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepPayment {
		t.Fatalf("expected StepError at %s, got %v", StepPayment, err)
	}

	// History was already committed: the purchase is in user history but
	// the ledger write is lost, left for manual reconciliation.
	if len(users.gotEntries) != 2 {
		t.Fatalf("expected history to remain recorded, got %d entries", len(users.gotEntries))
	}
	if len(products.increments) != 0 {
		t.Fatal("no sold increments may run after a payment failure")
	}

	final := payments.intentUpdates[len(payments.intentUpdates)-1]
	if final.status != domain.IntentFailed || final.failedStep != StepPayment {
		t.Fatalf("expected failed intent at %s, got %+v", StepPayment, final)
	}
}

func TestCompletePurchaseSoldCounterFailureStopsRun(t *testing.T) {
	users := &stubUserRepo{user: buyer()}
	products := &stubProductRepo{failAtCall: 2}
	payments := &stubPaymentRepo{}
	svc := newTestService(users, products, payments, nil)

	_, err := svc.CompletePurchase(context.Background(), "u1", twoLines(), payData())
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepSoldCounters {
		t.Fatalf("expected StepError at %s, got %v", StepSoldCounters, err)
	}

	// The first increment committed and is not rolled back.
	if len(products.increments) != 1 || products.increments[0].ProductID != "P1" {
		t.Fatalf("expected exactly the first increment to stand, got %+v", products.increments)
	}

	final := payments.intentUpdates[len(payments.intentUpdates)-1]
	if final.status != domain.IntentFailed || final.failedStep != StepSoldCounters {
		t.Fatalf("expected failed intent at %s, got %+v", StepSoldCounters, final)
	}
}

func TestCompletePurchaseInvalidatesCartCache(t *testing.T) {
	cartCache := &stubCache{}
	svc := New(&stubUserRepo{user: buyer()}, &stubProductRepo{}, &stubPaymentRepo{}, nil, cartCache, nil)

	_, err := svc.CompletePurchase(context.Background(), "u1", twoLines(), payData())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cartCache.deletes) != 1 || cartCache.deletes[0] != "u1" {
		t.Fatalf("expected one cache invalidation for u1 after the cart clear, got %v", cartCache.deletes)
	}
}

func TestCompletePurchaseHistoryFailureSkipsInvalidation(t *testing.T) {
	// The cart is only cleared by the history step; when that step fails the
	// cached cart is still accurate and must not be dropped.
	cartCache := &stubCache{}
	users := &stubUserRepo{user: buyer(), appendErr: errors.New("write failed")}
	svc := New(users, &stubProductRepo{}, &stubPaymentRepo{}, nil, cartCache, nil)

	_, err := svc.CompletePurchase(context.Background(), "u1", twoLines(), payData())
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepHistory {
		t.Fatalf("expected StepError at %s, got %v", StepHistory, err)
	}
	if len(cartCache.deletes) != 0 {
		t.Fatalf("expected no invalidation after a history failure, got %v", cartCache.deletes)
	}
}

func TestCompletePurchaseIntentFailureAbortsEverything(t *testing.T) {
	users := &stubUserRepo{user: buyer()}
	products := &stubProductRepo{}
	payments := &stubPaymentRepo{intentErr: errors.New("insert failed")}
	svc := newTestService(users, products, payments, nil)

	_, err := svc.CompletePurchase(context.Background(), "u1", twoLines(), payData())
	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Step != StepIntent {
		t.Fatalf("expected StepError at %s, got %v", StepIntent, err)
	}
	if users.gotEntries != nil || payments.created != nil || len(products.increments) != 0 {
		t.Fatal("no mutation may run when the intent cannot be recorded")
	}
}
