package test

import (
	"context"
	"sync"

	"github.com/polkiloo/orderservice/internal/domain/model"
)

// CartStub serves a fixed cart and records clear calls.
type CartStub struct {
	mu       sync.Mutex
	Cart     *model.Cart
	GetErr   error
	ClearErr error
	Cleared  int
	Tokens   []string
}

// Get returns Cart or GetErr.
func (s *CartStub) Get(_ context.Context, token string) (*model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Tokens = append(s.Tokens, token)
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	return s.Cart, nil
}

// Clear counts the call and returns ClearErr.
func (s *CartStub) Clear(context.Context, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cleared++
	return s.ClearErr
}

// StockSchedulerStub records scheduled stock adjustments.
type StockSchedulerStub struct {
	mu   sync.Mutex
	Jobs []model.StockAdjustment
}

// Schedule records job.
func (s *StockSchedulerStub) Schedule(job model.StockAdjustment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Jobs = append(s.Jobs, job)
}

// Scheduled returns a copy of the recorded jobs.
func (s *StockSchedulerStub) Scheduled() []model.StockAdjustment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StockAdjustment(nil), s.Jobs...)
}

// StockAdjusterStub records stock decrements and fails with Err.
type StockAdjusterStub struct {
	mu          sync.Mutex
	Err         error
	Calls       []model.StockAdjustment
	DecrementFn func(context.Context, string, int, string) error
}

// DecrementStock records the call and delegates to DecrementFn when set.
func (s *StockAdjusterStub) DecrementStock(ctx context.Context, productID string, quantity int, token string) error {
	s.mu.Lock()
	s.Calls = append(s.Calls, model.StockAdjustment{ProductID: productID, Quantity: quantity, Token: token})
	fn, err := s.DecrementFn, s.Err
	s.mu.Unlock()
	if fn != nil {
		return fn(ctx, productID, quantity, token)
	}
	return err
}

// Recorded returns a copy of the recorded calls.
func (s *StockAdjusterStub) Recorded() []model.StockAdjustment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StockAdjustment(nil), s.Calls...)
}

// PublisherStub records published events.
type PublisherStub struct {
	mu     sync.Mutex
	Events []model.OrderEvent
	Err    error
}

// Publish records event and returns Err.
func (s *PublisherStub) Publish(_ context.Context, event model.OrderEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
	return s.Err
}

// Published returns a copy of the recorded events.
func (s *PublisherStub) Published() []model.OrderEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OrderEvent(nil), s.Events...)
}

// VerifierStub resolves tokens via VerifyFn or fixed values.
type VerifierStub struct {
	Identity *model.Identity
	Err      error
	VerifyFn func(context.Context, string) (*model.Identity, error)
}

// Verify returns the configured identity.
func (s VerifierStub) Verify(ctx context.Context, token string) (*model.Identity, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, token)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Identity != nil {
		return s.Identity, nil
	}
	return &model.Identity{ID: "user-1", Email: "user@example.com", Name: "User", Role: "user"}, nil
}
