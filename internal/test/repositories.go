package test

import (
	"context"
	"sort"
	"sync"

	domainErrors "github.com/polkiloo/orderservice/internal/domain/errors"
	"github.com/polkiloo/orderservice/internal/domain/model"
	"github.com/polkiloo/orderservice/internal/domain/repository"
)

// OrderRepositoryStub keeps orders in memory and mimics store semantics.
type OrderRepositoryStub struct {
	mu      sync.Mutex
	Orders  []model.Order
	Err     error
	PingErr error
}

// NewOrderRepositoryStub constructs an empty repository.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{}
}

// Create stores a copy of order unless its number is taken.
func (s *OrderRepositoryStub) Create(_ context.Context, order *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.Orders {
		if existing.OrderNumber == order.OrderNumber || existing.ID == order.ID {
			return domainErrors.ErrAlreadyExists
		}
	}
	s.Orders = append(s.Orders, cloneOrder(*order))
	return nil
}

// GetForUser returns the order with id owned by userID.
func (s *OrderRepositoryStub) GetForUser(_ context.Context, id, userID string) (*model.Order, error) {
	return s.find(func(o model.Order) bool { return o.ID == id && o.UserID == userID })
}

// GetByNumberForUser returns the order with number owned by userID.
func (s *OrderRepositoryStub) GetByNumberForUser(_ context.Context, number, userID string) (*model.Order, error) {
	return s.find(func(o model.Order) bool { return o.OrderNumber == number && o.UserID == userID })
}

func (s *OrderRepositoryStub) find(match func(model.Order) bool) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, o := range s.Orders {
		if match(o) {
			found := cloneOrder(o)
			return &found, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List filters, sorts newest first and pages like the real stores.
func (s *OrderRepositoryStub) List(_ context.Context, filter model.OrderFilter) ([]model.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}

	var matched []model.Order
	for _, o := range s.Orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		matched = append(matched, cloneOrder(o))
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []model.Order{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

// UpdateStatus changes status, honouring expected when it is set.
func (s *OrderRepositoryStub) UpdateStatus(_ context.Context, id string, status model.OrderStatus, expected *model.OrderStatus) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for i := range s.Orders {
		if s.Orders[i].ID != id {
			continue
		}
		if expected != nil && s.Orders[i].Status != *expected {
			return nil, domainErrors.ErrNotFound
		}
		s.Orders[i].Status = status
		updated := cloneOrder(s.Orders[i])
		return &updated, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Stats groups stored orders by status.
func (s *OrderRepositoryStub) Stats(context.Context) (*model.OrderStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	stats := &model.OrderStats{}
	index := map[model.OrderStatus]int{}
	for _, o := range s.Orders {
		stats.TotalOrders++
		stats.TotalRevenue += o.TotalAmount
		i, ok := index[o.Status]
		if !ok {
			i = len(stats.ByStatus)
			index[o.Status] = i
			stats.ByStatus = append(stats.ByStatus, model.StatusStat{Status: o.Status})
		}
		stats.ByStatus[i].Count++
		stats.ByStatus[i].TotalAmount += o.TotalAmount
	}
	return stats, nil
}

// Ping returns PingErr.
func (s *OrderRepositoryStub) Ping(context.Context) error {
	return s.PingErr
}

// Snapshot returns a copy of every stored order.
func (s *OrderRepositoryStub) Snapshot() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0, len(s.Orders))
	for _, o := range s.Orders {
		out = append(out, cloneOrder(o))
	}
	return out
}

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	return o
}

var _ repository.OrderRepository = (*OrderRepositoryStub)(nil)
