package model

import "time"

// OrderEventType names an order lifecycle event.
type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
)

// OrderEvent is published after an order is created or changes status.
type OrderEvent struct {
	Type           OrderEventType
	OrderID        string
	OrderNumber    string
	UserID         string
	Status         OrderStatus
	PreviousStatus OrderStatus
	TotalAmount    float64
	OccurredAt     time.Time
}
