package model

// CheckoutInput carries the user supplied part of an order.
type CheckoutInput struct {
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	Notes           string
}

// StockAdjustment asks the product service to decrement stock for one item.
type StockAdjustment struct {
	OrderNumber string
	ProductID   string
	Quantity    int
	Token       string
}
