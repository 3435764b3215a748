package model

// CartItem is a line of the external cart service snapshot.
type CartItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       float64
}

// Cart is the snapshot returned by the cart service at checkout.
type Cart struct {
	Items       []CartItem
	TotalAmount float64
	TotalItems  int
}
