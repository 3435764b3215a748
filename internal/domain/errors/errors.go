package errors

import "errors"

var (
	ErrAlreadyExists        = errors.New("already exists")
	ErrNotFound             = errors.New("not found")
	ErrInvalidToken         = errors.New("invalid auth token")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidCartItem      = errors.New("invalid cart item")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrOrderNotCancellable  = errors.New("only pending orders can be cancelled")
)

// CartError reports that the cart service could not provide the cart.
type CartError struct {
	Err error
}

func (e *CartError) Error() string {
	return "failed to retrieve cart: " + e.Err.Error()
}

func (e *CartError) Unwrap() error {
	return e.Err
}
