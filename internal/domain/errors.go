package domain

import "errors"

// Catalog and cart errors
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductExists      = errors.New("product with this id already exists")
	ErrProductUnavailable = errors.New("product has been discontinued")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrInvalidVariant     = errors.New("size or color is not offered for this product")
	ErrInvalidCategory    = errors.New("unknown product category")
	ErrInvalidPrice       = errors.New("price must be greater than zero")
	ErrCartLineNotFound   = errors.New("cart line not found")
	ErrEmptyCart          = errors.New("cart is empty")
)

// Order errors
var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidOrderStatus      = errors.New("unknown order status")
	ErrInvalidStatusTransition = errors.New("order status can only move forward")
)

// Account errors
var (
	ErrAccountNotFound         = errors.New("account not found")
	ErrAccountExists           = errors.New("account with this email already exists")
	ErrPaymentMethodNotFound   = errors.New("payment method not found")
	ErrPaymentMethodRequired   = errors.New("a payment method is required to check out")
	ErrInvalidCardNumber       = errors.New("card number must contain exactly 16 digits")
	ErrInvalidPaymentMethod    = errors.New("unsupported payment method")
	ErrInvalidRating           = errors.New("rating must be between 1 and 5")
	ErrUnsupportedStateVersion = errors.New("persisted state has an unsupported version")
)
