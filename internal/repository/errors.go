package repository

import "errors"

var (
	ErrNotFound        = errors.New("cart not found")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidLine     = errors.New("cart line must have a product id")
	ErrInvalidQuantity = errors.New("cart line quantity must be positive")
)
