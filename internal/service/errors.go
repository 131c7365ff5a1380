package service

import "errors"

var (
	ErrMissingField    = errors.New("required field is missing")
	ErrInvalidPrice    = errors.New("price must be a non-negative number")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)
