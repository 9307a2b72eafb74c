package service

import "errors"

var (
	ErrNotFound             = errors.New("error not found")
	ErrInvalidQuantity      = errors.New("error quantity must be a positive integer")
	ErrInsufficientQuantity = errors.New("error quantity exceeds held quantity")
	ErrUnknownBucket        = errors.New("error unknown ledger bucket")
)
