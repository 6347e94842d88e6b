package wallet

import "errors"

var (
	ErrInvalidSeed      = errors.New("invalid family seed")
	ErrInvalidAddress   = errors.New("invalid account address")
	ErrNotFound         = errors.New("wallet not found")
	ErrDuplicateAddress = errors.New("wallet address already registered")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSealOpen         = errors.New("sealed seed cannot be opened")
)
