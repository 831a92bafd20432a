package exception

import "github.com/yanun0323/errors"

// Validation errors
var (
	ErrInvalidSide       = errors.New("invalid intent side")
	ErrZeroAmount        = errors.New("amount is zero")
	ErrAmountOutOfBounds = errors.New("amount out of bounds")
	ErrZeroAddress       = errors.New("zero address")
	ErrInvalidBounds     = errors.New("min bound exceeds max bound")
	ErrInvalidFeeRate    = errors.New("fee rate exceeds denominator")
)
