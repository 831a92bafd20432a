package exception

import "github.com/yanun0323/errors"

// Funds errors
var (
	ErrInsufficientFee = errors.New("insufficient fee paid")
	ErrTransferFailed  = errors.New("transfer failed")
)
