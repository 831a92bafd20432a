package exception

import "github.com/yanun0323/errors"

// State errors
var (
	ErrNotFound         = errors.New("intent not found")
	ErrAlreadyExecuted  = errors.New("intent already executed")
	ErrAlreadyCancelled = errors.New("intent already cancelled")
	ErrPaused           = errors.New("registry paused")
	ErrReentrantCall    = errors.New("reentrant call")
)
