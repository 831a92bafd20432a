package exception

import "github.com/yanun0323/errors"

// Capacity errors
var (
	ErrCapacityExceeded = errors.New("max intents reached")
	ErrBulkLimit        = errors.New("bulk query exceeds limit")
)
