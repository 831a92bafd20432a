package exception

import "github.com/yanun0323/errors"

// Authorization errors
var (
	ErrUnauthorized  = errors.New("caller not authorized")
	ErrNotController = errors.New("caller is not the controller")
	ErrNotKeeper     = errors.New("caller is not the keeper")
	ErrNotOwner      = errors.New("caller is not the owner")
)
