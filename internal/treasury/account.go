package treasury

import (
	"main/internal/exception"
	"main/internal/schema"
)

// Transferer moves value out of the registry.
type Transferer interface {
	Transfer(to schema.Address, amount schema.Amount) error
}

// Account accumulates fee deposits and permits bounded withdrawal by
// the owner. The balance never goes below zero.
//
// The account performs no locking and runs no external calls. Callers
// serialize mutations, debit before running the transfer and roll the
// debit back with Refund if the transfer fails, the way the registry
// facade does.
type Account struct {
	balance schema.Amount
}

// NewAccount creates an empty account.
func NewAccount() *Account {
	return &Account{}
}

// Balance returns the current balance.
func (a *Account) Balance() schema.Amount {
	return a.balance
}

// Deposit credits the balance. The balance saturates at the maximum
// representable amount rather than wrapping.
func (a *Account) Deposit(amount schema.Amount) {
	if a.balance+amount < a.balance {
		a.balance = ^schema.Amount(0)
		return
	}
	a.balance += amount
}

// Withdraw validates and debits the balance. The external transfer is
// the caller's side of the transaction.
func (a *Account) Withdraw(to schema.Address, amount schema.Amount, caller, owner schema.Address) error {
	if caller != owner {
		return exception.ErrUnauthorized
	}
	if to.IsZero() {
		return exception.ErrZeroAddress
	}
	if amount == 0 {
		return exception.ErrZeroAmount
	}
	if amount > a.balance {
		return exception.ErrTransferFailed
	}
	a.balance -= amount
	return nil
}

// Refund restores a debit whose transfer failed.
func (a *Account) Refund(amount schema.Amount) {
	a.balance += amount
}
