package schema

import "math/bits"

// Intent is a submitted buy/sell signal awaiting execution or cancellation.
// A zero Created marks an absent record.
type Intent struct {
	ID             uint64
	Submitter      Address
	Side           Side
	Amount         Amount
	LimitPrice     Price
	Symbol         SymbolHash
	Created        Seq
	ExecutedAmount Amount
	Executed       bool
	Cancelled      bool
}

// Terminal reports whether the intent reached a final state.
func (i Intent) Terminal() bool {
	return i.Executed || i.Cancelled
}

// Pending reports whether the intent is still open.
func (i Intent) Pending() bool {
	return i.Created != 0 && !i.Terminal()
}

// ExecutionRecord is the one-time fulfillment of an intent.
type ExecutionRecord struct {
	IntentID       uint64
	Executor       Address
	ExecutedAmount Amount
	AvgPrice       Price
	Created        Seq
}

// Config is the registry's mutable process-wide state.
type Config struct {
	Owner      Address
	Controller Address
	Keeper     Address
	Paused     bool
	FeeBps     uint64
	MinAmount  Amount
	MaxAmount  Amount
}

// FeeFor computes the required fee for an amount at the configured rate.
// The 128-bit intermediate keeps amount*feeBps from overflowing.
func (c Config) FeeFor(amount Amount) Amount {
	if c.FeeBps == 0 || amount == 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(amount), c.FeeBps)
	quo, _ := bits.Div64(hi, lo, FeeDenominator)
	return Amount(quo)
}
