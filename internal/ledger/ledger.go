package ledger

import (
	"math/bits"

	"main/internal/exception"
	"main/internal/intent"
	"main/internal/schema"
)

// Ledger records at most one execution per intent and keeps the
// insertion-ordered execution history. It shares the intent store so
// that marking an intent executed and recording the fill commit as one
// step under the caller's serialization.
type Ledger struct {
	store   *intent.Store
	records map[uint64]*schema.ExecutionRecord
	order   []uint64
}

// NewLedger creates an empty ledger over the given store.
func NewLedger(store *intent.Store) *Ledger {
	return &Ledger{
		store:   store,
		records: make(map[uint64]*schema.ExecutionRecord),
	}
}

// Count returns the number of executions recorded.
func (l *Ledger) Count() int {
	return len(l.order)
}

// Execute fulfills a pending intent. The terminal-state check on the
// intent enforces at-most-one execution per id; once MarkExecuted
// succeeds nothing below it can fail, so the two writes commit
// together.
func (l *Ledger) Execute(id uint64, executedAmount schema.Amount, avgPrice schema.Price, executor schema.Address, now schema.Seq) error {
	if err := l.store.MarkExecuted(id, executedAmount); err != nil {
		return err
	}
	l.records[id] = &schema.ExecutionRecord{
		IntentID:       id,
		Executor:       executor,
		ExecutedAmount: executedAmount,
		AvgPrice:       avgPrice,
		Created:        now,
	}
	l.order = append(l.order, id)
	return nil
}

// Record returns the execution record for the intent id.
func (l *Ledger) Record(id uint64) (schema.ExecutionRecord, error) {
	rec, ok := l.records[id]
	if !ok {
		return schema.ExecutionRecord{}, exception.ErrNotFound
	}
	return *rec, nil
}

// RecordsFor fetches records for a caller-supplied id list, capped at
// schema.MaxBulkQuery. Ids without an execution yield a zero-valued
// record instead of failing. This is deliberately asymmetric with
// intent.Store.GetMany, which fails outright on a missing id.
func (l *Ledger) RecordsFor(ids []uint64) ([]schema.ExecutionRecord, error) {
	if len(ids) > schema.MaxBulkQuery {
		return nil, exception.ErrBulkLimit
	}
	out := make([]schema.ExecutionRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := l.records[id]; ok {
			out = append(out, *rec)
		} else {
			out = append(out, schema.ExecutionRecord{})
		}
	}
	return out, nil
}

// LastN returns up to n executed intent ids in reverse execution order.
func (l *Ledger) LastN(n int) []uint64 {
	if n <= 0 {
		return nil
	}
	if n > len(l.order) {
		n = len(l.order)
	}
	out := make([]uint64, 0, n)
	for i := len(l.order) - 1; i >= len(l.order)-n; i-- {
		out = append(out, l.order[i])
	}
	return out
}

// Range returns executed intent ids for the inclusive index range
// [from, to] of the execution-order index, with the same clamp rules
// as the intent store.
func (l *Ledger) Range(from, to int) []uint64 {
	if from < 0 || from >= len(l.order) || from > to {
		return nil
	}
	if to >= len(l.order) {
		to = len(l.order) - 1
	}
	out := make([]uint64, to-from+1)
	copy(out, l.order[from:to+1])
	return out
}

// Counts scans the intent index and returns pending, executed and
// cancelled totals. O(n) over all intents.
func (l *Ledger) Counts() (pending, executed, cancelled int) {
	l.store.ForEach(func(it schema.Intent) bool {
		switch {
		case it.Executed:
			executed++
		case it.Cancelled:
			cancelled++
		default:
			pending++
		}
		return true
	})
	return pending, executed, cancelled
}

// VolumeBySide sums requested amounts for one side. O(n).
func (l *Ledger) VolumeBySide(side schema.Side) schema.Amount {
	var sum schema.Amount
	l.store.ForEach(func(it schema.Intent) bool {
		if it.Side == side {
			sum += it.Amount
		}
		return true
	})
	return sum
}

// VolumeBySymbol sums requested amounts for one symbol. O(n).
func (l *Ledger) VolumeBySymbol(symbol schema.SymbolHash) schema.Amount {
	var sum schema.Amount
	l.store.ForEach(func(it schema.Intent) bool {
		if it.Symbol == symbol {
			sum += it.Amount
		}
		return true
	})
	return sum
}

// VolumeBySubmitter sums requested amounts for one submitter. O(n).
func (l *Ledger) VolumeBySubmitter(submitter schema.Address) schema.Amount {
	var sum schema.Amount
	l.store.ForEach(func(it schema.Intent) bool {
		if it.Submitter == submitter {
			sum += it.Amount
		}
		return true
	})
	return sum
}

// FillRateBps returns executed-amount over requested-amount across all
// executed intents, in basis points. O(n).
func (l *Ledger) FillRateBps() uint64 {
	var requested, filled uint64
	l.store.ForEach(func(it schema.Intent) bool {
		if it.Executed {
			requested += uint64(it.Amount)
			filled += uint64(it.ExecutedAmount)
		}
		return true
	})
	return rateBps(filled, requested)
}

// CancellationRateBps returns cancelled intents over all intents, in
// basis points. O(n).
func (l *Ledger) CancellationRateBps() uint64 {
	_, _, cancelled := l.Counts()
	return rateBps(uint64(cancelled), uint64(l.store.Len()))
}

// ExecutionRateBps returns executed intents over all intents, in basis
// points. O(n).
func (l *Ledger) ExecutionRateBps() uint64 {
	_, executed, _ := l.Counts()
	return rateBps(uint64(executed), uint64(l.store.Len()))
}

// rateBps computes part/whole in basis points with a 128-bit
// intermediate so part*10000 cannot overflow.
func rateBps(part, whole uint64) uint64 {
	if whole == 0 {
		return 0
	}
	hi, lo := bits.Mul64(part, schema.FeeDenominator)
	if hi >= whole {
		return schema.FeeDenominator
	}
	quo, _ := bits.Div64(hi, lo, whole)
	return quo
}
