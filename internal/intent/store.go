package intent

import (
	"main/internal/exception"
	"main/internal/schema"
)

// SubmitRequest describes one intent to be created.
type SubmitRequest struct {
	Side       schema.Side
	Amount     schema.Amount
	LimitPrice schema.Price
	Symbol     schema.SymbolHash
}

// Store owns intent records and their secondary indexes. Ids grow
// monotonically from 1; 0 is reserved for "absent". Records are never
// deleted and index entries are never removed, including after
// execution or cancellation.
//
// The store performs no locking. Callers serialize all mutations, the
// way the registry facade does.
type Store struct {
	intents     map[uint64]*schema.Intent
	order       []uint64
	bySubmitter map[schema.Address][]uint64
	bySymbol    map[schema.SymbolHash][]uint64
	lastID      uint64
}

// NewStore creates an empty intent store.
func NewStore() *Store {
	return &Store{
		intents:     make(map[uint64]*schema.Intent),
		bySubmitter: make(map[schema.Address][]uint64),
		bySymbol:    make(map[schema.SymbolHash][]uint64),
	}
}

// Len returns the total number of intents ever stored.
func (s *Store) Len() int {
	return len(s.order)
}

// LastID returns the most recently issued intent id.
func (s *Store) LastID() uint64 {
	return s.lastID
}

func validateRequest(cfg schema.Config, req SubmitRequest) error {
	if !req.Side.Valid() {
		return exception.ErrInvalidSide
	}
	if req.Amount == 0 {
		return exception.ErrZeroAmount
	}
	if req.Amount < cfg.MinAmount || req.Amount > cfg.MaxAmount {
		return exception.ErrAmountOutOfBounds
	}
	return nil
}

// Submit validates the request against the config and stores a new
// pending intent stamped with the given clock value. It returns the
// allocated id. Fee receipt is validated here; crediting the treasury
// is the caller's side of the transaction.
func (s *Store) Submit(cfg schema.Config, req SubmitRequest, submitter schema.Address, feePaid schema.Amount, now schema.Seq) (uint64, error) {
	if err := validateRequest(cfg, req); err != nil {
		return 0, err
	}
	if len(s.order) >= schema.MaxIntents {
		return 0, exception.ErrCapacityExceeded
	}
	if feePaid < cfg.FeeFor(req.Amount) {
		return 0, exception.ErrInsufficientFee
	}
	return s.commit(req, submitter, now), nil
}

// SubmitBatch stores every entry or none. Entries are validated up
// front; on success ids are assigned in entry order.
func (s *Store) SubmitBatch(cfg schema.Config, entries []SubmitRequest, submitter schema.Address, totalFeePaid schema.Amount, now schema.Seq) ([]uint64, error) {
	for _, req := range entries {
		if err := validateRequest(cfg, req); err != nil {
			return nil, err
		}
	}
	if len(s.order)+len(entries) > schema.MaxIntents {
		return nil, exception.ErrCapacityExceeded
	}
	var required schema.Amount
	for _, req := range entries {
		fee := cfg.FeeFor(req.Amount)
		if required+fee < required {
			return nil, exception.ErrInsufficientFee
		}
		required += fee
	}
	if totalFeePaid < required {
		return nil, exception.ErrInsufficientFee
	}

	ids := make([]uint64, 0, len(entries))
	for _, req := range entries {
		ids = append(ids, s.commit(req, submitter, now))
	}
	return ids, nil
}

func (s *Store) commit(req SubmitRequest, submitter schema.Address, now schema.Seq) uint64 {
	s.lastID++
	id := s.lastID
	s.intents[id] = &schema.Intent{
		ID:         id,
		Submitter:  submitter,
		Side:       req.Side,
		Amount:     req.Amount,
		LimitPrice: req.LimitPrice,
		Symbol:     req.Symbol,
		Created:    now,
	}
	s.order = append(s.order, id)
	s.bySubmitter[submitter] = append(s.bySubmitter[submitter], id)
	s.bySymbol[req.Symbol] = append(s.bySymbol[req.Symbol], id)
	return id
}

// Cancel marks a pending intent cancelled. Only the intent's submitter
// or the owner may cancel.
func (s *Store) Cancel(id uint64, caller, owner schema.Address) error {
	rec, ok := s.intents[id]
	if !ok || rec.Created == 0 {
		return exception.ErrNotFound
	}
	if rec.Executed {
		return exception.ErrAlreadyExecuted
	}
	if rec.Cancelled {
		return exception.ErrAlreadyCancelled
	}
	if caller != rec.Submitter && caller != owner {
		return exception.ErrUnauthorized
	}
	rec.Cancelled = true
	return nil
}

// MarkExecuted transitions a pending intent to executed with the given
// fill amount. The terminal-state check makes execution exclusive with
// cancellation and with itself.
func (s *Store) MarkExecuted(id uint64, executedAmount schema.Amount) error {
	rec, ok := s.intents[id]
	if !ok || rec.Created == 0 {
		return exception.ErrNotFound
	}
	if rec.Executed {
		return exception.ErrAlreadyExecuted
	}
	if rec.Cancelled {
		return exception.ErrAlreadyCancelled
	}
	if executedAmount == 0 || executedAmount > rec.Amount {
		return exception.ErrAmountOutOfBounds
	}
	rec.Executed = true
	rec.ExecutedAmount = executedAmount
	return nil
}

// Get returns a copy of the intent.
func (s *Store) Get(id uint64) (schema.Intent, error) {
	rec, ok := s.intents[id]
	if !ok || rec.Created == 0 {
		return schema.Intent{}, exception.ErrNotFound
	}
	return *rec, nil
}

// GetMany fetches intents for a caller-supplied id list. The list is
// capped at schema.MaxBulkQuery and the fetch fails on the first
// missing id, returning no partial results.
func (s *Store) GetMany(ids []uint64) ([]schema.Intent, error) {
	if len(ids) > schema.MaxBulkQuery {
		return nil, exception.ErrBulkLimit
	}
	out := make([]schema.Intent, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// BySubmitter returns the ids submitted by the address, in submission order.
func (s *Store) BySubmitter(submitter schema.Address) []uint64 {
	return cloneIDs(s.bySubmitter[submitter])
}

// BySymbol returns the ids for the symbol, in submission order.
func (s *Store) BySymbol(symbol schema.SymbolHash) []uint64 {
	return cloneIDs(s.bySymbol[symbol])
}

// IDAt returns the intent id at the given position of the global
// submission-order index.
func (s *Store) IDAt(index int) (uint64, bool) {
	if index < 0 || index >= len(s.order) {
		return 0, false
	}
	return s.order[index], true
}

// Range returns ids for the inclusive index range [from, to]. The
// upper bound is clamped to the last valid index; an out-of-range from
// or an inverted range yields an empty slice.
func (s *Store) Range(from, to int) []uint64 {
	if from < 0 || from >= len(s.order) || from > to {
		return nil
	}
	if to >= len(s.order) {
		to = len(s.order) - 1
	}
	return cloneIDs(s.order[from : to+1])
}

// LastN returns up to n ids in reverse submission order.
func (s *Store) LastN(n int) []uint64 {
	if n <= 0 {
		return nil
	}
	if n > len(s.order) {
		n = len(s.order)
	}
	out := make([]uint64, 0, n)
	for i := len(s.order) - 1; i >= len(s.order)-n; i-- {
		out = append(out, s.order[i])
	}
	return out
}

// SeqRange returns ids created within the inclusive logical-clock
// window [from, to]. Linear scan over the submission-order index.
func (s *Store) SeqRange(from, to schema.Seq) []uint64 {
	var out []uint64
	for _, id := range s.order {
		created := s.intents[id].Created
		if created >= from && created <= to {
			out = append(out, id)
		}
	}
	return out
}

// ForEach visits every intent in submission order until fn returns
// false. Aggregate queries are full scans over this index.
func (s *Store) ForEach(fn func(schema.Intent) bool) {
	for _, id := range s.order {
		if !fn(*s.intents[id]) {
			return
		}
	}
}

func cloneIDs(ids []uint64) []uint64 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out
}
