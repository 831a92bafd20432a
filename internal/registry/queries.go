package registry

import (
	"main/internal/policy"
	"main/internal/schema"
)

// Read-only accessors. All are thin views over the store and ledger
// indexes; the aggregate queries are O(n) scans, kept that way on
// purpose so query results never depend on derived counters.

// IntentCount returns the total number of intents ever submitted.
func (r *Registry) IntentCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Len()
}

// GetIntent returns the intent by id.
func (r *Registry) GetIntent(id uint64) (schema.Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Get(id)
}

// GetIntents bulk-fetches intents; fails on the first missing id.
func (r *Registry) GetIntents(ids []uint64) ([]schema.Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.GetMany(ids)
}

// IntentsBySubmitter returns ids submitted by the address.
func (r *Registry) IntentsBySubmitter(submitter schema.Address) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.BySubmitter(submitter)
}

// IntentsBySymbol returns ids for the symbol.
func (r *Registry) IntentsBySymbol(symbol schema.SymbolHash) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.BySymbol(symbol)
}

// IntentIDAt returns the id at a submission-order index.
func (r *Registry) IntentIDAt(index int) (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.IDAt(index)
}

// IntentRange returns ids for an inclusive submission-order index range.
func (r *Registry) IntentRange(from, to int) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Range(from, to)
}

// LastNIntentIDs returns up to n ids in reverse submission order.
func (r *Registry) LastNIntentIDs(n int) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.LastN(n)
}

// IntentsBySeqRange returns ids created in an inclusive clock window.
func (r *Registry) IntentsBySeqRange(from, to schema.Seq) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.SeqRange(from, to)
}

// ExecutionRecord returns the execution record for an intent id.
func (r *Registry) ExecutionRecord(id uint64) (schema.ExecutionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.Record(id)
}

// ExecutionsFor bulk-fetches execution records; missing ids yield
// zero-valued records.
func (r *Registry) ExecutionsFor(ids []uint64) ([]schema.ExecutionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.RecordsFor(ids)
}

// LastNExecutions returns up to n intent ids in reverse execution order.
func (r *Registry) LastNExecutions(n int) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.LastN(n)
}

// ExecutionRange returns ids for an inclusive execution-order index range.
func (r *Registry) ExecutionRange(from, to int) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.Range(from, to)
}

// ExecutionCount returns the number of executions recorded.
func (r *Registry) ExecutionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.Count()
}

// Counts returns pending, executed and cancelled intent totals.
func (r *Registry) Counts() (pending, executed, cancelled int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.Counts()
}

// VolumeBySide sums requested amounts for one side.
func (r *Registry) VolumeBySide(side schema.Side) schema.Amount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.VolumeBySide(side)
}

// VolumeBySymbol sums requested amounts for one symbol.
func (r *Registry) VolumeBySymbol(symbol schema.SymbolHash) schema.Amount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.VolumeBySymbol(symbol)
}

// VolumeBySubmitter sums requested amounts for one submitter.
func (r *Registry) VolumeBySubmitter(submitter schema.Address) schema.Amount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.VolumeBySubmitter(submitter)
}

// FillRateBps returns the executed fill rate in basis points.
func (r *Registry) FillRateBps() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.FillRateBps()
}

// CancellationRateBps returns the cancellation rate in basis points.
func (r *Registry) CancellationRateBps() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.CancellationRateBps()
}

// ExecutionRateBps returns the execution rate in basis points.
func (r *Registry) ExecutionRateBps() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.ExecutionRateBps()
}

// IsController reports whether the address is the controller.
func (r *Registry) IsController(a schema.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return policy.IsController(r.cfg, a)
}

// IsKeeper reports whether the address is the keeper.
func (r *Registry) IsKeeper(a schema.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return policy.IsKeeper(r.cfg, a)
}

// CanCancel reports whether the caller may cancel the intent.
func (r *Registry) CanCancel(id uint64, caller schema.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, err := r.store.Get(id)
	if err != nil {
		return false
	}
	return policy.CanCancel(r.cfg, it, caller)
}

// CanExecute reports whether the intent is executable right now.
func (r *Registry) CanExecute(id uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, err := r.store.Get(id)
	if err != nil {
		return false
	}
	return policy.CanExecute(r.cfg, it)
}
