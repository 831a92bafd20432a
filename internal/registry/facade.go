package registry

import (
	"sync"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/clock"
	"main/internal/exception"
	"main/internal/intent"
	"main/internal/ledger"
	"main/internal/obs"
	"main/internal/policy"
	"main/internal/schema"
	"main/internal/treasury"
)

// Option carries optional collaborators for the registry.
type Option struct {
	Clock   *clock.Clock
	Queue   *bus.Queue
	Metrics *obs.Metrics
}

// Registry is the public operation surface. It validates caller roles
// and the global pause gate, delegates mutation to the intent store,
// ledger and treasury, and emits a notification for every state
// transition.
//
// Mutations serialize under one lock; each call is a fully-committed
// transaction before the next begins. Reads observe committed state
// only.
type Registry struct {
	mu sync.RWMutex

	cfg        schema.Config
	store      *intent.Store
	ledger     *ledger.Ledger
	treasury   *treasury.Account
	transferer treasury.Transferer
	clock      *clock.Clock
	queue      *bus.Queue
	metrics    *obs.Metrics

	noteSeq     uint64
	executing   bool
	withdrawing bool
}

// New creates a registry with the given initial config. The owner must
// be set and the config invariants must hold up front.
func New(cfg schema.Config, transferer treasury.Transferer, opt Option) (*Registry, error) {
	if cfg.Owner.IsZero() {
		return nil, exception.ErrZeroAddress
	}
	if cfg.MinAmount > cfg.MaxAmount {
		return nil, exception.ErrInvalidBounds
	}
	if cfg.FeeBps > schema.FeeDenominator {
		return nil, exception.ErrInvalidFeeRate
	}
	ck := opt.Clock
	if ck == nil {
		ck = clock.New(0)
	}
	store := intent.NewStore()
	return &Registry{
		cfg:        cfg,
		store:      store,
		ledger:     ledger.NewLedger(store),
		treasury:   treasury.NewAccount(),
		transferer: transferer,
		clock:      ck,
		queue:      opt.Queue,
		metrics:    opt.Metrics,
	}, nil
}

// Config returns the current config.
func (r *Registry) Config() schema.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Submit records a new intent from the controller.
func (r *Registry) Submit(caller schema.Address, req intent.SubmitRequest, feePaid schema.Amount) (uint64, error) {
	start := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.Paused {
		return 0, r.reject(exception.ErrPaused)
	}
	if !policy.IsController(r.cfg, caller) {
		return 0, r.reject(exception.ErrNotController)
	}
	now := r.clock.Tick()
	id, err := r.store.Submit(r.cfg, req, caller, feePaid, now)
	if err != nil {
		return 0, r.reject(err)
	}
	if feePaid > 0 {
		r.treasury.Deposit(feePaid)
	}
	r.emit(&schema.IntentSubmitted{
		BaseNote:   r.nextNote(),
		ID:         id,
		Submitter:  caller,
		Side:       req.Side,
		Amount:     req.Amount,
		LimitPrice: req.LimitPrice,
		Symbol:     req.Symbol,
	})
	r.metrics.ObserveSubmit(time.Since(start))
	return id, nil
}

// SubmitBatch records every entry or none, with ids assigned in entry
// order.
func (r *Registry) SubmitBatch(caller schema.Address, entries []intent.SubmitRequest, totalFeePaid schema.Amount) ([]uint64, error) {
	start := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.Paused {
		return nil, r.reject(exception.ErrPaused)
	}
	if !policy.IsController(r.cfg, caller) {
		return nil, r.reject(exception.ErrNotController)
	}
	now := r.clock.Tick()
	ids, err := r.store.SubmitBatch(r.cfg, entries, caller, totalFeePaid, now)
	if err != nil {
		return nil, r.reject(err)
	}
	if totalFeePaid > 0 {
		r.treasury.Deposit(totalFeePaid)
	}
	for i, id := range ids {
		r.emit(&schema.IntentSubmitted{
			BaseNote:   r.nextNote(),
			ID:         id,
			Submitter:  caller,
			Side:       entries[i].Side,
			Amount:     entries[i].Amount,
			LimitPrice: entries[i].LimitPrice,
			Symbol:     entries[i].Symbol,
		})
	}
	r.metrics.ObserveSubmit(time.Since(start))
	return ids, nil
}

// Execute fulfills a pending intent. Keeper only, rejected while
// paused, and guarded against nested re-entry.
func (r *Registry) Execute(caller schema.Address, id uint64, executedAmount schema.Amount, avgPrice schema.Price) error {
	start := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.executing {
		return r.reject(exception.ErrReentrantCall)
	}
	r.executing = true
	defer func() { r.executing = false }()

	if r.cfg.Paused {
		return r.reject(exception.ErrPaused)
	}
	if !policy.IsKeeper(r.cfg, caller) {
		return r.reject(exception.ErrNotKeeper)
	}
	now := r.clock.Tick()
	if err := r.ledger.Execute(id, executedAmount, avgPrice, caller, now); err != nil {
		return r.reject(err)
	}
	r.emit(&schema.IntentExecuted{
		BaseNote:       r.nextNote(),
		ID:             id,
		Executor:       caller,
		ExecutedAmount: executedAmount,
		AvgPrice:       avgPrice,
	})
	r.metrics.ObserveExecute(time.Since(start))
	return nil
}

// Cancel unwinds a pending intent. Allowed while paused so the
// submitter or owner can always exit.
func (r *Registry) Cancel(caller schema.Address, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Cancel(id, caller, r.cfg.Owner); err != nil {
		return r.reject(err)
	}
	r.clock.Tick()
	r.emit(&schema.IntentCancelled{
		BaseNote: r.nextNote(),
		ID:       id,
		By:       caller,
	})
	return nil
}

// Deposit credits the treasury unconditionally.
func (r *Registry) Deposit(from schema.Address, amount schema.Amount) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.treasury.Deposit(amount)
	r.emit(&schema.TreasuryTopped{
		BaseNote: r.nextNote(),
		From:     from,
		Amount:   amount,
	})
}

// Withdraw moves treasury funds out through the transferer. Owner
// only. The debit and the in-progress flag commit under the lock,
// then the lock is released while the external transfer runs: a
// callback into the registry observes the already-debited balance and
// a nested withdraw fails with ErrReentrantCall. The debit is rolled
// back if the transfer fails.
func (r *Registry) Withdraw(caller, to schema.Address, amount schema.Amount) error {
	r.mu.Lock()
	if r.withdrawing {
		r.mu.Unlock()
		return r.reject(exception.ErrReentrantCall)
	}
	if err := r.treasury.Withdraw(to, amount, caller, r.cfg.Owner); err != nil {
		r.mu.Unlock()
		return r.reject(err)
	}
	r.withdrawing = true
	r.mu.Unlock()

	err := r.transferer.Transfer(to, amount)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.withdrawing = false
	if err != nil {
		r.treasury.Refund(amount)
		return r.reject(exception.ErrTransferFailed)
	}
	r.emit(&schema.TreasuryWithdrawn{
		BaseNote: r.nextNote(),
		To:       to,
		Amount:   amount,
	})
	return nil
}

// TreasuryBalance returns the current treasury balance.
func (r *Registry) TreasuryBalance() schema.Amount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.treasury.Balance()
}

// SetController rotates the controller. Owner only, effective
// immediately.
func (r *Registry) SetController(caller, controller schema.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !policy.IsOwner(r.cfg, caller) {
		return r.reject(exception.ErrNotOwner)
	}
	if controller.IsZero() {
		return r.reject(exception.ErrZeroAddress)
	}
	r.cfg.Controller = controller
	logs.Infof("controller changed: %s", controller)
	r.emit(&schema.ControllerChanged{BaseNote: r.nextNote(), Controller: controller})
	return nil
}

// SetKeeper rotates the keeper. Owner only, effective immediately.
func (r *Registry) SetKeeper(caller, keeper schema.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !policy.IsOwner(r.cfg, caller) {
		return r.reject(exception.ErrNotOwner)
	}
	if keeper.IsZero() {
		return r.reject(exception.ErrZeroAddress)
	}
	r.cfg.Keeper = keeper
	logs.Infof("keeper changed: %s", keeper)
	r.emit(&schema.KeeperChanged{BaseNote: r.nextNote(), Keeper: keeper})
	return nil
}

// SetBounds updates the execution amount bounds. Owner only.
func (r *Registry) SetBounds(caller schema.Address, min, max schema.Amount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !policy.IsOwner(r.cfg, caller) {
		return r.reject(exception.ErrNotOwner)
	}
	if min > max {
		return r.reject(exception.ErrInvalidBounds)
	}
	r.cfg.MinAmount, r.cfg.MaxAmount = min, max
	r.emit(&schema.BoundsChanged{BaseNote: r.nextNote(), MinAmount: min, MaxAmount: max})
	return nil
}

// SetFeeBps updates the fee rate. Owner only.
func (r *Registry) SetFeeBps(caller schema.Address, feeBps uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !policy.IsOwner(r.cfg, caller) {
		return r.reject(exception.ErrNotOwner)
	}
	if feeBps > schema.FeeDenominator {
		return r.reject(exception.ErrInvalidFeeRate)
	}
	r.cfg.FeeBps = feeBps
	r.emit(&schema.FeeChanged{BaseNote: r.nextNote(), FeeBps: feeBps})
	return nil
}

// SetPaused flips the global pause gate. Owner only. While paused,
// submit and execute are rejected; cancel stays allowed.
func (r *Registry) SetPaused(caller schema.Address, paused bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !policy.IsOwner(r.cfg, caller) {
		return r.reject(exception.ErrNotOwner)
	}
	r.cfg.Paused = paused
	logs.Infof("pause gate: %t", paused)
	r.emit(&schema.PauseToggled{BaseNote: r.nextNote(), Paused: paused})
	return nil
}

func (r *Registry) nextNote() schema.BaseNote {
	r.noteSeq++
	return schema.BaseNote{Seq: r.noteSeq, Clock: r.clock.Now()}
}

func (r *Registry) emit(n schema.Note) {
	r.metrics.ObserveNote(n.NoteType())
	if r.queue == nil {
		return
	}
	if err := r.queue.TryPublish(n); err != nil {
		switch err {
		case bus.ErrQueueFull:
			r.metrics.IncQueueDrop()
		case bus.ErrQueueClosed:
			r.metrics.IncQueueClosed()
		}
		logs.Errorf("drop notification type=%d seq=%d, err: %+v", n.NoteType(), n.NoteSeq(), err)
	}
}

func (r *Registry) reject(err error) error {
	r.metrics.IncRejection()
	return err
}
