package schema

// NoteType defines the category of a registry notification.
type NoteType uint16

const (
	NoteUnknown NoteType = iota
	NoteIntentSubmitted
	NoteIntentExecuted
	NoteIntentCancelled
	NoteControllerChanged
	NoteKeeperChanged
	NoteBoundsChanged
	NoteFeeChanged
	NoteTreasuryTopped
	NoteTreasuryWithdrawn
	NotePauseToggled
)

// Note is a state-transition notification emitted by the registry.
type Note interface {
	NoteSeq() uint64
	NoteClock() Seq
	NoteType() NoteType
}

// BaseNote carries the fields common to every notification.
// Seq is the monotonic notification counter, Clock the logical-clock
// value at emission time.
type BaseNote struct {
	Seq   uint64 `json:"seq"`
	Clock Seq    `json:"clock"`
}

func (n BaseNote) NoteSeq() uint64 { return n.Seq }
func (n BaseNote) NoteClock() Seq  { return n.Clock }

// IntentSubmitted is emitted when a new intent enters the registry.
type IntentSubmitted struct {
	BaseNote
	ID         uint64     `json:"id"`
	Submitter  Address    `json:"submitter"`
	Side       Side       `json:"side"`
	Amount     Amount     `json:"amount"`
	LimitPrice Price      `json:"limitPrice"`
	Symbol     SymbolHash `json:"symbol"`
}

func (IntentSubmitted) NoteType() NoteType { return NoteIntentSubmitted }

// IntentExecuted is emitted when a keeper fulfills an intent.
type IntentExecuted struct {
	BaseNote
	ID             uint64  `json:"id"`
	Executor       Address `json:"executor"`
	ExecutedAmount Amount  `json:"executedAmount"`
	AvgPrice       Price   `json:"avgPrice"`
}

func (IntentExecuted) NoteType() NoteType { return NoteIntentExecuted }

// IntentCancelled is emitted when an intent is unwound.
type IntentCancelled struct {
	BaseNote
	ID uint64  `json:"id"`
	By Address `json:"by"`
}

func (IntentCancelled) NoteType() NoteType { return NoteIntentCancelled }

// ControllerChanged is emitted when the owner rotates the controller.
type ControllerChanged struct {
	BaseNote
	Controller Address `json:"controller"`
}

func (ControllerChanged) NoteType() NoteType { return NoteControllerChanged }

// KeeperChanged is emitted when the owner rotates the keeper.
type KeeperChanged struct {
	BaseNote
	Keeper Address `json:"keeper"`
}

func (KeeperChanged) NoteType() NoteType { return NoteKeeperChanged }

// BoundsChanged is emitted when the owner updates execution bounds.
type BoundsChanged struct {
	BaseNote
	MinAmount Amount `json:"minAmount"`
	MaxAmount Amount `json:"maxAmount"`
}

func (BoundsChanged) NoteType() NoteType { return NoteBoundsChanged }

// FeeChanged is emitted when the owner updates the fee rate.
type FeeChanged struct {
	BaseNote
	FeeBps uint64 `json:"feeBps"`
}

func (FeeChanged) NoteType() NoteType { return NoteFeeChanged }

// TreasuryTopped is emitted on every fee deposit.
type TreasuryTopped struct {
	BaseNote
	From   Address `json:"from"`
	Amount Amount  `json:"amount"`
}

func (TreasuryTopped) NoteType() NoteType { return NoteTreasuryTopped }

// TreasuryWithdrawn is emitted on a successful owner withdrawal.
type TreasuryWithdrawn struct {
	BaseNote
	To     Address `json:"to"`
	Amount Amount  `json:"amount"`
}

func (TreasuryWithdrawn) NoteType() NoteType { return NoteTreasuryWithdrawn }

// PauseToggled is emitted when the owner flips the pause gate.
type PauseToggled struct {
	BaseNote
	Paused bool `json:"paused"`
}

func (PauseToggled) NoteType() NoteType { return NotePauseToggled }
