package persist

// IntentRow mirrors one intent record.
type IntentRow struct {
	ID             uint64 `gorm:"primaryKey"`
	Submitter      string `gorm:"size:42;index"`
	Side           uint16
	Amount         uint64
	LimitPrice     uint64
	Symbol         string `gorm:"size:64;index"`
	CreatedSeq     uint64
	ExecutedAmount uint64
	Executed       bool
	Cancelled      bool
}

// TableName keeps the mirror tables under one prefix.
func (IntentRow) TableName() string { return "registry_intents" }

// ExecutionRow mirrors one execution record.
type ExecutionRow struct {
	IntentID       uint64 `gorm:"primaryKey"`
	Executor       string `gorm:"size:42"`
	ExecutedAmount uint64
	AvgPrice       uint64
	CreatedSeq     uint64
	ExecutionIndex uint64 `gorm:"index"`
}

func (ExecutionRow) TableName() string { return "registry_executions" }

// NoteRow journals every notification with its raw payload.
type NoteRow struct {
	Seq     uint64 `gorm:"primaryKey"`
	Type    uint16
	Clock   uint64
	Payload []byte
}

func (NoteRow) TableName() string { return "registry_notes" }
