package persist

import (
	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"main/internal/schema"
	"main/pkg/conn"
)

// Mirror copies registry notifications into Postgres. It is a
// write-only observer of the notification stream: the in-memory
// registry stays the system of record and never reads back from here.
type Mirror struct {
	db        *gorm.DB
	execIndex uint64
}

// NewMirror migrates the mirror tables and returns a mirror bound to
// the client.
func NewMirror(client *conn.Client) (*Mirror, error) {
	db := client.DB()
	if db == nil {
		return nil, errors.New("nil postgres client")
	}
	if err := db.AutoMigrate(&IntentRow{}, &ExecutionRow{}, &NoteRow{}); err != nil {
		return nil, errors.Wrap(err, "migrate mirror tables")
	}
	return &Mirror{db: db}, nil
}

// Apply journals the notification and updates the mirrored rows it
// touches.
func (m *Mirror) Apply(n schema.Note) error {
	if err := m.journal(n); err != nil {
		return err
	}
	switch note := n.(type) {
	case *schema.IntentSubmitted:
		return m.applySubmitted(note)
	case *schema.IntentExecuted:
		return m.applyExecuted(note)
	case *schema.IntentCancelled:
		return m.applyCancelled(note)
	default:
		return nil
	}
}

func (m *Mirror) journal(n schema.Note) error {
	payload, err := sonic.ConfigFastest.Marshal(n)
	if err != nil {
		return errors.Wrap(err, "marshal note")
	}
	row := NoteRow{
		Seq:     n.NoteSeq(),
		Type:    uint16(n.NoteType()),
		Clock:   uint64(n.NoteClock()),
		Payload: payload,
	}
	if err := m.db.Create(&row).Error; err != nil {
		return errors.Wrap(err, "journal note")
	}
	return nil
}

func (m *Mirror) applySubmitted(n *schema.IntentSubmitted) error {
	row := IntentRow{
		ID:         n.ID,
		Submitter:  n.Submitter.String(),
		Side:       uint16(n.Side),
		Amount:     uint64(n.Amount),
		LimitPrice: uint64(n.LimitPrice),
		Symbol:     n.Symbol.String(),
		CreatedSeq: uint64(n.Clock),
	}
	if err := m.db.Create(&row).Error; err != nil {
		return errors.Wrap(err, "mirror intent")
	}
	return nil
}

func (m *Mirror) applyExecuted(n *schema.IntentExecuted) error {
	updates := map[string]any{
		"executed":        true,
		"executed_amount": uint64(n.ExecutedAmount),
	}
	if err := m.db.Model(&IntentRow{}).Where("id = ?", n.ID).Updates(updates).Error; err != nil {
		return errors.Wrap(err, "mirror execution flag")
	}
	m.execIndex++
	row := ExecutionRow{
		IntentID:       n.ID,
		Executor:       n.Executor.String(),
		ExecutedAmount: uint64(n.ExecutedAmount),
		AvgPrice:       uint64(n.AvgPrice),
		CreatedSeq:     uint64(n.Clock),
		ExecutionIndex: m.execIndex,
	}
	if err := m.db.Create(&row).Error; err != nil {
		return errors.Wrap(err, "mirror execution record")
	}
	return nil
}

func (m *Mirror) applyCancelled(n *schema.IntentCancelled) error {
	if err := m.db.Model(&IntentRow{}).Where("id = ?", n.ID).Update("cancelled", true).Error; err != nil {
		return errors.Wrap(err, "mirror cancellation")
	}
	return nil
}
