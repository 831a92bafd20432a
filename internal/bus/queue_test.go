package bus

import (
	"context"
	"errors"
	"testing"

	"main/internal/schema"
)

func TestTryPublishNonBlocking(t *testing.T) {
	q := NewQueue(1)
	n := &schema.PauseToggled{BaseNote: schema.BaseNote{Seq: 1, Clock: 1}}

	if err := q.TryPublish(n); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := q.TryPublish(n); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("full queue: got %v", err)
	}
}

func TestClosedQueueRejectsPublish(t *testing.T) {
	q := NewQueue(4)
	q.Close()
	q.Close() // idempotent
	err := q.TryPublish(&schema.PauseToggled{})
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("closed queue: got %v", err)
	}
}

func TestRunDrainsUntilClosed(t *testing.T) {
	q := NewQueue(8)
	for i := 1; i <= 3; i++ {
		if err := q.TryPublish(&schema.PauseToggled{BaseNote: schema.BaseNote{Seq: uint64(i)}}); err != nil {
			t.Fatalf("publish %d: %v", i, err)
		}
	}
	q.Close()

	var seen []uint64
	q.Run(context.Background(), func(n schema.Note) {
		seen = append(seen, n.NoteSeq())
	})
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("drained: %v", seen)
	}
}
