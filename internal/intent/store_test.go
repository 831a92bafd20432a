package intent

import (
	"errors"
	"testing"

	"main/internal/exception"
	"main/internal/schema"
)

var testCfg = schema.Config{
	Owner:     addr(0xaa),
	MinAmount: 10,
	MaxAmount: 1_000_000,
	FeeBps:    25,
}

func addr(b byte) schema.Address {
	var a schema.Address
	a[len(a)-1] = b
	return a
}

func req(side schema.Side, amount schema.Amount) SubmitRequest {
	return SubmitRequest{
		Side:       side,
		Amount:     amount,
		LimitPrice: 100,
		Symbol:     schema.HashSymbol("BTC-USD"),
	}
}

func mustSubmit(t *testing.T, s *Store, r SubmitRequest, submitter schema.Address, now schema.Seq) uint64 {
	t.Helper()
	id, err := s.Submit(testCfg, r, submitter, testCfg.FeeFor(r.Amount), now)
	if err != nil {
		t.Fatalf("submit failed: %+v", err)
	}
	return id
}

func TestSubmitMonotonicIDs(t *testing.T) {
	s := NewStore()
	var last uint64
	for i := 0; i < 10; i++ {
		id := mustSubmit(t, s, req(schema.SideBuy, 100), addr(1), schema.Seq(i+1))
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		last = id
	}
	if s.LastID() != 10 {
		t.Fatalf("last id mismatch: got %d want 10", s.LastID())
	}
}

func TestSubmitValidation(t *testing.T) {
	s := NewStore()
	cases := []struct {
		name string
		req  SubmitRequest
		fee  schema.Amount
		want error
	}{
		{"invalid side", req(schema.SideUnknown, 100), 1, exception.ErrInvalidSide},
		{"side out of range", req(schema.Side(3), 100), 1, exception.ErrInvalidSide},
		{"zero amount", req(schema.SideBuy, 0), 1, exception.ErrZeroAmount},
		{"below min", req(schema.SideBuy, 9), 1, exception.ErrAmountOutOfBounds},
		{"above max", req(schema.SideSell, 1_000_001), 1_000_000, exception.ErrAmountOutOfBounds},
		{"insufficient fee", req(schema.SideBuy, 10_000), 24, exception.ErrInsufficientFee},
	}
	for _, tc := range cases {
		if _, err := s.Submit(testCfg, tc.req, addr(1), tc.fee, 1); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("store not empty after failed submits: %d", s.Len())
	}
}

func TestSubmitBoundaryAmounts(t *testing.T) {
	s := NewStore()
	mustSubmit(t, s, req(schema.SideBuy, testCfg.MinAmount), addr(1), 1)
	mustSubmit(t, s, req(schema.SideSell, testCfg.MaxAmount), addr(1), 2)
	if s.Len() != 2 {
		t.Fatalf("boundary submits rejected: len=%d", s.Len())
	}
}

func TestSubmitCapacity(t *testing.T) {
	s := NewStore()
	cfg := testCfg
	cfg.FeeBps = 0
	for i := 0; i < schema.MaxIntents; i++ {
		if _, err := s.Submit(cfg, req(schema.SideBuy, 100), addr(1), 0, 1); err != nil {
			t.Fatalf("submit %d failed: %+v", i, err)
		}
	}
	if _, err := s.Submit(cfg, req(schema.SideBuy, 100), addr(1), 0, 1); !errors.Is(err, exception.ErrCapacityExceeded) {
		t.Fatalf("expected capacity error, got %v", err)
	}
}

func TestSubmitBatchAtomic(t *testing.T) {
	s := NewStore()
	entries := []SubmitRequest{
		req(schema.SideBuy, 100),
		req(schema.SideSell, 5), // below min bound
		req(schema.SideBuy, 200),
	}
	if _, err := s.SubmitBatch(testCfg, entries, addr(1), 1_000, 1); !errors.Is(err, exception.ErrAmountOutOfBounds) {
		t.Fatalf("expected bounds error, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("batch committed partially: len=%d", s.Len())
	}
}

func TestSubmitBatchFeeAndOrder(t *testing.T) {
	s := NewStore()
	entries := []SubmitRequest{
		req(schema.SideBuy, 10_000),
		req(schema.SideSell, 20_000),
	}
	required := testCfg.FeeFor(10_000) + testCfg.FeeFor(20_000)
	if _, err := s.SubmitBatch(testCfg, entries, addr(1), required-1, 1); !errors.Is(err, exception.ErrInsufficientFee) {
		t.Fatalf("expected fee error, got %v", err)
	}
	ids, err := s.SubmitBatch(testCfg, entries, addr(1), required, 1)
	if err != nil {
		t.Fatalf("batch failed: %+v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("ids not assigned in entry order: %v", ids)
	}
}

func TestCancelAuthorization(t *testing.T) {
	s := NewStore()
	id := mustSubmit(t, s, req(schema.SideBuy, 100), addr(1), 1)

	if err := s.Cancel(99, addr(1), testCfg.Owner); !errors.Is(err, exception.ErrNotFound) {
		t.Fatalf("unknown id: got %v", err)
	}
	if err := s.Cancel(id, addr(9), testCfg.Owner); !errors.Is(err, exception.ErrUnauthorized) {
		t.Fatalf("stranger cancel: got %v", err)
	}
	if err := s.Cancel(id, testCfg.Owner, testCfg.Owner); err != nil {
		t.Fatalf("owner cancel failed: %+v", err)
	}
	if err := s.Cancel(id, addr(1), testCfg.Owner); !errors.Is(err, exception.ErrAlreadyCancelled) {
		t.Fatalf("double cancel: got %v", err)
	}
}

func TestTerminalStatesExclusive(t *testing.T) {
	s := NewStore()
	executed := mustSubmit(t, s, req(schema.SideBuy, 100), addr(1), 1)
	cancelled := mustSubmit(t, s, req(schema.SideSell, 100), addr(1), 1)

	if err := s.MarkExecuted(executed, 100); err != nil {
		t.Fatalf("mark executed failed: %+v", err)
	}
	if err := s.Cancel(executed, addr(1), testCfg.Owner); !errors.Is(err, exception.ErrAlreadyExecuted) {
		t.Fatalf("cancel after execute: got %v", err)
	}
	if err := s.MarkExecuted(executed, 100); !errors.Is(err, exception.ErrAlreadyExecuted) {
		t.Fatalf("double execute: got %v", err)
	}

	if err := s.Cancel(cancelled, addr(1), testCfg.Owner); err != nil {
		t.Fatalf("cancel failed: %+v", err)
	}
	if err := s.MarkExecuted(cancelled, 100); !errors.Is(err, exception.ErrAlreadyCancelled) {
		t.Fatalf("execute after cancel: got %v", err)
	}
}

func TestIndexesKeepTerminalEntries(t *testing.T) {
	s := NewStore()
	symbol := schema.HashSymbol("ETH-USD")
	r := SubmitRequest{Side: schema.SideBuy, Amount: 100, LimitPrice: 1, Symbol: symbol}
	a := addr(7)
	id1 := mustSubmit(t, s, r, a, 1)
	id2 := mustSubmit(t, s, r, a, 2)

	if err := s.Cancel(id1, a, testCfg.Owner); err != nil {
		t.Fatalf("cancel failed: %+v", err)
	}
	if err := s.MarkExecuted(id2, 50); err != nil {
		t.Fatalf("execute failed: %+v", err)
	}

	if got := s.BySubmitter(a); len(got) != 2 {
		t.Fatalf("submitter index shrank: %v", got)
	}
	if got := s.BySymbol(symbol); len(got) != 2 {
		t.Fatalf("symbol index shrank: %v", got)
	}
	if s.Len() != 2 {
		t.Fatalf("global index shrank: %d", s.Len())
	}
}

func TestRangeClamps(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		mustSubmit(t, s, req(schema.SideBuy, 100), addr(1), schema.Seq(i+1))
	}

	if got := s.Range(1, 3); len(got) != 3 || got[0] != 2 || got[2] != 4 {
		t.Fatalf("range [1,3]: %v", got)
	}
	if got := s.Range(3, 100); len(got) != 2 || got[1] != 5 {
		t.Fatalf("range clamp: %v", got)
	}
	if got := s.Range(5, 6); got != nil {
		t.Fatalf("from out of range: %v", got)
	}
	if got := s.Range(3, 2); got != nil {
		t.Fatalf("inverted range: %v", got)
	}
	if got := s.Range(-1, 2); got != nil {
		t.Fatalf("negative from: %v", got)
	}
}

func TestLastNClamped(t *testing.T) {
	s := NewStore()
	for i := 0; i < 3; i++ {
		mustSubmit(t, s, req(schema.SideBuy, 100), addr(1), schema.Seq(i+1))
	}
	got := s.LastN(10)
	if len(got) != 3 || got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("lastN reverse order: %v", got)
	}
	if got := s.LastN(0); got != nil {
		t.Fatalf("lastN(0): %v", got)
	}
}

func TestSeqRangeInclusive(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		mustSubmit(t, s, req(schema.SideBuy, 100), addr(1), schema.Seq(10+i))
	}
	got := s.SeqRange(11, 13)
	if len(got) != 3 || got[0] != 2 || got[2] != 4 {
		t.Fatalf("seq range [11,13]: %v", got)
	}
}

func TestGetManyFailsOnMissing(t *testing.T) {
	s := NewStore()
	id := mustSubmit(t, s, req(schema.SideBuy, 100), addr(1), 1)

	if _, err := s.GetMany([]uint64{id, 42}); !errors.Is(err, exception.ErrNotFound) {
		t.Fatalf("missing id: got %v", err)
	}

	big := make([]uint64, schema.MaxBulkQuery+1)
	if _, err := s.GetMany(big); !errors.Is(err, exception.ErrBulkLimit) {
		t.Fatalf("bulk limit: got %v", err)
	}

	got, err := s.GetMany([]uint64{id})
	if err != nil {
		t.Fatalf("get many failed: %+v", err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Fatalf("get many result: %+v", got)
	}
}
