package policy

import (
	"testing"

	"main/internal/schema"
)

func addr(b byte) schema.Address {
	var a schema.Address
	a[len(a)-1] = b
	return a
}

func TestRolePredicates(t *testing.T) {
	cfg := schema.Config{
		Owner:      addr(1),
		Controller: addr(2),
		Keeper:     addr(3),
	}

	if !IsOwner(cfg, addr(1)) || IsOwner(cfg, addr(2)) {
		t.Fatal("owner predicate mismatch")
	}
	if !IsController(cfg, addr(2)) || IsController(cfg, addr(1)) {
		t.Fatal("controller predicate mismatch")
	}
	if !IsKeeper(cfg, addr(3)) || IsKeeper(cfg, addr(2)) {
		t.Fatal("keeper predicate mismatch")
	}
}

func TestZeroAddressNeverMatchesRole(t *testing.T) {
	// An unset role slot must not make the null identity privileged.
	cfg := schema.Config{Owner: addr(1)}
	if IsController(cfg, schema.ZeroAddress) || IsKeeper(cfg, schema.ZeroAddress) {
		t.Fatal("zero address matched an unset role")
	}
}

func TestCanCancel(t *testing.T) {
	cfg := schema.Config{Owner: addr(1)}
	it := schema.Intent{ID: 1, Submitter: addr(5), Created: 10}

	if !CanCancel(cfg, it, addr(5)) {
		t.Fatal("submitter should cancel")
	}
	if !CanCancel(cfg, it, addr(1)) {
		t.Fatal("owner should cancel")
	}
	if CanCancel(cfg, it, addr(9)) {
		t.Fatal("stranger cancelled")
	}

	it.Executed = true
	if CanCancel(cfg, it, addr(5)) {
		t.Fatal("terminal intent cancellable")
	}
}

func TestCanExecute(t *testing.T) {
	cfg := schema.Config{Owner: addr(1)}
	it := schema.Intent{ID: 1, Submitter: addr(5), Created: 10}

	if !CanExecute(cfg, it) {
		t.Fatal("pending intent not executable")
	}

	cfg.Paused = true
	if CanExecute(cfg, it) {
		t.Fatal("executable while paused")
	}

	cfg.Paused = false
	it.Cancelled = true
	if CanExecute(cfg, it) {
		t.Fatal("cancelled intent executable")
	}
}
