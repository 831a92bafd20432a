package policy

import "main/internal/schema"

// Stateless role predicates over the current config and intent state.
// Used inside the facade gates and exposed as read-only queries.

// IsController reports whether the address is the designated controller.
func IsController(cfg schema.Config, a schema.Address) bool {
	return !a.IsZero() && a == cfg.Controller
}

// IsKeeper reports whether the address is the designated keeper.
func IsKeeper(cfg schema.Config, a schema.Address) bool {
	return !a.IsZero() && a == cfg.Keeper
}

// IsOwner reports whether the address is the owner.
func IsOwner(cfg schema.Config, a schema.Address) bool {
	return !a.IsZero() && a == cfg.Owner
}

// CanCancel reports whether the caller may cancel the intent. The
// submitter and the owner can always unwind a pending intent, paused
// or not.
func CanCancel(cfg schema.Config, it schema.Intent, caller schema.Address) bool {
	if !it.Pending() {
		return false
	}
	return caller == it.Submitter || IsOwner(cfg, caller)
}

// CanExecute reports whether the intent is executable in the current
// global state.
func CanExecute(cfg schema.Config, it schema.Intent) bool {
	return !cfg.Paused && it.Pending()
}
