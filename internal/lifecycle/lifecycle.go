package lifecycle

import (
	"errors"
	"fmt"

	"radicado/internal/model"
)

// Package lifecycle is the pure state machine deciding which role may move a
// document between statuses. It holds no state and performs no I/O; the
// atomicity of check-plus-write belongs to the repository layer.

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInsufficientRole  = errors.New("role not authorized for transition")
)

// transitions is the single authority table. Statuses absent as keys (Void)
// have no outgoing edges.
var transitions = map[model.Status][]model.Status{
	model.StatusDraft:           {model.StatusPendingApproval, model.StatusVoid},
	model.StatusPendingApproval: {model.StatusRadicated, model.StatusPendingScan, model.StatusDraft, model.StatusVoid},
	model.StatusPendingScan:     {model.StatusRadicated, model.StatusPendingApproval, model.StatusVoid},
	model.StatusRadicated:       {model.StatusArchived, model.StatusVoid},
	model.StatusArchived:        {model.StatusVoid},
}

// CanTransition reports whether the edge from -> to exists in the table,
// ignoring role gating.
func CanTransition(from, to model.Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Authorize validates the requested transition for the acting role. Engineers
// may only submit their own drafts for approval; every other edge requires a
// director. The returned error names the rejected edge.
func Authorize(from, to model.Status, role model.Role) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if role == model.RoleDirector {
		return nil
	}
	if role == model.RoleEngineer && from == model.StatusDraft && to == model.StatusPendingApproval {
		return nil
	}
	return fmt.Errorf("%w: %s may not request %s -> %s", ErrInsufficientRole, role, from, to)
}

// CanEdit reports whether the document's editable content (title, metadata,
// attachments) may still be modified by the given role. Content is frozen for
// everyone once radicated, archived or void.
func CanEdit(status model.Status, role model.Role) bool {
	switch status {
	case model.StatusDraft:
		return true
	case model.StatusPendingApproval:
		return role == model.RoleDirector
	}
	return false
}

// CanRadicateFrom reports whether a sign/radicate request may start from the
// given status. Which actor may do so is decided by the signing resolver.
func CanRadicateFrom(status model.Status) bool {
	return status == model.StatusDraft ||
		status == model.StatusPendingApproval ||
		status == model.StatusPendingScan
}

// IsRevert reports whether the edge walks the workflow backwards. Reverting
// clears any delegated-signing authorization: the grant was made against the
// content frozen at approval time and reopening editing would let it go stale.
func IsRevert(from, to model.Status) bool {
	return (from == model.StatusPendingApproval && to == model.StatusDraft) ||
		(from == model.StatusPendingScan && to == model.StatusPendingApproval)
}
