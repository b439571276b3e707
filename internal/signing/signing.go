package signing

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"radicado/internal/lifecycle"
	"radicado/internal/model"
)

// Package signing resolves the effective signer identity for a radication
// request. Resolution is pure and runs to completion before any sequence
// issuance: an authorization failure must never consume a sequence number.

var (
	ErrInvalidPIN  = errors.New("invalid signing pin")
	ErrNotEligible = errors.New("actor not eligible to sign document")
)

// Resolve validates the supplied PIN against the acting actor and returns the
// id of the identity the signature is executed for.
//
// An engineer signs their own draft, or executes a delegated signature on a
// pending-scan document that carries an explicit authorization naming a
// signer. A director signs documents in draft or pending approval.
func Resolve(doc *model.Document, actor *model.Actor, suppliedPIN string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(actor.SigningPIN), []byte(suppliedPIN)) != 1 {
		return "", ErrInvalidPIN
	}

	switch actor.Role {
	case model.RoleEngineer:
		if signerID, ok := doc.DelegatedSigner(); ok && doc.Status == model.StatusPendingScan {
			return signerID, nil
		}
		if doc.Status == model.StatusDraft {
			return actor.ID, nil
		}
		return "", fmt.Errorf("%w: engineer on %s document without delegation", ErrNotEligible, doc.Status)
	case model.RoleDirector:
		if doc.Status == model.StatusDraft || doc.Status == model.StatusPendingApproval {
			return actor.ID, nil
		}
		return "", fmt.Errorf("%w: director on %s document", ErrNotEligible, doc.Status)
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrNotEligible, actor.Role)
}

// Recheck re-runs resolution against a freshly loaded document, used inside
// the radication transaction after the row lock is held. A losing racer sees
// the winner's status and fails here instead of double-issuing a code.
func Recheck(doc *model.Document, actor *model.Actor, suppliedPIN string) (string, error) {
	if !lifecycle.CanRadicateFrom(doc.Status) {
		return "", fmt.Errorf("%w: document already %s", ErrNotEligible, doc.Status)
	}
	return Resolve(doc, actor, suppliedPIN)
}
