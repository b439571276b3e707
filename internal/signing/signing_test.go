package signing

import (
	"testing"

	"radicado/internal/model"

	"github.com/stretchr/testify/assert"
)

func engineer() *model.Actor {
	return &model.Actor{ID: "eng-1", Role: model.RoleEngineer, SigningPIN: "1234"}
}

func director() *model.Actor {
	return &model.Actor{ID: "dir-1", Role: model.RoleDirector, SigningPIN: "9999"}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		doc        *model.Document
		actor      *model.Actor
		pin        string
		wantSigner string
		wantErr    error
	}{
		{
			name:       "engineer self-signs own draft",
			doc:        &model.Document{Status: model.StatusDraft},
			actor:      engineer(),
			pin:        "1234",
			wantSigner: "eng-1",
		},
		{
			name: "delegated path returns designated signer, not the actor",
			doc: &model.Document{
				Status: model.StatusPendingScan,
				Metadata: map[string]any{
					model.MetaSignatureAuthorized: true,
					model.MetaDelegatedSignerID:   "dir-1",
				},
			},
			actor:      engineer(),
			pin:        "1234",
			wantSigner: "dir-1",
		},
		{
			name: "delegation flag without pending scan is not eligible",
			doc: &model.Document{
				Status: model.StatusPendingApproval,
				Metadata: map[string]any{
					model.MetaSignatureAuthorized: true,
					model.MetaDelegatedSignerID:   "dir-1",
				},
			},
			actor:   engineer(),
			pin:     "1234",
			wantErr: ErrNotEligible,
		},
		{
			name:    "pending scan without delegation is not eligible for engineer",
			doc:     &model.Document{Status: model.StatusPendingScan},
			actor:   engineer(),
			pin:     "1234",
			wantErr: ErrNotEligible,
		},
		{
			name:    "engineer on pending approval is not eligible",
			doc:     &model.Document{Status: model.StatusPendingApproval},
			actor:   engineer(),
			pin:     "1234",
			wantErr: ErrNotEligible,
		},
		{
			name:       "director signs draft",
			doc:        &model.Document{Status: model.StatusDraft},
			actor:      director(),
			pin:        "9999",
			wantSigner: "dir-1",
		},
		{
			name:       "director signs pending approval",
			doc:        &model.Document{Status: model.StatusPendingApproval},
			actor:      director(),
			pin:        "9999",
			wantSigner: "dir-1",
		},
		{
			name:    "director on pending scan is not eligible",
			doc:     &model.Document{Status: model.StatusPendingScan},
			actor:   director(),
			pin:     "9999",
			wantErr: ErrNotEligible,
		},
		{
			name:    "wrong pin rejected before any eligibility check",
			doc:     &model.Document{Status: model.StatusDraft},
			actor:   engineer(),
			pin:     "0000",
			wantErr: ErrInvalidPIN,
		},
		{
			name:    "empty pin rejected",
			doc:     &model.Document{Status: model.StatusDraft},
			actor:   engineer(),
			pin:     "",
			wantErr: ErrInvalidPIN,
		},
		{
			name:    "unknown role rejected",
			doc:     &model.Document{Status: model.StatusDraft},
			actor:   &model.Actor{ID: "x", Role: model.Role("INTERN"), SigningPIN: "1"},
			pin:     "1",
			wantErr: ErrNotEligible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer, err := Resolve(tt.doc, tt.actor, tt.pin)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, signer)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantSigner, signer)
		})
	}
}

func TestRecheck_RejectsTerminalStatuses(t *testing.T) {
	for _, status := range []model.Status{model.StatusRadicated, model.StatusArchived, model.StatusVoid} {
		_, err := Recheck(&model.Document{Status: status}, director(), "9999")
		assert.ErrorIsf(t, err, ErrNotEligible, "status %s", status)
	}

	signer, err := Recheck(&model.Document{Status: model.StatusDraft}, director(), "9999")
	assert.NoError(t, err)
	assert.Equal(t, "dir-1", signer)
}
