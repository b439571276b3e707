package lifecycle

import (
	"testing"

	"radicado/internal/model"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []model.Status{
	model.StatusDraft,
	model.StatusPendingApproval,
	model.StatusPendingScan,
	model.StatusRadicated,
	model.StatusArchived,
	model.StatusVoid,
}

var allRoles = []model.Role{model.RoleEngineer, model.RoleDirector}

// allowedEdges mirrors the table from the component design so the test fails
// loudly if either side drifts.
var allowedEdges = map[model.Status][]model.Status{
	model.StatusDraft:           {model.StatusPendingApproval, model.StatusVoid},
	model.StatusPendingApproval: {model.StatusRadicated, model.StatusPendingScan, model.StatusDraft, model.StatusVoid},
	model.StatusPendingScan:     {model.StatusRadicated, model.StatusPendingApproval, model.StatusVoid},
	model.StatusRadicated:       {model.StatusArchived, model.StatusVoid},
	model.StatusArchived:        {model.StatusVoid},
	model.StatusVoid:            {},
}

func edgeAllowed(from, to model.Status) bool {
	for _, t := range allowedEdges[from] {
		if t == to {
			return true
		}
	}
	return false
}

func TestCanTransition_TableComplete(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			assert.Equalf(t, edgeAllowed(from, to), CanTransition(from, to),
				"edge %s -> %s", from, to)
		}
	}
}

func TestAuthorize_DirectorCoversWholeTable(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := Authorize(from, to, model.RoleDirector)
			if edgeAllowed(from, to) {
				assert.NoErrorf(t, err, "edge %s -> %s", from, to)
			} else {
				assert.ErrorIsf(t, err, ErrInvalidTransition, "edge %s -> %s", from, to)
			}
		}
	}
}

func TestAuthorize_EngineerOnlySubmitsDrafts(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := Authorize(from, to, model.RoleEngineer)
			switch {
			case !edgeAllowed(from, to):
				assert.ErrorIs(t, err, ErrInvalidTransition)
			case from == model.StatusDraft && to == model.StatusPendingApproval:
				assert.NoError(t, err)
			default:
				assert.ErrorIsf(t, err, ErrInsufficientRole, "edge %s -> %s", from, to)
			}
		}
	}
}

func TestVoidIsAbsorbing(t *testing.T) {
	for _, to := range allStatuses {
		for _, role := range allRoles {
			err := Authorize(model.StatusVoid, to, role)
			assert.ErrorIsf(t, err, ErrInvalidTransition, "void -> %s as %s", to, role)
		}
	}
}

func TestCanEdit(t *testing.T) {
	tests := []struct {
		status model.Status
		role   model.Role
		want   bool
	}{
		{model.StatusDraft, model.RoleEngineer, true},
		{model.StatusDraft, model.RoleDirector, true},
		{model.StatusPendingApproval, model.RoleEngineer, false},
		{model.StatusPendingApproval, model.RoleDirector, true},
		{model.StatusPendingScan, model.RoleDirector, false},
		{model.StatusRadicated, model.RoleDirector, false},
		{model.StatusArchived, model.RoleDirector, false},
		{model.StatusVoid, model.RoleDirector, false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, CanEdit(tt.status, tt.role), "%s as %s", tt.status, tt.role)
	}
}

func TestCanRadicateFrom(t *testing.T) {
	assert.True(t, CanRadicateFrom(model.StatusDraft))
	assert.True(t, CanRadicateFrom(model.StatusPendingApproval))
	assert.True(t, CanRadicateFrom(model.StatusPendingScan))
	assert.False(t, CanRadicateFrom(model.StatusRadicated))
	assert.False(t, CanRadicateFrom(model.StatusArchived))
	assert.False(t, CanRadicateFrom(model.StatusVoid))
}

func TestIsRevert(t *testing.T) {
	assert.True(t, IsRevert(model.StatusPendingApproval, model.StatusDraft))
	assert.True(t, IsRevert(model.StatusPendingScan, model.StatusPendingApproval))
	assert.False(t, IsRevert(model.StatusDraft, model.StatusPendingApproval))
	assert.False(t, IsRevert(model.StatusPendingApproval, model.StatusPendingScan))
}
