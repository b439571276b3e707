package model

// Role is the closed set of signing roles. RoleDirector outranks RoleEngineer
// for every lifecycle transition except the engineer's own Draft submission.
type Role string

const (
	RoleEngineer Role = "ENGINEER"
	RoleDirector Role = "DIRECTOR"
)

// Actor is a signing identity. SigningPIN is a secret and must never be
// serialized in API responses.
type Actor struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Role              Role   `json:"role"`
	SigningPIN        string `json:"-"`
	SignatureImageRef string `json:"signature_image_ref,omitempty"`
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleEngineer || r == RoleDirector
}
