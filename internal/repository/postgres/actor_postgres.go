package postgres

import (
	"context"
	"database/sql"

	"radicado/internal/model"
	"radicado/internal/repository"
)

// ActorPostgres is a PostgreSQL implementation of repository.ActorRepository.
type ActorPostgres struct {
	db *sql.DB
}

// NewActorPostgres creates a new ActorPostgres repository.
func NewActorPostgres(db *sql.DB) *ActorPostgres {
	return &ActorPostgres{db: db}
}

var _ repository.ActorRepository = (*ActorPostgres)(nil)

// FindByID fetches a signing identity by its ID.
func (r *ActorPostgres) FindByID(ctx context.Context, id string) (*model.Actor, error) {
	const q = `
		SELECT id, name, role, signing_pin, signature_image_ref
		FROM actors
		WHERE id = $1`
	var a model.Actor
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID,
		&a.Name,
		&a.Role,
		&a.SigningPIN,
		&a.SignatureImageRef,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
