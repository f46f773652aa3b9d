package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/genedetective/genedetective/internal/platform/auth"
)

// Resolver adapts the user repository to the auth middleware: it re-reads
// the live user row on every protected request, so a token whose subject
// has been deleted stops working immediately even though its signature
// still verifies.
type Resolver struct {
	users UserRepository
}

func NewResolver(users UserRepository) *Resolver {
	return &Resolver{users: users}
}

func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (*auth.Identity, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrUnknownIdentity, err)
	}
	return &auth.Identity{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}
