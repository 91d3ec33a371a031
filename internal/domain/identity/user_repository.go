package identity

import (
	"context"

	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the persistence operations for users
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*User], error)
	Update(ctx context.Context, user *User) error
}
