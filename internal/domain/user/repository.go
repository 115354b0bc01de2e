package user

import "context"

type UserRepository interface {
	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (User, error)
}
