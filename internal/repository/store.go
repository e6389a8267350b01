package repository

import (
	"context"

	"github.com/andriansp/account-service/internal/model"
)

// AccountStore captures the persistence operations needed by the handlers.
// All update helpers return ErrNotFound when no row matched the email.
type AccountStore interface {
	Create(ctx context.Context, acc model.Account) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	GetByID(ctx context.Context, id uint64) (model.Account, error)
	SetOTP(ctx context.Context, email, otp string) error
	Activate(ctx context.Context, email string) error
	ClearOTP(ctx context.Context, email string) error
	SetToken(ctx context.Context, email, token string) error
	UpdateProfile(ctx context.Context, email, name, phone string) error
	SetPasswordHash(ctx context.Context, email, hash string) error
	Search(ctx context.Context, term string, page, perPage int) ([]model.Account, int64, error)
}
