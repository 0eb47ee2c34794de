package repositories

import (
	"context"

	"dinewallet.backend/internal/domain/entities"
)

// WalletRepository is the wallet store. Open and ApplyDelta lock the wallet row
// for the rest of the caller's unit of work.
type WalletRepository interface {
	Open(ctx context.Context, owner entities.OwnerRef) (*entities.Wallet, error)
	GetByOwner(ctx context.Context, owner entities.OwnerRef) (*entities.Wallet, error)
	ApplyDelta(ctx context.Context, owner entities.OwnerRef, delta int64) (int64, error)
	List(ctx context.Context) ([]*entities.Wallet, error)
}
