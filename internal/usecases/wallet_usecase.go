package usecases

import (
	"context"
	"errors"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/domain/repositories"
	"dinewallet.backend/pkg/utils"
)

// WalletUsecase is the wallet store surface: get-or-create, balance reads and
// atomic deltas, plus the owner's transaction history.
type WalletUsecase struct {
	uow        repositories.UnitOfWork
	walletRepo repositories.WalletRepository
	txnRepo    repositories.TransactionRepository
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(uow repositories.UnitOfWork, walletRepo repositories.WalletRepository, txnRepo repositories.TransactionRepository) *WalletUsecase {
	return &WalletUsecase{uow: uow, walletRepo: walletRepo, txnRepo: txnRepo}
}

// Open returns the owner's wallet, creating it with a zero balance.
func (u *WalletUsecase) Open(ctx context.Context, owner entities.OwnerRef) (*entities.Wallet, error) {
	if !owner.Valid() {
		return nil, domainerrors.Validation("invalid wallet owner")
	}
	var wallet *entities.Wallet
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		var err error
		wallet, err = u.walletRepo.Open(ctx, owner)
		return err
	})
	return wallet, err
}

// CurrentBalance reads the owner's balance. An owner without a wallet has 0.
func (u *WalletUsecase) CurrentBalance(ctx context.Context, owner entities.OwnerRef) (int64, error) {
	wallet, err := u.walletRepo.GetByOwner(ctx, owner)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// ApplyDelta adds delta to the owner's balance inside one unit and returns the new balance.
// Ledger code records a transaction alongside every delta; this bare form is for
// callers that already hold the unit.
func (u *WalletUsecase) ApplyDelta(ctx context.Context, owner entities.OwnerRef, delta int64) (int64, error) {
	if !owner.Valid() {
		return 0, domainerrors.Validation("invalid wallet owner")
	}
	var balance int64
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		if _, err := u.walletRepo.Open(ctx, owner); err != nil {
			return err
		}
		var err error
		balance, err = u.walletRepo.ApplyDelta(ctx, owner, delta)
		return err
	})
	return balance, err
}

// GetWallet returns an existing wallet without creating one.
func (u *WalletUsecase) GetWallet(ctx context.Context, owner entities.OwnerRef) (*entities.Wallet, error) {
	wallet, err := u.walletRepo.GetByOwner(ctx, owner)
	if err != nil {
		return nil, lookupError(err, "wallet")
	}
	return wallet, nil
}

// ListTransactions pages through the owner's transactions, newest first.
func (u *WalletUsecase) ListTransactions(ctx context.Context, owner entities.OwnerRef, includeArchived bool, pagination utils.PaginationParams) ([]*entities.Transaction, utils.PaginationMeta, error) {
	filter := entities.TransactionFilter{
		IncludeArchived: includeArchived,
		Limit:           pagination.Limit,
		Offset:          pagination.CalculateOffset(),
	}
	items, total, err := u.txnRepo.ListByOwner(ctx, owner, filter)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return items, pagination.Meta(total), nil
}
