package usecases

import (
	"context"
	"sort"

	"dinewallet.backend/internal/domain/entities"
	"dinewallet.backend/internal/domain/repositories"
	"dinewallet.backend/pkg/logger"
	"dinewallet.backend/pkg/metrics"
	"go.uber.org/zap"
)

// ReconciliationUsecase compares every wallet balance with the sum of its
// active transaction deltas. It reports; it never repairs.
type ReconciliationUsecase struct {
	uow        repositories.UnitOfWork
	walletRepo repositories.WalletRepository
	txnRepo    repositories.TransactionRepository
}

func NewReconciliationUsecase(uow repositories.UnitOfWork, walletRepo repositories.WalletRepository, txnRepo repositories.TransactionRepository) *ReconciliationUsecase {
	return &ReconciliationUsecase{uow: uow, walletRepo: walletRepo, txnRepo: txnRepo}
}

// Reconcile returns the wallets whose balance drifted from the ledger.
func (u *ReconciliationUsecase) Reconcile(ctx context.Context) ([]entities.WalletDiscrepancy, error) {
	var found []entities.WalletDiscrepancy
	err := u.uow.Snapshot(ctx, func(ctx context.Context) error {
		wallets, err := u.walletRepo.List(ctx)
		if err != nil {
			return err
		}
		totals, err := u.txnRepo.ActiveTotalsByWallet(ctx)
		if err != nil {
			return err
		}
		for _, wallet := range wallets {
			total := totals[wallet.ID]
			if wallet.Balance == total {
				continue
			}
			found = append(found, entities.WalletDiscrepancy{
				WalletID:    wallet.ID,
				Owner:       wallet.Owner,
				Balance:     wallet.Balance,
				LedgerTotal: total,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Owner.Less(found[j].Owner) })
	metrics.ReconciliationMismatches.Set(float64(len(found)))
	for _, d := range found {
		logger.Warn(ctx, "Wallet balance drifted from ledger",
			zap.String("wallet_id", d.WalletID.String()),
			zap.String("owner", d.Owner.String()),
			zap.Int64("balance", d.Balance),
			zap.Int64("ledger_total", d.LedgerTotal),
			zap.Int64("drift", d.Drift()),
		)
	}
	return found, nil
}
