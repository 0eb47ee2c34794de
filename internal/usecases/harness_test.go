package usecases_test

import (
	"context"
	"testing"

	"dinewallet.backend/internal/domain/entities"
	"dinewallet.backend/internal/infrastructure/repositories"
	"dinewallet.backend/internal/infrastructure/repositories/repotest"
	"dinewallet.backend/internal/usecases"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testReferralReward = 500

// ledgerEnv wires the usecases over a throwaway SQLite database.
type ledgerEnv struct {
	db           *gorm.DB
	wallets      *repositories.WalletRepository
	transactions *repositories.TransactionRepository
	reservations *repositories.ReservationRepository
	restaurants  *repositories.RestaurantRepository
	invoices     *repositories.InvoiceRepository

	ledger     *usecases.LedgerUsecase
	settlement *usecases.SettlementUsecase
	wallet     *usecases.WalletUsecase
	invoice    *usecases.InvoiceUsecase
	reconcile  *usecases.ReconciliationUsecase
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()
	db := repotest.NewDB(t)
	uow := repositories.NewUnitOfWork(db)
	env := &ledgerEnv{
		db:           db,
		wallets:      repositories.NewWalletRepository(db),
		transactions: repositories.NewTransactionRepository(db),
		reservations: repositories.NewReservationRepository(db),
		restaurants:  repositories.NewRestaurantRepository(db),
		invoices:     repositories.NewInvoiceRepository(db),
	}
	customers := repositories.NewCustomerRepository(db)
	promotions := repositories.NewPromotionRepository(db)

	env.ledger = usecases.NewLedgerUsecase(uow, env.wallets, env.transactions, customers, promotions)
	env.settlement = usecases.NewSettlementUsecase(uow, env.reservations, customers, env.transactions, env.ledger, testReferralReward)
	env.wallet = usecases.NewWalletUsecase(uow, env.wallets, env.transactions)
	env.invoice = usecases.NewInvoiceUsecase(uow, env.restaurants, env.reservations, env.transactions, env.invoices, entities.DefaultTaxMultiplier, 1)
	env.reconcile = usecases.NewReconciliationUsecase(uow, env.wallets, env.transactions)
	return env
}

func (e *ledgerEnv) balance(t *testing.T, owner entities.OwnerRef) int64 {
	t.Helper()
	b, err := e.wallet.CurrentBalance(context.Background(), owner)
	require.NoError(t, err)
	return b
}

// requireLedgerConsistent checks every wallet against its active transactions.
func (e *ledgerEnv) requireLedgerConsistent(t *testing.T) {
	t.Helper()
	found, err := e.reconcile.Reconcile(context.Background())
	require.NoError(t, err)
	require.Empty(t, found, "wallets drifted from ledger")
}

func discountInput(bill int64, discount string) entities.SettlementInput {
	return entities.SettlementInput{BillAmount: bill, Discount: decimal.RequireFromString(discount)}
}

func contributionInput(bill, contribution int64) entities.SettlementInput {
	return entities.SettlementInput{BillAmount: bill, Discount: decimal.Zero, UserContribution: contribution}
}

func settlementRequest(in entities.SettlementInput, status entities.ReservationStatus) entities.SettlementRequest {
	bill, discount, contribution := in.BillAmount, in.Discount, in.UserContribution
	return entities.SettlementRequest{
		BillAmount:       &bill,
		Discount:         &discount,
		UserContribution: &contribution,
		Status:           &status,
	}
}

func countTransactions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table("transactions").Count(&n).Error)
	return n
}

func ownersOf(customerID, restaurantID uuid.UUID) (entities.OwnerRef, entities.OwnerRef) {
	return entities.CustomerRef(customerID), entities.RestaurantRef(restaurantID)
}
