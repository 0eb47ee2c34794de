package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/infrastructure/repositories/repotest"
	"dinewallet.backend/internal/usecases"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedger_PromotionCreditsCustomer(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	customerID := repotest.SeedCustomer(t, env.db, nil)
	promotionID := repotest.SeedPromotion(t, env.db, 1500)

	txn, err := env.ledger.CreditPromotion(ctx, customerID, promotionID)
	require.NoError(t, err)
	assert.Equal(t, entities.TransactionKindPromotion, txn.Kind)
	assert.Equal(t, int64(0), txn.OriginalBalance)
	assert.Equal(t, int64(1500), txn.FinalBalance)
	assert.True(t, txn.AmountPositive)
	assert.Equal(t, entities.PromotionSubject(promotionID), txn.Subject)
	assert.Equal(t, int64(1500), env.balance(t, entities.CustomerRef(customerID)))

	_, err = env.ledger.CreditPromotion(ctx, customerID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	env.requireLedgerConsistent(t)
}

func TestLedger_PromotionRejectsNonPositiveAmount(t *testing.T) {
	env := newLedgerEnv(t)

	_, err := env.ledger.CreatePromotionalTransaction(context.Background(), uuid.New(), uuid.New(), 0)
	assert.True(t, domainerrors.IsValidation(err))
	_, err = env.ledger.CreatePromotionalTransaction(context.Background(), uuid.Nil, uuid.New(), 100)
	assert.True(t, domainerrors.IsValidation(err))
}

func TestLedger_ReferralCreditsReferrer(t *testing.T) {
	env := newLedgerEnv(t)
	referrerID := repotest.SeedCustomer(t, env.db, nil)
	userID := repotest.SeedCustomer(t, env.db, &referrerID)

	txn, err := env.ledger.CreateReferralTransaction(context.Background(), referrerID, userID, 500)
	require.NoError(t, err)
	assert.Equal(t, entities.TransactionKindReferral, txn.Kind)
	assert.Equal(t, entities.ReferredCustomerSubject(userID), txn.Subject)
	assert.Equal(t, int64(500), env.balance(t, entities.CustomerRef(referrerID)))
	assert.Equal(t, int64(0), env.balance(t, entities.CustomerRef(userID)))
}

func TestLedger_AdjustmentBothDirections(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()
	restaurant := entities.RestaurantRef(repotest.SeedRestaurant(t, env.db, "0.1", time.Now()))
	adminID := uuid.New()

	up, err := env.ledger.CreateAdjustment(ctx, entities.AdjustmentInput{Owner: restaurant, Amount: 1200, Reason: "goodwill", AdminID: adminID})
	require.NoError(t, err)
	assert.True(t, up.AmountPositive)
	assert.Equal(t, int64(1200), up.Amount)
	assert.Equal(t, "goodwill", up.Reason.String)
	require.NotNil(t, up.AdminID)
	assert.Equal(t, adminID, *up.AdminID)
	assert.Nil(t, up.Subject)

	down, err := env.ledger.CreateAdjustment(ctx, entities.AdjustmentInput{Owner: restaurant, Amount: -2000, Reason: "chargeback", AdminID: adminID})
	require.NoError(t, err)
	assert.False(t, down.AmountPositive)
	assert.Equal(t, int64(2000), down.Amount)
	assert.Equal(t, int64(1200), down.OriginalBalance)
	assert.Equal(t, int64(-800), down.FinalBalance)
	assert.Equal(t, int64(-800), env.balance(t, restaurant))
	env.requireLedgerConsistent(t)
}

func TestLedger_AdjustmentValidation(t *testing.T) {
	env := newLedgerEnv(t)
	owner := entities.CustomerRef(uuid.New())
	adminID := uuid.New()

	cases := map[string]entities.AdjustmentInput{
		"empty reason": {Owner: owner, Amount: 100, AdminID: adminID},
		"no admin":     {Owner: owner, Amount: 100, Reason: "fix"},
		"zero amount":  {Owner: owner, Reason: "fix", AdminID: adminID},
		"bad owner":    {Owner: entities.OwnerRef{Type: "supplier", ID: uuid.New()}, Amount: 100, Reason: "fix", AdminID: adminID},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.ledger.CreateAdjustment(context.Background(), in)
			assert.True(t, domainerrors.IsValidation(err))
		})
	}
	assert.Equal(t, int64(0), countTransactions(t, env.db))
}

func TestLedger_ConsistencyFailureAbortsUnit(t *testing.T) {
	uow := new(MockUnitOfWork)
	walletRepo := new(MockWalletRepository)
	txnRepo := new(MockTransactionRepository)
	uc := usecases.NewLedgerUsecase(uow, walletRepo, txnRepo, new(MockCustomerRepository), new(MockPromotionRepository))

	ctx := context.Background()
	owner := entities.CustomerRef(uuid.New())
	uow.On("Do", ctx, mock.Anything).Return(nil)
	walletRepo.On("Open", ctx, owner).Return(&entities.Wallet{ID: uuid.New(), Owner: owner, Balance: 100}, nil)
	txnRepo.On("Create", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil).Once()
	walletRepo.On("ApplyDelta", ctx, owner, int64(300)).Return(int64(999), nil).Once()

	_, err := uc.CreatePromotionalTransaction(ctx, owner.ID, uuid.New(), 300)
	require.Error(t, err)
	assert.True(t, domainerrors.IsConsistency(err))
	walletRepo.AssertExpectations(t)
	txnRepo.AssertExpectations(t)
}

func TestLedger_RepositoryErrorPropagates(t *testing.T) {
	uow := new(MockUnitOfWork)
	walletRepo := new(MockWalletRepository)
	txnRepo := new(MockTransactionRepository)
	uc := usecases.NewLedgerUsecase(uow, walletRepo, txnRepo, new(MockCustomerRepository), new(MockPromotionRepository))

	ctx := context.Background()
	owner := entities.CustomerRef(uuid.New())
	boom := errors.New("disk full")
	uow.On("Do", ctx, mock.Anything).Return(nil)
	walletRepo.On("Open", ctx, owner).Return(&entities.Wallet{ID: uuid.New(), Owner: owner}, nil)
	txnRepo.On("Create", ctx, mock.Anything).Return(boom).Once()

	_, err := uc.CreateReferralTransaction(ctx, owner.ID, uuid.New(), 500)
	assert.ErrorIs(t, err, boom)
	walletRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateSettlement(t *testing.T) {
	assert.NoError(t, usecases.ValidateSettlement(discountInput(10000, "1")))
	assert.NoError(t, usecases.ValidateSettlement(contributionInput(10000, 1)))
	assert.True(t, domainerrors.IsValidation(usecases.ValidateSettlement(discountInput(10000, "1.01"))))
}
