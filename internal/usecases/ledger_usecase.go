package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/domain/repositories"
	"dinewallet.backend/pkg/logger"
	"dinewallet.backend/pkg/metrics"
	"dinewallet.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// LedgerUsecase builds transactions for every kind of money movement and applies
// them to the owners' wallets. Each public method is one atomic unit.
type LedgerUsecase struct {
	uow           repositories.UnitOfWork
	walletRepo    repositories.WalletRepository
	txnRepo       repositories.TransactionRepository
	customerRepo  repositories.CustomerRepository
	promotionRepo repositories.PromotionRepository
}

func NewLedgerUsecase(
	uow repositories.UnitOfWork,
	walletRepo repositories.WalletRepository,
	txnRepo repositories.TransactionRepository,
	customerRepo repositories.CustomerRepository,
	promotionRepo repositories.PromotionRepository,
) *LedgerUsecase {
	return &LedgerUsecase{
		uow:           uow,
		walletRepo:    walletRepo,
		txnRepo:       txnRepo,
		customerRepo:  customerRepo,
		promotionRepo: promotionRepo,
	}
}

// movement is one signed change to one wallet.
type movement struct {
	kind             entities.TransactionKind
	owner            entities.OwnerRef
	subject          *entities.SubjectRef
	amount           int64
	positive         bool
	delta            int64
	discount         decimal.Decimal
	userContribution int64
	reason           null.String
	adminID          *uuid.UUID
}

// CreatePromotionalTransaction credits amount to the customer for a promotion.
func (u *LedgerUsecase) CreatePromotionalTransaction(ctx context.Context, customerID, promotionID uuid.UUID, amount int64) (*entities.Transaction, error) {
	if customerID == uuid.Nil || promotionID == uuid.Nil {
		return nil, domainerrors.Validation("customer and promotion are required")
	}
	if amount <= 0 {
		return nil, domainerrors.Validation("promotion amount must be positive")
	}

	var txn *entities.Transaction
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		owner := entities.CustomerRef(customerID)
		if err := u.lockOwners(ctx, owner); err != nil {
			return err
		}
		var err error
		txn, err = u.record(ctx, movement{
			kind:     entities.TransactionKindPromotion,
			owner:    owner,
			subject:  entities.PromotionSubject(promotionID),
			amount:   amount,
			positive: true,
			delta:    amount,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	observe(txn)
	return txn, nil
}

// CreditPromotion credits the promotion's configured amount to the customer.
func (u *LedgerUsecase) CreditPromotion(ctx context.Context, customerID, promotionID uuid.UUID) (*entities.Transaction, error) {
	promotion, err := u.promotionRepo.GetByID(ctx, promotionID)
	if err != nil {
		return nil, lookupError(err, "promotion")
	}
	if _, err := u.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, lookupError(err, "customer")
	}
	return u.CreatePromotionalTransaction(ctx, customerID, promotion.ID, promotion.Amount)
}

// CreateReferralTransaction pays amount to referrerID for having referred userID.
func (u *LedgerUsecase) CreateReferralTransaction(ctx context.Context, referrerID, userID uuid.UUID, amount int64) (*entities.Transaction, error) {
	if referrerID == uuid.Nil || userID == uuid.Nil {
		return nil, domainerrors.Validation("referrer and referred customer are required")
	}
	if amount <= 0 {
		return nil, domainerrors.Validation("referral amount must be positive")
	}

	var txn *entities.Transaction
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		owner := entities.CustomerRef(referrerID)
		if err := u.lockOwners(ctx, owner); err != nil {
			return err
		}
		var err error
		txn, err = u.referral(ctx, referrerID, userID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	observe(txn)
	return txn, nil
}

// CreateAdjustment applies an operator's signed correction to a wallet.
func (u *LedgerUsecase) CreateAdjustment(ctx context.Context, input entities.AdjustmentInput) (*entities.Transaction, error) {
	if err := validateAdjustment(input); err != nil {
		return nil, err
	}

	var txn *entities.Transaction
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.lockOwners(ctx, input.Owner); err != nil {
			return err
		}
		adminID := input.AdminID
		var err error
		txn, err = u.record(ctx, movement{
			kind:     entities.TransactionKindAdjustment,
			owner:    input.Owner,
			amount:   abs(input.Amount),
			positive: input.Amount > 0,
			delta:    input.Amount,
			reason:   null.StringFrom(input.Reason),
			adminID:  &adminID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	observe(txn)
	return txn, nil
}

func validateAdjustment(input entities.AdjustmentInput) error {
	switch {
	case !input.Owner.Valid():
		return domainerrors.Validation("adjustment owner is invalid")
	case input.Reason == "":
		return domainerrors.Validation("adjustment reason is required")
	case input.AdminID == uuid.Nil:
		return domainerrors.Validation("adjustment admin is required")
	case input.Amount == 0:
		return domainerrors.Validation("adjustment amount must not be zero")
	}
	return nil
}

// ValidateSettlement rejects settlements that would not move money.
func ValidateSettlement(in entities.SettlementInput) error {
	switch {
	case in.BillAmount <= 0:
		return domainerrors.Validation("bill amount must be positive")
	case in.Discount.IsNegative():
		return domainerrors.Validation("discount must not be negative")
	case in.Discount.GreaterThan(decimal.NewFromInt(1)):
		return domainerrors.Validation("discount must not exceed 1")
	case in.UserContribution < 0:
		return domainerrors.Validation("user contribution must not be negative")
	case in.Discount.IsZero() && in.UserContribution == 0:
		return domainerrors.Validation("settlement needs a discount or a user contribution")
	}
	return nil
}

// settlementPair writes the customer and restaurant sides of a reservation
// settlement and links them. Both wallets must already be locked.
func (u *LedgerUsecase) settlementPair(ctx context.Context, res *entities.Reservation, in entities.SettlementInput) (*entities.SettlementPair, error) {
	if err := ValidateSettlement(in); err != nil {
		return nil, err
	}

	customerDelta := -in.UserContribution
	if in.UsesDiscount() {
		customerDelta = entities.ApplyRate(in.BillAmount, in.Discount)
	}

	base := movement{
		kind:             entities.TransactionKindReservation,
		subject:          entities.ReservationSubject(res.ID),
		amount:           in.BillAmount,
		discount:         in.Discount,
		userContribution: in.UserContribution,
	}

	customerSide := base
	customerSide.owner = entities.CustomerRef(res.CustomerID)
	customerSide.positive = in.UsesDiscount()
	customerSide.delta = customerDelta
	customerTxn, err := u.record(ctx, customerSide)
	if err != nil {
		return nil, err
	}

	restaurantSide := base
	restaurantSide.owner = entities.RestaurantRef(res.RestaurantID)
	restaurantSide.positive = !in.UsesDiscount()
	restaurantSide.delta = -customerDelta
	restaurantTxn, err := u.record(ctx, restaurantSide)
	if err != nil {
		return nil, err
	}

	link := &entities.RelatedTransaction{
		ID:                 utils.GenerateUUIDv7(),
		TransactionID:      customerTxn.ID,
		OtherTransactionID: restaurantTxn.ID,
		CreatedAt:          time.Now().UTC(),
	}
	if err := u.txnRepo.CreateLink(ctx, link); err != nil {
		return nil, fmt.Errorf("link settlement: %w", err)
	}

	return &entities.SettlementPair{Customer: customerTxn, Restaurant: restaurantTxn}, nil
}

func (u *LedgerUsecase) referral(ctx context.Context, referrerID, userID uuid.UUID, amount int64) (*entities.Transaction, error) {
	return u.record(ctx, movement{
		kind:     entities.TransactionKindReferral,
		owner:    entities.CustomerRef(referrerID),
		subject:  entities.ReferredCustomerSubject(userID),
		amount:   amount,
		positive: true,
		delta:    amount,
	})
}

// reverse writes the inverse of txn's delta to its wallet. The caller archives
// the record afterwards in the same unit.
func (u *LedgerUsecase) reverse(ctx context.Context, txn *entities.Transaction) error {
	wallet, err := u.walletRepo.Open(ctx, txn.Owner)
	if err != nil {
		return fmt.Errorf("open wallet %s: %w", txn.Owner, err)
	}
	expected := wallet.Balance - txn.Delta()
	stored, err := u.walletRepo.ApplyDelta(ctx, txn.Owner, -txn.Delta())
	if err != nil {
		return fmt.Errorf("reverse %s: %w", txn.ID, err)
	}
	if stored != expected {
		return consistencyFailure(ctx, txn.Owner, expected, stored)
	}
	logger.Info(ctx, "Reversed transaction",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("owner", txn.Owner.String()),
		zap.Int64("delta", -txn.Delta()),
		zap.Int64("balance", stored),
	)
	return nil
}

// lockOwners opens every wallet the unit will touch, in a fixed order, so two
// units sharing wallets always queue instead of deadlocking.
func (u *LedgerUsecase) lockOwners(ctx context.Context, owners ...entities.OwnerRef) error {
	for _, owner := range entities.SortOwners(owners...) {
		if !owner.Valid() {
			return domainerrors.Validation("invalid wallet owner " + owner.String())
		}
		if _, err := u.walletRepo.Open(ctx, owner); err != nil {
			return fmt.Errorf("open wallet %s: %w", owner, err)
		}
	}
	return nil
}

// record reads the owner's balance, persists the transaction and applies its
// delta, then checks the stored balance against the transaction's final balance.
func (u *LedgerUsecase) record(ctx context.Context, m movement) (*entities.Transaction, error) {
	wallet, err := u.walletRepo.Open(ctx, m.owner)
	if err != nil {
		return nil, fmt.Errorf("open wallet %s: %w", m.owner, err)
	}

	txn := &entities.Transaction{
		ID:               utils.GenerateUUIDv7(),
		Kind:             m.kind,
		WalletID:         wallet.ID,
		Owner:            m.owner,
		Subject:          m.subject,
		Amount:           m.amount,
		AmountPositive:   m.positive,
		Discount:         m.discount,
		UserContribution: m.userContribution,
		OriginalBalance:  wallet.Balance,
		FinalBalance:     wallet.Balance + m.delta,
		Reason:           m.reason,
		AdminID:          m.adminID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := u.txnRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("create %s transaction: %w", m.kind, err)
	}

	stored, err := u.walletRepo.ApplyDelta(ctx, m.owner, m.delta)
	if err != nil {
		return nil, fmt.Errorf("apply %s delta: %w", m.kind, err)
	}
	if stored != txn.FinalBalance {
		return nil, consistencyFailure(ctx, m.owner, txn.FinalBalance, stored)
	}

	logger.Info(ctx, "Recorded transaction",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("kind", string(txn.Kind)),
		zap.String("owner", txn.Owner.String()),
		zap.Int64("original_balance", txn.OriginalBalance),
		zap.Int64("final_balance", txn.FinalBalance),
	)
	return txn, nil
}

func consistencyFailure(ctx context.Context, owner entities.OwnerRef, expected, stored int64) error {
	metrics.ConsistencyFailures.Inc()
	logger.Error(ctx, "Wallet balance disagrees with ledger",
		zap.String("owner", owner.String()),
		zap.Int64("expected", expected),
		zap.Int64("stored", stored),
	)
	return domainerrors.Consistency(fmt.Sprintf("wallet %s holds %d, expected %d", owner, stored, expected))
}

// observe counts transactions once their unit has committed.
func observe(txns ...*entities.Transaction) {
	for _, txn := range txns {
		if txn == nil {
			continue
		}
		metrics.TransactionsRecorded.WithLabelValues(string(txn.Kind), string(txn.Owner.Type)).Inc()
	}
}

func observeArchived(txns ...*entities.Transaction) {
	for _, txn := range txns {
		metrics.TransactionsArchived.WithLabelValues(string(txn.Kind)).Inc()
	}
}

func lookupError(err error, what string) error {
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound(what + " not found")
	}
	return err
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
