package usecases

import (
	"context"
	"fmt"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/domain/repositories"
	"dinewallet.backend/pkg/logger"
	"dinewallet.backend/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettlementUsecase decides and executes the ledger side of reservation saves.
type SettlementUsecase struct {
	uow             repositories.UnitOfWork
	reservationRepo repositories.ReservationRepository
	customerRepo    repositories.CustomerRepository
	txnRepo         repositories.TransactionRepository
	ledger          *LedgerUsecase
	referralReward  int64
}

func NewSettlementUsecase(
	uow repositories.UnitOfWork,
	reservationRepo repositories.ReservationRepository,
	customerRepo repositories.CustomerRepository,
	txnRepo repositories.TransactionRepository,
	ledger *LedgerUsecase,
	referralReward int64,
) *SettlementUsecase {
	return &SettlementUsecase{
		uow:             uow,
		reservationRepo: reservationRepo,
		customerRepo:    customerRepo,
		txnRepo:         txnRepo,
		ledger:          ledger,
		referralReward:  referralReward,
	}
}

// ShouldCreate holds when a complete, money-moving request arrives for a
// reservation without an active settlement and the reservation is validated.
func ShouldCreate(req entities.SettlementRequest, status entities.ReservationStatus, active []*entities.Transaction) bool {
	if !req.Complete() || len(active) > 0 || !entities.IsSettleable(status) {
		return false
	}
	return req.Discount.IsPositive() || *req.UserContribution > 0
}

// ShouldReset holds when a complete, money-moving request differs from the
// recorded settlement. Zeroing both discount and contribution takes no action.
func ShouldReset(req entities.SettlementRequest, active []*entities.Transaction) bool {
	if !req.Complete() || len(active) == 0 {
		return false
	}
	if !req.Discount.IsPositive() && *req.UserContribution <= 0 {
		return false
	}
	return !req.Input().SameAs(active[0])
}

// Settle evaluates the decision policy for a reservation save and runs the
// chosen path. Identical re-saves and incomplete requests take no action.
func (s *SettlementUsecase) Settle(ctx context.Context, reservationID uuid.UUID, req entities.SettlementRequest) (*entities.SettlementResult, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, domainerrors.Validation("unknown reservation status " + string(*req.Status))
	}

	result := &entities.SettlementResult{Action: entities.SettlementActionNone}
	var recorded, reversed []*entities.Transaction
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		res, customer, err := s.load(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := s.lock(ctx, res, customer); err != nil {
			return err
		}
		active, err := s.txnRepo.ListActiveByReservation(ctx, res.ID)
		if err != nil {
			return err
		}

		status := res.Status
		if req.Status != nil {
			status = *req.Status
		}

		switch {
		case ShouldCreate(req, status, active):
			result.Action = entities.SettlementActionCreated
			result.Pair, recorded, err = s.create(ctx, res, customer, req.Input(), entities.ReservationStatusValidated)
		case ShouldReset(req, active):
			result.Action = entities.SettlementActionReset
			reversed = active
			result.Pair, recorded, err = s.reset(ctx, res, customer, active, req.Input(), status)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	observe(recorded...)
	observeArchived(reversed...)
	metrics.Settlements.WithLabelValues(string(result.Action)).Inc()
	logger.Info(ctx, "Settlement evaluated",
		zap.String("reservation_id", reservationID.String()),
		zap.String("action", string(result.Action)),
	)
	return result, nil
}

// CreateReservationTransactions settles a reservation that has no active
// settlement yet. A second call without a reset in between is a conflict.
func (s *SettlementUsecase) CreateReservationTransactions(ctx context.Context, reservationID uuid.UUID, in entities.SettlementInput) (*entities.SettlementPair, error) {
	if err := ValidateSettlement(in); err != nil {
		return nil, err
	}

	var pair *entities.SettlementPair
	var recorded []*entities.Transaction
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		res, customer, err := s.load(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := s.lock(ctx, res, customer); err != nil {
			return err
		}
		active, err := s.txnRepo.ListActiveByReservation(ctx, res.ID)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return domainerrors.Conflict("reservation is already settled")
		}
		pair, recorded, err = s.create(ctx, res, customer, in, entities.ReservationStatusValidated)
		return err
	})
	if err != nil {
		return nil, err
	}
	observe(recorded...)
	metrics.Settlements.WithLabelValues(string(entities.SettlementActionCreated)).Inc()
	return pair, nil
}

// ResetReservationTransactions reverses the active settlement and records a new
// one from the corrected amounts, in one unit.
func (s *SettlementUsecase) ResetReservationTransactions(ctx context.Context, reservationID uuid.UUID, in entities.SettlementInput) (*entities.SettlementPair, error) {
	if err := ValidateSettlement(in); err != nil {
		return nil, err
	}

	var pair *entities.SettlementPair
	var recorded, reversed []*entities.Transaction
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		res, customer, err := s.load(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := s.lock(ctx, res, customer); err != nil {
			return err
		}
		active, err := s.txnRepo.ListActiveByReservation(ctx, res.ID)
		if err != nil {
			return err
		}
		if len(active) == 0 {
			return domainerrors.Conflict("reservation has no settlement to reset")
		}
		reversed = active
		pair, recorded, err = s.reset(ctx, res, customer, active, in, res.Status)
		return err
	})
	if err != nil {
		return nil, err
	}
	observe(recorded...)
	observeArchived(reversed...)
	metrics.Settlements.WithLabelValues(string(entities.SettlementActionReset)).Inc()
	return pair, nil
}

// GetReservationLedger returns the reservation with its active settlement and earnings.
func (s *SettlementUsecase) GetReservationLedger(ctx context.Context, reservationID uuid.UUID) (*entities.ReservationLedger, error) {
	var view *entities.ReservationLedger
	err := s.uow.Snapshot(ctx, func(ctx context.Context) error {
		res, err := s.reservationRepo.GetByID(ctx, reservationID)
		if err != nil {
			return lookupError(err, "reservation")
		}
		active, err := s.txnRepo.ListActiveByReservation(ctx, res.ID)
		if err != nil {
			return err
		}
		view = &entities.ReservationLedger{
			Reservation:  res,
			Transactions: active,
			Earnings:     entities.Earnings(active),
		}
		return nil
	})
	return view, err
}

func (s *SettlementUsecase) load(ctx context.Context, reservationID uuid.UUID) (*entities.Reservation, *entities.Customer, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, nil, lookupError(err, "reservation")
	}
	customer, err := s.customerRepo.GetByID(ctx, res.CustomerID)
	if err != nil {
		return nil, nil, lookupError(err, "customer")
	}
	return res, customer, nil
}

// lock takes every wallet a settlement of res may touch. Holding the customer's
// wallet also serialises concurrent settlements of the same reservation.
func (s *SettlementUsecase) lock(ctx context.Context, res *entities.Reservation, customer *entities.Customer) error {
	owners := []entities.OwnerRef{
		entities.CustomerRef(res.CustomerID),
		entities.RestaurantRef(res.RestaurantID),
	}
	if s.referralReward > 0 && customer.ReferrerID != nil {
		owners = append(owners, entities.CustomerRef(*customer.ReferrerID))
	}
	return s.ledger.lockOwners(ctx, owners...)
}

func (s *SettlementUsecase) create(ctx context.Context, res *entities.Reservation, customer *entities.Customer, in entities.SettlementInput, status entities.ReservationStatus) (*entities.SettlementPair, []*entities.Transaction, error) {
	if err := s.reservationRepo.UpdateSettlement(ctx, res.ID, in, status); err != nil {
		return nil, nil, fmt.Errorf("update reservation: %w", err)
	}
	pair, err := s.ledger.settlementPair(ctx, res, in)
	if err != nil {
		return nil, nil, err
	}
	recorded := []*entities.Transaction{pair.Customer, pair.Restaurant}

	reward, err := s.payReferral(ctx, customer)
	if err != nil {
		return nil, nil, err
	}
	if reward != nil {
		recorded = append(recorded, reward)
	}
	return pair, recorded, nil
}

// reset keeps the reservation's status: a finished reservation stays finished
// when its amounts are corrected.
func (s *SettlementUsecase) reset(ctx context.Context, res *entities.Reservation, customer *entities.Customer, active []*entities.Transaction, in entities.SettlementInput, status entities.ReservationStatus) (*entities.SettlementPair, []*entities.Transaction, error) {
	ids := make([]uuid.UUID, 0, len(active))
	for _, txn := range active {
		if !txn.ConcernsReservation(res.ID) {
			return nil, nil, domainerrors.Consistency(fmt.Sprintf("transaction %s is not part of reservation %s's settlement", txn.ID, res.ID))
		}
		if err := s.ledger.reverse(ctx, txn); err != nil {
			return nil, nil, err
		}
		ids = append(ids, txn.ID)
	}
	if err := s.txnRepo.Archive(ctx, ids); err != nil {
		return nil, nil, fmt.Errorf("archive settlement: %w", err)
	}
	return s.create(ctx, res, customer, in, status)
}

// payReferral rewards the customer's referrer once, on the first settlement.
func (s *SettlementUsecase) payReferral(ctx context.Context, customer *entities.Customer) (*entities.Transaction, error) {
	if s.referralReward <= 0 || customer.ReferrerID == nil {
		return nil, nil
	}
	paid, err := s.txnRepo.ExistsForSubject(ctx, entities.TransactionKindReferral, *entities.ReferredCustomerSubject(customer.ID))
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, nil
	}
	return s.ledger.referral(ctx, *customer.ReferrerID, customer.ID, s.referralReward)
}
