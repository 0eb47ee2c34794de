package handlers

import (
	"context"
	"time"

	"dinewallet.backend/internal/domain/entities"
	"dinewallet.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock settlementService
type mockSettlementService struct {
	mock.Mock
}

func (m *mockSettlementService) Settle(ctx context.Context, reservationID uuid.UUID, req entities.SettlementRequest) (*entities.SettlementResult, error) {
	args := m.Called(ctx, reservationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SettlementResult), args.Error(1)
}

func (m *mockSettlementService) CreateReservationTransactions(ctx context.Context, reservationID uuid.UUID, in entities.SettlementInput) (*entities.SettlementPair, error) {
	args := m.Called(ctx, reservationID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SettlementPair), args.Error(1)
}

func (m *mockSettlementService) ResetReservationTransactions(ctx context.Context, reservationID uuid.UUID, in entities.SettlementInput) (*entities.SettlementPair, error) {
	args := m.Called(ctx, reservationID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SettlementPair), args.Error(1)
}

func (m *mockSettlementService) GetReservationLedger(ctx context.Context, reservationID uuid.UUID) (*entities.ReservationLedger, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReservationLedger), args.Error(1)
}

// Mock ledgerService
type mockLedgerService struct {
	mock.Mock
}

func (m *mockLedgerService) CreatePromotionalTransaction(ctx context.Context, customerID, promotionID uuid.UUID, amount int64) (*entities.Transaction, error) {
	args := m.Called(ctx, customerID, promotionID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *mockLedgerService) CreditPromotion(ctx context.Context, customerID, promotionID uuid.UUID) (*entities.Transaction, error) {
	args := m.Called(ctx, customerID, promotionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *mockLedgerService) CreateReferralTransaction(ctx context.Context, referrerID, userID uuid.UUID, amount int64) (*entities.Transaction, error) {
	args := m.Called(ctx, referrerID, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *mockLedgerService) CreateAdjustment(ctx context.Context, input entities.AdjustmentInput) (*entities.Transaction, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

// Mock walletService
type mockWalletService struct {
	mock.Mock
}

func (m *mockWalletService) GetWallet(ctx context.Context, owner entities.OwnerRef) (*entities.Wallet, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *mockWalletService) ListTransactions(ctx context.Context, owner entities.OwnerRef, includeArchived bool, pagination utils.PaginationParams) ([]*entities.Transaction, utils.PaginationMeta, error) {
	args := m.Called(ctx, owner, includeArchived, pagination)
	items, _ := args.Get(0).([]*entities.Transaction)
	return items, args.Get(1).(utils.PaginationMeta), args.Error(2)
}

// Mock invoiceService
type mockInvoiceService struct {
	mock.Mock
}

func (m *mockInvoiceService) GetInvoiceSummary(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) (*entities.InvoiceOutcome, error) {
	args := m.Called(ctx, restaurantID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.InvoiceOutcome), args.Error(1)
}

func (m *mockInvoiceService) CreateInvoice(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) (*entities.InvoiceOutcome, error) {
	args := m.Called(ctx, restaurantID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.InvoiceOutcome), args.Error(1)
}

func (m *mockInvoiceService) MarkInvoicePaid(ctx context.Context, invoiceID uuid.UUID) (*entities.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Invoice), args.Error(1)
}

func (m *mockInvoiceService) InvoiceEndDateOptions(ctx context.Context, restaurantID uuid.UUID) (*entities.InvoiceDates, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.InvoiceDates), args.Error(1)
}

// Mock reconciliationService
type mockReconciliationService struct {
	mock.Mock
}

func (m *mockReconciliationService) Reconcile(ctx context.Context) ([]entities.WalletDiscrepancy, error) {
	args := m.Called(ctx)
	found, _ := args.Get(0).([]entities.WalletDiscrepancy)
	return found, args.Error(1)
}
