package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// TransactionKind is the policy a transaction was recorded under.
type TransactionKind string

const (
	TransactionKindReservation TransactionKind = "reservation"
	TransactionKindReferral    TransactionKind = "referral"
	TransactionKindPromotion   TransactionKind = "promotion"
	TransactionKindAdjustment  TransactionKind = "adjustment"
)

func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionKindReservation, TransactionKindReferral, TransactionKindPromotion, TransactionKindAdjustment:
		return true
	}
	return false
}

// Transaction is an immutable record of one balance-affecting event. Only the
// Archived flag ever changes after creation.
type Transaction struct {
	ID               uuid.UUID       `json:"id"`
	Kind             TransactionKind `json:"kind"`
	WalletID         uuid.UUID       `json:"walletId"`
	Owner            OwnerRef        `json:"owner"`
	Subject          *SubjectRef     `json:"subject,omitempty"`
	Amount           int64           `json:"amount"`
	AmountPositive   bool            `json:"amountPositive"`
	Discount         decimal.Decimal `json:"discount"`
	UserContribution int64           `json:"userContribution"`
	OriginalBalance  int64           `json:"originalBalance"`
	FinalBalance     int64           `json:"finalBalance"`
	Reason           null.String     `json:"reason,omitempty"`
	AdminID          *uuid.UUID      `json:"adminId,omitempty"`
	Archived         bool            `json:"archived"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Delta is the signed effect the transaction had on its wallet.
func (t *Transaction) Delta() int64 {
	return t.FinalBalance - t.OriginalBalance
}

// ConcernsReservation reports whether t belongs to the given reservation's settlement.
func (t *Transaction) ConcernsReservation(reservationID uuid.UUID) bool {
	return t.Kind == TransactionKindReservation &&
		t.Subject != nil &&
		t.Subject.Type == SubjectTypeReservation &&
		t.Subject.ID == reservationID
}

// RelatedTransaction links the customer-side and restaurant-side transactions of one settlement.
type RelatedTransaction struct {
	ID                 uuid.UUID `json:"id"`
	TransactionID      uuid.UUID `json:"transactionId"`
	OtherTransactionID uuid.UUID `json:"otherTransactionId"`
	CreatedAt          time.Time `json:"createdAt"`
}

// SettlementPair is the linked pair produced by one reservation settlement.
type SettlementPair struct {
	Customer   *Transaction `json:"customerTransaction"`
	Restaurant *Transaction `json:"restaurantTransaction"`
}

// SettlementInput carries the amounts a reservation is settled with.
// BillAmount and UserContribution are minor units; Discount is a rate.
type SettlementInput struct {
	BillAmount       int64           `json:"billAmount"`
	Discount         decimal.Decimal `json:"discount"`
	UserContribution int64           `json:"userContribution"`
}

// UsesDiscount reports whether the discount path applies; otherwise the
// customer's contribution is moved.
func (in SettlementInput) UsesDiscount() bool {
	return in.Discount.IsPositive()
}

// SameAs compares against the values recorded on an existing settlement.
func (in SettlementInput) SameAs(t *Transaction) bool {
	return in.BillAmount == t.Amount &&
		in.Discount.Equal(t.Discount) &&
		in.UserContribution == t.UserContribution
}

// SettlementRequest is what the booking layer submits when it saves a
// reservation. Nil fields were not supplied.
type SettlementRequest struct {
	BillAmount       *int64             `json:"billAmount"`
	Discount         *decimal.Decimal   `json:"discount"`
	UserContribution *int64             `json:"userContribution"`
	Status           *ReservationStatus `json:"status"`
}

// Complete reports whether all three money fields were supplied.
func (r SettlementRequest) Complete() bool {
	return r.BillAmount != nil && r.Discount != nil && r.UserContribution != nil
}

// Input converts a complete request. Callers must check Complete first.
func (r SettlementRequest) Input() SettlementInput {
	return SettlementInput{
		BillAmount:       *r.BillAmount,
		Discount:         *r.Discount,
		UserContribution: *r.UserContribution,
	}
}

// SettlementAction is what the settlement orchestrator decided to do.
type SettlementAction string

const (
	SettlementActionCreated SettlementAction = "created"
	SettlementActionReset   SettlementAction = "reset"
	SettlementActionNone    SettlementAction = "none"
)

// SettlementResult is returned by the orchestrator.
type SettlementResult struct {
	Action SettlementAction `json:"action"`
	Pair   *SettlementPair  `json:"pair,omitempty"`
}

// AdjustmentInput is a manual correction issued by an operator.
// Amount is signed minor units.
type AdjustmentInput struct {
	Owner   OwnerRef  `json:"owner"`
	Amount  int64     `json:"amount"`
	Reason  string    `json:"reason"`
	AdminID uuid.UUID `json:"adminId"`
}

// TransactionFilter narrows owner history queries.
type TransactionFilter struct {
	IncludeArchived bool
	Limit           int
	Offset          int
}
