package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// ReservationStatus is the closed set of reservation states.
type ReservationStatus string

const (
	ReservationStatusNotViewed           ReservationStatus = "not_viewed"
	ReservationStatusViewed              ReservationStatus = "viewed"
	ReservationStatusCancelled           ReservationStatus = "cancelled"
	ReservationStatusValidated           ReservationStatus = "validated"
	ReservationStatusFinished            ReservationStatus = "finished"
	ReservationStatusAbsent              ReservationStatus = "absent"
	ReservationStatusPendingConfirmation ReservationStatus = "pending_confirmation"
)

// InitialReservationStatus is the status of a freshly booked reservation.
const InitialReservationStatus = ReservationStatusNotViewed

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusNotViewed, ReservationStatusViewed, ReservationStatusCancelled,
		ReservationStatusValidated, ReservationStatusFinished, ReservationStatusAbsent,
		ReservationStatusPendingConfirmation:
		return true
	}
	return false
}

// IsSettleable reports whether moving to s triggers a settlement. Only Validated does.
func IsSettleable(s ReservationStatus) bool {
	return s == ReservationStatusValidated
}

// IsTerminal reports whether no further customer-facing transition is expected.
func IsTerminal(s ReservationStatus) bool {
	switch s {
	case ReservationStatusCancelled, ReservationStatusFinished, ReservationStatusAbsent:
		return true
	}
	return false
}

// IsFinished groups the statuses the back office lists as done with: the
// restaurant has acted on the booking one way or another.
func IsFinished(s ReservationStatus) bool {
	switch s {
	case ReservationStatusAbsent, ReservationStatusValidated,
		ReservationStatusPendingConfirmation, ReservationStatusCancelled:
		return true
	}
	return false
}

func IsCancelled(s ReservationStatus) bool {
	return s == ReservationStatusCancelled
}

// IsInProgress reports whether the restaurant still has to act on the reservation.
func IsInProgress(s ReservationStatus) bool {
	switch s {
	case ReservationStatusAbsent, ReservationStatusValidated, ReservationStatusPendingConfirmation:
		return false
	}
	return true
}

// Reservation is read by the ledger for settlement and invoicing. Booking,
// scheduling and notification concerns live elsewhere.
type Reservation struct {
	ID               uuid.UUID         `json:"id"`
	CustomerID       uuid.UUID         `json:"customerId"`
	RestaurantID     uuid.UUID         `json:"restaurantId"`
	ServiceID        *uuid.UUID        `json:"serviceId,omitempty"`
	Status           ReservationStatus `json:"status"`
	Time             time.Time         `json:"time"`
	NbPeople         int               `json:"nbPeople"`
	BookingName      string            `json:"bookingName"`
	Confirmation     string            `json:"confirmation"`
	BillAmount       null.Int64        `json:"billAmount"`
	Discount         decimal.Decimal   `json:"discount"`
	UserContribution int64             `json:"userContribution"`
	Archived         bool              `json:"archived"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// ReservationLedger is the settlement view of one reservation.
type ReservationLedger struct {
	Reservation  *Reservation   `json:"reservation"`
	Transactions []*Transaction `json:"transactions"`
	Earnings     null.String    `json:"earnings"`
}

// Earnings is the customer's balance change from the first active transaction,
// formatted in major units; null when the reservation is not settled.
func Earnings(active []*Transaction) null.String {
	if len(active) == 0 {
		return null.String{}
	}
	return null.StringFrom(FormatMinor(active[0].Delta()))
}
