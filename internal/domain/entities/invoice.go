package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// DefaultTaxMultiplier turns the pre-tax commission into the amount owed.
var DefaultTaxMultiplier = decimal.RequireFromString("1.2")

// Invoice is a persisted billing period for a restaurant.
type Invoice struct {
	ID               uuid.UUID       `json:"id"`
	RestaurantID     uuid.UUID       `json:"restaurantId"`
	Number           string          `json:"number"`
	ClientNumber     string          `json:"clientNumber"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	BillTotal        int64           `json:"billTotal"`
	CommissionRate   decimal.Decimal `json:"commissionRate"`
	PreTaxOwed       int64           `json:"preTaxOwed"`
	TotalOwed        int64           `json:"totalOwed"`
	FinalBalance     int64           `json:"finalBalance"`
	ReservationCount int             `json:"reservationCount"`
	Paid             bool            `json:"paid"`
	PaidAt           null.Time       `json:"paidAt"`
	Archived         bool            `json:"archived"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// InvoiceSummary is the computed, not yet persisted, content of an invoice.
type InvoiceSummary struct {
	RestaurantID        uuid.UUID       `json:"restaurantId"`
	StartDate           time.Time       `json:"startDate"`
	EndDate             time.Time       `json:"endDate"`
	BillingAddress      BillingAddress  `json:"billingAddress"`
	ClientNumber        string          `json:"clientNumber"`
	InvoiceNumber       string          `json:"invoiceNumber"`
	BillTotal           int64           `json:"billTotal"`
	CommissionRate      decimal.Decimal `json:"commissionRate"`
	FormattedCommission string          `json:"formattedCommission"`
	PreTaxOwed          int64           `json:"preTaxOwed"`
	TotalOwed           int64           `json:"totalOwed"`
	FinalBalance        int64           `json:"finalBalance"`
	Reservations        []*Reservation  `json:"reservations"`
}

// ToInvoice materialises the summary as an unpaid invoice.
func (s *InvoiceSummary) ToInvoice(id uuid.UUID, now time.Time) *Invoice {
	return &Invoice{
		ID:               id,
		RestaurantID:     s.RestaurantID,
		Number:           s.InvoiceNumber,
		ClientNumber:     s.ClientNumber,
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
		BillTotal:        s.BillTotal,
		CommissionRate:   s.CommissionRate,
		PreTaxOwed:       s.PreTaxOwed,
		TotalOwed:        s.TotalOwed,
		FinalBalance:     s.FinalBalance,
		ReservationCount: len(s.Reservations),
		CreatedAt:        now,
	}
}

// InvoiceNotReady explains why an invoice cannot be produced yet. It is a
// normal outcome, not an error.
type InvoiceNotReady struct {
	Reason string `json:"reason"`
}

// InvoiceOutcome holds exactly one of Summary or NotReady. Invoice is set when
// the summary was persisted.
type InvoiceOutcome struct {
	Summary  *InvoiceSummary  `json:"summary,omitempty"`
	Invoice  *Invoice         `json:"invoice,omitempty"`
	NotReady *InvoiceNotReady `json:"notReady,omitempty"`
}

func (o *InvoiceOutcome) Ready() bool {
	return o != nil && o.NotReady == nil && o.Summary != nil
}

func NotReadyOutcome(format string, args ...interface{}) *InvoiceOutcome {
	return &InvoiceOutcome{NotReady: &InvoiceNotReady{Reason: fmt.Sprintf(format, args...)}}
}

// ClientNumber is the restaurant's billing client number.
func ClientNumber(accountNumber int64) string {
	return fmt.Sprintf("A000%d", accountNumber)
}

// InvoiceNumber numbers the next invoice after priorActive non-archived invoices.
func InvoiceNumber(accountNumber int64, priorActive int64) string {
	return fmt.Sprintf("A%d-%d", accountNumber, priorActive+1)
}

// InvoiceDates describes which periods can be invoiced next. EndDates are the
// last days of the selectable months, most recent first.
type InvoiceDates struct {
	StartDate time.Time        `json:"startDate"`
	EndDates  []time.Time      `json:"endDates"`
	NotReady  *InvoiceNotReady `json:"notReady,omitempty"`
}
