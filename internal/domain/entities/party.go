package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a diner. ReferrerID is set when another customer referred them.
type Customer struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	ReferrerID *uuid.UUID `json:"referrerId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// BillingAddress is printed on invoices.
type BillingAddress struct {
	Company string `json:"company"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Country string `json:"country"`
}

// Restaurant is a venue billed a commission on settled reservations.
// AccountNumber is the sequential number used in client and invoice numbers.
type Restaurant struct {
	ID             uuid.UUID       `json:"id"`
	AccountNumber  int64           `json:"accountNumber"`
	Name           string          `json:"name"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	Billing        BillingAddress  `json:"billing"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Promotion grants a fixed credit to customers.
type Promotion struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}
