package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name       string     `gorm:"type:varchar(255);not null"`
	Email      string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	ReferrerID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Restaurant struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountNumber  int64           `gorm:"not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(255);not null"`
	CommissionRate decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0"`
	BillingCompany string          `gorm:"type:varchar(255)"`
	BillingStreet  string          `gorm:"type:varchar(255)"`
	BillingCity    string          `gorm:"type:varchar(120)"`
	BillingZipcode string          `gorm:"type:varchar(20)"`
	BillingCountry string          `gorm:"type:varchar(120)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Promotion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Amount    int64     `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
