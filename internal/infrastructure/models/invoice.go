package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RestaurantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number           string          `gorm:"type:varchar(50);not null"`
	ClientNumber     string          `gorm:"type:varchar(50);not null"`
	StartDate        time.Time       `gorm:"not null"`
	EndDate          time.Time       `gorm:"not null"`
	BillTotal        int64           `gorm:"not null"`
	CommissionRate   decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	PreTaxOwed       int64           `gorm:"not null"`
	TotalOwed        int64           `gorm:"not null"`
	FinalBalance     int64           `gorm:"not null"`
	ReservationCount int             `gorm:"not null;default:0"`
	Paid             bool            `gorm:"not null;default:false"`
	PaidAt           *time.Time
	Archived         bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
