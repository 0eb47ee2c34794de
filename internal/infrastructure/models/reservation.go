package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type Reservation struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	RestaurantID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_reservations_restaurant_time,priority:1"`
	ServiceID        *uuid.UUID      `gorm:"type:uuid"`
	Status           string          `gorm:"type:varchar(30);not null;default:'not_viewed'"`
	Time             time.Time       `gorm:"not null;index:idx_reservations_restaurant_time,priority:2"`
	NbPeople         int             `gorm:"not null;default:1"`
	BookingName      string          `gorm:"type:varchar(255)"`
	Confirmation     string          `gorm:"type:varchar(50)"`
	BillAmount       null.Int64      `gorm:"type:bigint"`
	Discount         decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0"`
	UserContribution int64           `gorm:"not null;default:0"`
	Archived         bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
