package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type Transaction struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Kind             string          `gorm:"type:varchar(20);not null;index"`
	WalletID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OwnerType        string          `gorm:"type:varchar(20);not null;index:idx_transactions_owner,priority:1"`
	OwnerID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_transactions_owner,priority:2"`
	SubjectType      null.String     `gorm:"type:varchar(20);index:idx_transactions_subject,priority:1"`
	SubjectID        *uuid.UUID      `gorm:"type:uuid;index:idx_transactions_subject,priority:2"`
	Amount           int64           `gorm:"not null"`
	AmountPositive   bool            `gorm:"not null"`
	Discount         decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0"`
	UserContribution int64           `gorm:"not null;default:0"`
	OriginalBalance  int64           `gorm:"not null"`
	FinalBalance     int64           `gorm:"not null"`
	Reason           null.String     `gorm:"type:text"`
	AdminID          *uuid.UUID      `gorm:"type:uuid"`
	Archived         bool            `gorm:"not null;default:false;index"`
	CreatedAt        time.Time       `gorm:"index"`
}

// RelatedTransaction pairs the two sides of a reservation settlement.
type RelatedTransaction struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	TransactionID      uuid.UUID `gorm:"type:uuid;not null;index"`
	OtherTransactionID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt          time.Time
}
