package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Wallet has one row per owner. Balance is nullable for rows written by the
// legacy booking app; a null balance reads as zero.
type Wallet struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerType string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_wallets_owner,priority:1"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_wallets_owner,priority:2"`
	Balance   null.Int64 `gorm:"type:bigint"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
