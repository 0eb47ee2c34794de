package entities

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is the running balance of one owner, in minor currency units.
// It is only ever changed through the wallet store's apply-delta operation.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	Owner     OwnerRef  `json:"owner"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WalletDiscrepancy is reported by reconciliation when a wallet's balance differs
// from the sum of the signed deltas of its non-archived transactions.
type WalletDiscrepancy struct {
	WalletID    uuid.UUID `json:"walletId"`
	Owner       OwnerRef  `json:"owner"`
	Balance     int64     `json:"balance"`
	LedgerTotal int64     `json:"ledgerTotal"`
}

// Drift is how far the stored balance is from the ledger.
func (d WalletDiscrepancy) Drift() int64 {
	return d.Balance - d.LedgerTotal
}
