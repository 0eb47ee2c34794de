package repositories

import (
	"context"

	"dinewallet.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// TransactionRepository persists ledger transactions. Records are never
// updated except for the archived flag.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entities.Transaction) error
	CreateLink(ctx context.Context, link *entities.RelatedTransaction) error
	ListActiveByReservation(ctx context.Context, reservationID uuid.UUID) ([]*entities.Transaction, error)
	Archive(ctx context.Context, ids []uuid.UUID) error
	ListByOwner(ctx context.Context, owner entities.OwnerRef, filter entities.TransactionFilter) ([]*entities.Transaction, int64, error)
	ExistsForSubject(ctx context.Context, kind entities.TransactionKind, subject entities.SubjectRef) (bool, error)
	ActiveTotalsByWallet(ctx context.Context) (map[uuid.UUID]int64, error)
	GetRestaurantSide(ctx context.Context, reservationID uuid.UUID) (*entities.Transaction, error)
}
