package repositories

import (
	"context"
	"time"

	"dinewallet.backend/internal/domain/entities"
	"github.com/google/uuid"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entities.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Invoice, error)
	CountActive(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	LastPaid(ctx context.Context, restaurantID uuid.UUID) (*entities.Invoice, error)
	// ArchiveUnpaidExcept archives every unpaid, non-archived invoice of the
	// restaurant other than keepID.
	ArchiveUnpaidExcept(ctx context.Context, restaurantID, keepID uuid.UUID) (int64, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error
}
