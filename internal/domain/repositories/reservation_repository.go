package repositories

import (
	"context"
	"time"

	"dinewallet.backend/internal/domain/entities"
	"github.com/google/uuid"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entities.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Reservation, error)
	// UpdateSettlement records the settled amounts and status on the reservation.
	UpdateSettlement(ctx context.Context, id uuid.UUID, input entities.SettlementInput, status entities.ReservationStatus) error
	// ListSettledForInvoice returns the restaurant's non-archived reservations
	// with time in [start, end) that carry at least one transaction, oldest first.
	ListSettledForInvoice(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) ([]*entities.Reservation, error)
}
