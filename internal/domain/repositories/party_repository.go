package repositories

import (
	"context"

	"dinewallet.backend/internal/domain/entities"
	"github.com/google/uuid"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *entities.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Customer, error)
}

type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *entities.Restaurant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Restaurant, error)
	// Lock takes a row lock on the restaurant for the rest of the transaction.
	Lock(ctx context.Context, id uuid.UUID) error
}

type PromotionRepository interface {
	Create(ctx context.Context, promotion *entities.Promotion) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Promotion, error)
}
