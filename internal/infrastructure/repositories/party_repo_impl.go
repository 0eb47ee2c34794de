package repositories

import (
	"context"
	"errors"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	m := &models.Customer{
		ID:         customer.ID,
		Name:       customer.Name,
		Email:      customer.Email,
		ReferrerID: customer.ReferrerID,
		CreatedAt:  customer.CreatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	customer.CreatedAt = m.CreatedAt
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Customer, error) {
	var m models.Customer
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &entities.Customer{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		ReferrerID: m.ReferrerID,
		CreatedAt:  m.CreatedAt,
	}, nil
}

type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *entities.Restaurant) error {
	m := &models.Restaurant{
		ID:             restaurant.ID,
		AccountNumber:  restaurant.AccountNumber,
		Name:           restaurant.Name,
		CommissionRate: restaurant.CommissionRate,
		BillingCompany: restaurant.Billing.Company,
		BillingStreet:  restaurant.Billing.Street,
		BillingCity:    restaurant.Billing.City,
		BillingZipcode: restaurant.Billing.Zipcode,
		BillingCountry: restaurant.Billing.Country,
		CreatedAt:      restaurant.CreatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	restaurant.CreatedAt = m.CreatedAt
	return nil
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Restaurant, error) {
	var m models.Restaurant
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &entities.Restaurant{
		ID:             m.ID,
		AccountNumber:  m.AccountNumber,
		Name:           m.Name,
		CommissionRate: m.CommissionRate,
		Billing: entities.BillingAddress{
			Company: m.BillingCompany,
			Street:  m.BillingStreet,
			City:    m.BillingCity,
			Zipcode: m.BillingZipcode,
			Country: m.BillingCountry,
		},
		CreatedAt: m.CreatedAt,
	}, nil
}

func (r *RestaurantRepository) Lock(ctx context.Context, id uuid.UUID) error {
	var m models.Restaurant
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", id).
		First(&m).Error
	return notFoundOr(err)
}

type PromotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

func (r *PromotionRepository) Create(ctx context.Context, promotion *entities.Promotion) error {
	m := &models.Promotion{
		ID:        promotion.ID,
		Name:      promotion.Name,
		Amount:    promotion.Amount,
		CreatedAt: promotion.CreatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	promotion.CreatedAt = m.CreatedAt
	return nil
}

func (r *PromotionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Promotion, error) {
	var m models.Promotion
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &entities.Promotion{ID: m.ID, Name: m.Name, Amount: m.Amount, CreatedAt: m.CreatedAt}, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound
	}
	return err
}
