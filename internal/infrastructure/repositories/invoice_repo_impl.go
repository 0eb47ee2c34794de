package repositories

import (
	"context"
	"time"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *entities.Invoice) error {
	m := r.toModel(invoice)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	invoice.CreatedAt = m.CreatedAt
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Invoice, error) {
	var m models.Invoice
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *InvoiceRepository) CountActive(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&models.Invoice{}).
		Where("restaurant_id = ? AND archived = ?", restaurantID, false).
		Count(&count).Error
	return count, err
}

// LastPaid returns the paid invoice with the latest end date.
func (r *InvoiceRepository) LastPaid(ctx context.Context, restaurantID uuid.UUID) (*entities.Invoice, error) {
	var m models.Invoice
	err := GetDB(ctx, r.db).
		Where("restaurant_id = ? AND paid = ? AND archived = ?", restaurantID, true, false).
		Order("end_date DESC").
		First(&m).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return r.toEntity(&m), nil
}

func (r *InvoiceRepository) ArchiveUnpaidExcept(ctx context.Context, restaurantID, keepID uuid.UUID) (int64, error) {
	result := GetDB(ctx, r.db).
		Model(&models.Invoice{}).
		Where("restaurant_id = ? AND id <> ? AND paid = ? AND archived = ?", restaurantID, keepID, false, false).
		Updates(map[string]interface{}{
			"archived":   true,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

func (r *InvoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	result := GetDB(ctx, r.db).
		Model(&models.Invoice{}).
		Where("id = ? AND archived = ?", id, false).
		Updates(map[string]interface{}{
			"paid":       true,
			"paid_at":    paidAt.UTC(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepository) toEntity(m *models.Invoice) *entities.Invoice {
	inv := &entities.Invoice{
		ID:               m.ID,
		RestaurantID:     m.RestaurantID,
		Number:           m.Number,
		ClientNumber:     m.ClientNumber,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		BillTotal:        m.BillTotal,
		CommissionRate:   m.CommissionRate,
		PreTaxOwed:       m.PreTaxOwed,
		TotalOwed:        m.TotalOwed,
		FinalBalance:     m.FinalBalance,
		ReservationCount: m.ReservationCount,
		Paid:             m.Paid,
		Archived:         m.Archived,
		CreatedAt:        m.CreatedAt,
	}
	if m.PaidAt != nil {
		inv.PaidAt = null.TimeFrom(*m.PaidAt)
	}
	return inv
}

func (r *InvoiceRepository) toModel(e *entities.Invoice) *models.Invoice {
	m := &models.Invoice{
		ID:               e.ID,
		RestaurantID:     e.RestaurantID,
		Number:           e.Number,
		ClientNumber:     e.ClientNumber,
		StartDate:        e.StartDate.UTC(),
		EndDate:          e.EndDate.UTC(),
		BillTotal:        e.BillTotal,
		CommissionRate:   e.CommissionRate,
		PreTaxOwed:       e.PreTaxOwed,
		TotalOwed:        e.TotalOwed,
		FinalBalance:     e.FinalBalance,
		ReservationCount: e.ReservationCount,
		Paid:             e.Paid,
		Archived:         e.Archived,
		CreatedAt:        e.CreatedAt,
	}
	if e.PaidAt.Valid {
		paidAt := e.PaidAt.Time.UTC()
		m.PaidAt = &paidAt
	}
	return m
}
