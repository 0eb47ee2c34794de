package repositories

import (
	"context"
	"errors"
	"time"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *entities.Reservation) error {
	m := r.toModel(reservation)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	reservation.CreatedAt = m.CreatedAt
	reservation.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Reservation, error) {
	var m models.Reservation
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *ReservationRepository) UpdateSettlement(ctx context.Context, id uuid.UUID, input entities.SettlementInput, status entities.ReservationStatus) error {
	result := GetDB(ctx, r.db).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"bill_amount":       input.BillAmount,
			"discount":          input.Discount,
			"user_contribution": input.UserContribution,
			"status":            string(status),
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ReservationRepository) ListSettledForInvoice(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) ([]*entities.Reservation, error) {
	settled := GetDB(ctx, r.db).
		Model(&models.Transaction{}).
		Select("1").
		Where("transactions.subject_type = ? AND transactions.subject_id = reservations.id",
			string(entities.SubjectTypeReservation))

	var ms []models.Reservation
	err := GetDB(ctx, r.db).
		Where("restaurant_id = ? AND archived = ? AND reservations.time >= ? AND reservations.time < ?",
			restaurantID, false, start.UTC(), end.UTC()).
		Where("EXISTS (?)", settled).
		Order("reservations.time ASC, reservations.id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	items := make([]*entities.Reservation, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *ReservationRepository) toEntity(m *models.Reservation) *entities.Reservation {
	return &entities.Reservation{
		ID:               m.ID,
		CustomerID:       m.CustomerID,
		RestaurantID:     m.RestaurantID,
		ServiceID:        m.ServiceID,
		Status:           entities.ReservationStatus(m.Status),
		Time:             m.Time,
		NbPeople:         m.NbPeople,
		BookingName:      m.BookingName,
		Confirmation:     m.Confirmation,
		BillAmount:       m.BillAmount,
		Discount:         m.Discount,
		UserContribution: m.UserContribution,
		Archived:         m.Archived,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *ReservationRepository) toModel(e *entities.Reservation) *models.Reservation {
	status := e.Status
	if status == "" {
		status = entities.InitialReservationStatus
	}
	return &models.Reservation{
		ID:               e.ID,
		CustomerID:       e.CustomerID,
		RestaurantID:     e.RestaurantID,
		ServiceID:        e.ServiceID,
		Status:           string(status),
		Time:             e.Time.UTC(),
		NbPeople:         e.NbPeople,
		BookingName:      e.BookingName,
		Confirmation:     e.Confirmation,
		BillAmount:       e.BillAmount,
		Discount:         e.Discount,
		UserContribution: e.UserContribution,
		Archived:         e.Archived,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
