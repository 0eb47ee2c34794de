package repositories

import (
	"context"
	"errors"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *entities.Transaction) error {
	m := r.toModel(txn)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	txn.CreatedAt = m.CreatedAt
	return nil
}

func (r *TransactionRepository) CreateLink(ctx context.Context, link *entities.RelatedTransaction) error {
	m := &models.RelatedTransaction{
		ID:                 link.ID,
		TransactionID:      link.TransactionID,
		OtherTransactionID: link.OtherTransactionID,
		CreatedAt:          link.CreatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	link.CreatedAt = m.CreatedAt
	return nil
}

// ListActiveByReservation returns the reservation's non-archived settlement
// transactions, customer side first.
func (r *TransactionRepository) ListActiveByReservation(ctx context.Context, reservationID uuid.UUID) ([]*entities.Transaction, error) {
	var ms []models.Transaction
	err := GetDB(ctx, r.db).
		Where("kind = ? AND subject_type = ? AND subject_id = ? AND archived = ?",
			string(entities.TransactionKindReservation), string(entities.SubjectTypeReservation), reservationID, false).
		Order("owner_type ASC, created_at ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

// GetRestaurantSide returns the restaurant-side transaction of the reservation's
// latest settlement, archived or not.
func (r *TransactionRepository) GetRestaurantSide(ctx context.Context, reservationID uuid.UUID) (*entities.Transaction, error) {
	var m models.Transaction
	err := GetDB(ctx, r.db).
		Where("kind = ? AND subject_type = ? AND subject_id = ? AND owner_type = ?",
			string(entities.TransactionKindReservation), string(entities.SubjectTypeReservation), reservationID,
			string(entities.OwnerTypeRestaurant)).
		Order("archived ASC, created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Archive flips the archived flag; it is the only update a transaction ever receives.
func (r *TransactionRepository) Archive(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	result := GetDB(ctx, r.db).
		Model(&models.Transaction{}).
		Where("id IN ? AND archived = ?", ids, false).
		Update("archived", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != int64(len(ids)) {
		return domainerrors.Conflict("transactions already archived")
	}
	return nil
}

func (r *TransactionRepository) ListByOwner(ctx context.Context, owner entities.OwnerRef, filter entities.TransactionFilter) ([]*entities.Transaction, int64, error) {
	query := GetDB(ctx, r.db).
		Model(&models.Transaction{}).
		Where("owner_type = ? AND owner_id = ?", string(owner.Type), owner.ID)
	if !filter.IncludeArchived {
		query = query.Where("archived = ?", false)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Transaction
	query = query.Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return r.toEntities(ms), total, nil
}

func (r *TransactionRepository) ExistsForSubject(ctx context.Context, kind entities.TransactionKind, subject entities.SubjectRef) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&models.Transaction{}).
		Where("kind = ? AND subject_type = ? AND subject_id = ? AND archived = ?",
			string(kind), string(subject.Type), subject.ID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActiveTotalsByWallet sums the signed deltas of non-archived transactions per wallet.
func (r *TransactionRepository) ActiveTotalsByWallet(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []struct {
		WalletID uuid.UUID
		Total    int64
	}
	err := GetDB(ctx, r.db).
		Model(&models.Transaction{}).
		Select("wallet_id, COALESCE(SUM(final_balance - original_balance), 0) AS total").
		Where("archived = ?", false).
		Group("wallet_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		totals[row.WalletID] = row.Total
	}
	return totals, nil
}

func (r *TransactionRepository) toEntities(ms []models.Transaction) []*entities.Transaction {
	items := make([]*entities.Transaction, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items
}

func (r *TransactionRepository) toEntity(m *models.Transaction) *entities.Transaction {
	txn := &entities.Transaction{
		ID:               m.ID,
		Kind:             entities.TransactionKind(m.Kind),
		WalletID:         m.WalletID,
		Owner:            entities.OwnerRef{Type: entities.OwnerType(m.OwnerType), ID: m.OwnerID},
		Amount:           m.Amount,
		AmountPositive:   m.AmountPositive,
		Discount:         m.Discount,
		UserContribution: m.UserContribution,
		OriginalBalance:  m.OriginalBalance,
		FinalBalance:     m.FinalBalance,
		Reason:           m.Reason,
		AdminID:          m.AdminID,
		Archived:         m.Archived,
		CreatedAt:        m.CreatedAt,
	}
	if m.SubjectType.Valid && m.SubjectID != nil {
		txn.Subject = &entities.SubjectRef{Type: entities.SubjectType(m.SubjectType.String), ID: *m.SubjectID}
	}
	return txn
}

func (r *TransactionRepository) toModel(e *entities.Transaction) *models.Transaction {
	m := &models.Transaction{
		ID:               e.ID,
		Kind:             string(e.Kind),
		WalletID:         e.WalletID,
		OwnerType:        string(e.Owner.Type),
		OwnerID:          e.Owner.ID,
		Amount:           e.Amount,
		AmountPositive:   e.AmountPositive,
		Discount:         e.Discount,
		UserContribution: e.UserContribution,
		OriginalBalance:  e.OriginalBalance,
		FinalBalance:     e.FinalBalance,
		Reason:           e.Reason,
		AdminID:          e.AdminID,
		Archived:         e.Archived,
		CreatedAt:        e.CreatedAt,
	}
	if e.Subject != nil {
		subjectID := e.Subject.ID
		m.SubjectType = null.StringFrom(string(e.Subject.Type))
		m.SubjectID = &subjectID
	}
	return m
}
