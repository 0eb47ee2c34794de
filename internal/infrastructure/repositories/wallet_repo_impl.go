package repositories

import (
	"context"
	"errors"
	"time"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/infrastructure/models"
	"dinewallet.backend/pkg/utils"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepository is the gorm-backed wallet store.
type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Open returns the owner's wallet, creating it with a zero balance on first use.
// Inside a unit of work the row stays locked until the unit ends.
func (r *WalletRepository) Open(ctx context.Context, owner entities.OwnerRef) (*entities.Wallet, error) {
	db := GetDB(ctx, r.db)
	now := time.Now().UTC()
	m := &models.Wallet{
		ID:        utils.GenerateUUIDv7(),
		OwnerType: string(owner.Type),
		OwnerID:   owner.ID,
		Balance:   null.Int64From(0),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_type"}, {Name: "owner_id"}},
		DoNothing: true,
	}).Create(m).Error
	if err != nil {
		return nil, err
	}
	return r.find(ctx, owner, inTx(ctx))
}

// GetByOwner reads a wallet without creating it.
func (r *WalletRepository) GetByOwner(ctx context.Context, owner entities.OwnerRef) (*entities.Wallet, error) {
	return r.find(ctx, owner, false)
}

// ApplyDelta adds delta to the stored balance in a single statement and
// returns the balance now stored.
func (r *WalletRepository) ApplyDelta(ctx context.Context, owner entities.OwnerRef, delta int64) (int64, error) {
	db := GetDB(ctx, r.db)
	result := db.Model(&models.Wallet{}).
		Where("owner_type = ? AND owner_id = ?", string(owner.Type), owner.ID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("COALESCE(balance, 0) + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, domainerrors.ErrNotFound
	}

	w, err := r.find(ctx, owner, false)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (r *WalletRepository) List(ctx context.Context) ([]*entities.Wallet, error) {
	var ms []models.Wallet
	if err := GetDB(ctx, r.db).Order("owner_type ASC, owner_id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	items := make([]*entities.Wallet, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *WalletRepository) find(ctx context.Context, owner entities.OwnerRef, lock bool) (*entities.Wallet, error) {
	query := GetDB(ctx, r.db).Where("owner_type = ? AND owner_id = ?", string(owner.Type), owner.ID)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m models.Wallet
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *WalletRepository) toEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:        m.ID,
		Owner:     entities.OwnerRef{Type: entities.OwnerType(m.OwnerType), ID: m.OwnerID},
		Balance:   m.Balance.Int64,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
