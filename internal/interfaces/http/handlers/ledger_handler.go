package handlers

import (
	"context"
	"net/http"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/interfaces/http/middleware"
	"dinewallet.backend/internal/interfaces/http/response"
	"dinewallet.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ledgerService interface {
	CreatePromotionalTransaction(ctx context.Context, customerID, promotionID uuid.UUID, amount int64) (*entities.Transaction, error)
	CreditPromotion(ctx context.Context, customerID, promotionID uuid.UUID) (*entities.Transaction, error)
	CreateReferralTransaction(ctx context.Context, referrerID, userID uuid.UUID, amount int64) (*entities.Transaction, error)
	CreateAdjustment(ctx context.Context, input entities.AdjustmentInput) (*entities.Transaction, error)
}

// LedgerHandler handles promotion, referral and adjustment endpoints
type LedgerHandler struct {
	ledgerUsecase ledgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerUsecase *usecases.LedgerUsecase) *LedgerHandler {
	return &LedgerHandler{ledgerUsecase: ledgerUsecase}
}

type promotionCreditRequest struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
	// Amount overrides the promotion's configured amount when set.
	Amount *int64 `json:"amount"`
}

type referralRequest struct {
	ReferrerID uuid.UUID `json:"referrerId" binding:"required"`
	UserID     uuid.UUID `json:"userId" binding:"required"`
	Amount     int64     `json:"amount" binding:"required"`
}

type adjustmentRequest struct {
	OwnerType string    `json:"ownerType" binding:"required"`
	OwnerID   uuid.UUID `json:"ownerId" binding:"required"`
	Amount    int64     `json:"amount"`
	Reason    string    `json:"reason"`
}

// CreditPromotion credits a promotion to a customer
// POST /api/v1/promotions/:id/credits
func (h *LedgerHandler) CreditPromotion(c *gin.Context) {
	promotionID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req promotionCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	var (
		txn *entities.Transaction
		err error
	)
	if req.Amount != nil {
		txn, err = h.ledgerUsecase.CreatePromotionalTransaction(c.Request.Context(), req.CustomerID, promotionID, *req.Amount)
	} else {
		txn, err = h.ledgerUsecase.CreditPromotion(c.Request.Context(), req.CustomerID, promotionID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, txn)
}

// CreateReferral pays a referral reward
// POST /api/v1/referrals
func (h *LedgerHandler) CreateReferral(c *gin.Context) {
	var req referralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	txn, err := h.ledgerUsecase.CreateReferralTransaction(c.Request.Context(), req.ReferrerID, req.UserID, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, txn)
}

// CreateAdjustment applies a manual correction; the admin is the caller
// POST /api/v1/admin/adjustments
func (h *LedgerHandler) CreateAdjustment(c *gin.Context) {
	var req adjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	adminID, ok := middleware.GetOperatorID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Operator not authenticated"))
		return
	}

	ownerType, ok := entities.ParseOwnerType(req.OwnerType)
	if !ok {
		response.Error(c, domainerrors.Validation("ownerType must be customer or restaurant"))
		return
	}

	txn, err := h.ledgerUsecase.CreateAdjustment(c.Request.Context(), entities.AdjustmentInput{
		Owner:   entities.OwnerRef{Type: ownerType, ID: req.OwnerID},
		Amount:  req.Amount,
		Reason:  req.Reason,
		AdminID: adminID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, txn)
}
