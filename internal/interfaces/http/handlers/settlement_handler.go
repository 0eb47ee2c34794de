package handlers

import (
	"context"
	"net/http"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/interfaces/http/response"
	"dinewallet.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type settlementService interface {
	Settle(ctx context.Context, reservationID uuid.UUID, req entities.SettlementRequest) (*entities.SettlementResult, error)
	CreateReservationTransactions(ctx context.Context, reservationID uuid.UUID, in entities.SettlementInput) (*entities.SettlementPair, error)
	ResetReservationTransactions(ctx context.Context, reservationID uuid.UUID, in entities.SettlementInput) (*entities.SettlementPair, error)
	GetReservationLedger(ctx context.Context, reservationID uuid.UUID) (*entities.ReservationLedger, error)
}

// SettlementHandler handles reservation settlement endpoints
type SettlementHandler struct {
	settlementUsecase settlementService
}

// NewSettlementHandler creates a new settlement handler
func NewSettlementHandler(settlementUsecase *usecases.SettlementUsecase) *SettlementHandler {
	return &SettlementHandler{settlementUsecase: settlementUsecase}
}

// Settle runs the create/reset decision for a reservation save
// POST /api/v1/reservations/:id/settlement
func (h *SettlementHandler) Settle(c *gin.Context) {
	reservationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req entities.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.settlementUsecase.Settle(c.Request.Context(), reservationID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if result.Action != entities.SettlementActionNone {
		status = http.StatusCreated
	}
	response.Success(c, status, result)
}

// CreateTransactions settles a reservation that has no active settlement
// POST /api/v1/reservations/:id/transactions
func (h *SettlementHandler) CreateTransactions(c *gin.Context) {
	reservationID, input, ok := bindSettlement(c)
	if !ok {
		return
	}

	pair, err := h.settlementUsecase.CreateReservationTransactions(c.Request.Context(), reservationID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, pair)
}

// ResetTransactions replaces the active settlement of a reservation
// PUT /api/v1/reservations/:id/transactions
func (h *SettlementHandler) ResetTransactions(c *gin.Context) {
	reservationID, input, ok := bindSettlement(c)
	if !ok {
		return
	}

	pair, err := h.settlementUsecase.ResetReservationTransactions(c.Request.Context(), reservationID, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pair)
}

// GetLedger returns the reservation with its active settlement
// GET /api/v1/reservations/:id/ledger
func (h *SettlementHandler) GetLedger(c *gin.Context) {
	reservationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	view, err := h.settlementUsecase.GetReservationLedger(c.Request.Context(), reservationID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func bindSettlement(c *gin.Context) (uuid.UUID, entities.SettlementInput, bool) {
	reservationID, ok := uuidParam(c, "id")
	if !ok {
		return uuid.Nil, entities.SettlementInput{}, false
	}

	var req entities.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return uuid.Nil, entities.SettlementInput{}, false
	}
	if !req.Complete() {
		response.Error(c, domainerrors.Validation("billAmount, discount and userContribution are required"))
		return uuid.Nil, entities.SettlementInput{}, false
	}
	return reservationID, req.Input(), true
}
