package handlers

import (
	"context"
	"net/http"

	"dinewallet.backend/internal/domain/entities"
	"dinewallet.backend/internal/interfaces/http/response"
	"dinewallet.backend/internal/usecases"
	"github.com/gin-gonic/gin"
)

type reconciliationService interface {
	Reconcile(ctx context.Context) ([]entities.WalletDiscrepancy, error)
}

// AdminHandler handles back-office ledger checks
type AdminHandler struct {
	reconciliationUsecase reconciliationService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(reconciliationUsecase *usecases.ReconciliationUsecase) *AdminHandler {
	return &AdminHandler{reconciliationUsecase: reconciliationUsecase}
}

// Reconcile compares every wallet with its ledger on demand
// GET /api/v1/admin/reconciliation
func (h *AdminHandler) Reconcile(c *gin.Context) {
	found, err := h.reconciliationUsecase.Reconcile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if found == nil {
		found = []entities.WalletDiscrepancy{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"consistent":    len(found) == 0,
		"discrepancies": found,
	})
}
