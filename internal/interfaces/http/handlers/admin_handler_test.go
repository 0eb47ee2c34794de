package handlers

import (
	"net/http"
	"testing"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdminRouter(svc reconciliationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &AdminHandler{reconciliationUsecase: svc}
	r := gin.New()
	r.GET("/admin/reconciliation", h.Reconcile)
	return r
}

func TestAdminHandler_ReconcileConsistent(t *testing.T) {
	svc := new(mockReconciliationService)
	svc.On("Reconcile", mock.Anything).Return(nil, nil)

	w := serve(newAdminRouter(svc), http.MethodGet, "/admin/reconciliation", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"consistent":true,"discrepancies":[]}`, w.Body.String())
}

func TestAdminHandler_ReconcileReportsDrift(t *testing.T) {
	svc := new(mockReconciliationService)
	walletID := uuid.New()
	svc.On("Reconcile", mock.Anything).Return([]entities.WalletDiscrepancy{{
		WalletID:    walletID,
		Owner:       entities.CustomerRef(uuid.New()),
		Balance:     2500,
		LedgerTotal: 2000,
	}}, nil)

	w := serve(newAdminRouter(svc), http.MethodGet, "/admin/reconciliation", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"consistent":false`)
	assert.Contains(t, w.Body.String(), walletID.String())
	assert.Contains(t, w.Body.String(), `"ledgerTotal":2000`)
}

func TestAdminHandler_ReconcileFailure(t *testing.T) {
	svc := new(mockReconciliationService)
	svc.On("Reconcile", mock.Anything).Return(nil, domainerrors.Consistency("wallet table unreadable"))

	w := serve(newAdminRouter(svc), http.MethodGet, "/admin/reconciliation", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"CONSISTENCY_ERROR"`)
}
