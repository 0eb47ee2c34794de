package handlers

import (
	"errors"
	"net/http"
	"testing"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWalletRouter(svc walletService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &WalletHandler{walletUsecase: svc}
	r := gin.New()
	r.GET("/wallets/:ownerType/:ownerId", h.GetWallet)
	r.GET("/wallets/:ownerType/:ownerId/transactions", h.ListTransactions)
	return r
}

func TestWalletHandler_GetWallet(t *testing.T) {
	svc := new(mockWalletService)
	r := newWalletRouter(svc)
	customer := entities.CustomerRef(uuid.New())
	missing := entities.RestaurantRef(uuid.New())
	svc.On("GetWallet", mock.Anything, customer).Return(&entities.Wallet{ID: uuid.New(), Owner: customer, Balance: -1234}, nil)
	svc.On("GetWallet", mock.Anything, missing).Return(nil, domainerrors.NotFound("wallet not found"))

	w := serve(r, http.MethodGet, "/wallets/customer/"+customer.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"formattedBalance":"-12.34"`)

	w = serve(r, http.MethodGet, "/wallets/restaurant/"+missing.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestWalletHandler_OwnerParamErrors(t *testing.T) {
	svc := new(mockWalletService)
	r := newWalletRouter(svc)

	w := serve(r, http.MethodGet, "/wallets/supplier/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid owner type")

	w = serve(r, http.MethodGet, "/wallets/customer/abc/transactions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid ownerId")
	svc.AssertNotCalled(t, "GetWallet", mock.Anything, mock.Anything)
}

func TestWalletHandler_ListTransactionsPaginates(t *testing.T) {
	svc := new(mockWalletService)
	r := newWalletRouter(svc)
	owner := entities.RestaurantRef(uuid.New())
	clamped := utils.PaginationParams{Page: 2, Limit: utils.MaxPageSize}
	txn := &entities.Transaction{ID: uuid.New(), Owner: owner}

	svc.On("ListTransactions", mock.Anything, owner, true, clamped).
		Return([]*entities.Transaction{txn}, clamped.Meta(250), nil)
	svc.On("ListTransactions", mock.Anything, owner, false, utils.PaginationParams{Page: 1, Limit: utils.DefaultPageSize}).
		Return(nil, utils.PaginationParams{Page: 1, Limit: utils.DefaultPageSize}.Meta(0), nil)

	w := serve(r, http.MethodGet, "/wallets/restaurant/"+owner.ID.String()+"/transactions?page=2&limit=5000&includeArchived=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), txn.ID.String())
	assert.Contains(t, w.Body.String(), `"totalPages":2`)
	assert.Contains(t, w.Body.String(), `"hasPrev":true`)

	w = serve(r, http.MethodGet, "/wallets/restaurant/"+owner.ID.String()+"/transactions?page=x", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
	svc.AssertExpectations(t)
}

func TestWalletHandler_ListTransactionsError(t *testing.T) {
	svc := new(mockWalletService)
	r := newWalletRouter(svc)
	owner := entities.CustomerRef(uuid.New())
	svc.On("ListTransactions", mock.Anything, owner, false, mock.Anything).
		Return(nil, utils.PaginationMeta{}, errors.New("statement timeout"))

	w := serve(r, http.MethodGet, "/wallets/customer/"+owner.ID.String()+"/transactions", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "statement timeout")
}
