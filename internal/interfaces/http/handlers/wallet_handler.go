package handlers

import (
	"context"
	"net/http"
	"strconv"

	"dinewallet.backend/internal/domain/entities"
	"dinewallet.backend/internal/interfaces/http/response"
	"dinewallet.backend/internal/usecases"
	"dinewallet.backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

type walletService interface {
	GetWallet(ctx context.Context, owner entities.OwnerRef) (*entities.Wallet, error)
	ListTransactions(ctx context.Context, owner entities.OwnerRef, includeArchived bool, pagination utils.PaginationParams) ([]*entities.Transaction, utils.PaginationMeta, error)
}

// WalletHandler handles wallet read endpoints
type WalletHandler struct {
	walletUsecase walletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase *usecases.WalletUsecase) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// GetWallet returns an owner's wallet and balance
// GET /api/v1/wallets/:ownerType/:ownerId
func (h *WalletHandler) GetWallet(c *gin.Context) {
	owner, ok := ownerParams(c)
	if !ok {
		return
	}

	wallet, err := h.walletUsecase.GetWallet(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"wallet":           wallet,
		"formattedBalance": entities.FormatMinor(wallet.Balance),
	})
}

// ListTransactions pages through an owner's transactions
// GET /api/v1/wallets/:ownerType/:ownerId/transactions?page=&limit=&includeArchived=
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	owner, ok := ownerParams(c)
	if !ok {
		return
	}

	includeArchived, _ := strconv.ParseBool(c.DefaultQuery("includeArchived", "false"))
	pagination := utils.ParsePagination(c.Query("page"), c.Query("limit"))

	items, meta, err := h.walletUsecase.ListTransactions(c.Request.Context(), owner, includeArchived, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	if items == nil {
		items = []*entities.Transaction{}
	}
	response.Success(c, http.StatusOK, gin.H{
		"items": items,
		"meta":  meta,
	})
}
