package handlers

import (
	"context"
	"net/http"
	"time"

	"dinewallet.backend/internal/domain/entities"
	"dinewallet.backend/internal/interfaces/http/response"
	"dinewallet.backend/internal/usecases"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type invoiceService interface {
	GetInvoiceSummary(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) (*entities.InvoiceOutcome, error)
	CreateInvoice(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) (*entities.InvoiceOutcome, error)
	MarkInvoicePaid(ctx context.Context, invoiceID uuid.UUID) (*entities.Invoice, error)
	InvoiceEndDateOptions(ctx context.Context, restaurantID uuid.UUID) (*entities.InvoiceDates, error)
}

// InvoiceHandler handles restaurant invoicing endpoints
type InvoiceHandler struct {
	invoiceUsecase invoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceUsecase *usecases.InvoiceUsecase) *InvoiceHandler {
	return &InvoiceHandler{invoiceUsecase: invoiceUsecase}
}

// GetSummary computes an invoice without persisting it. A period that cannot
// be invoiced yet is a 200 carrying notReady.
// GET /api/v1/admin/restaurants/:id/invoice-summary?start=&end=
func (h *InvoiceHandler) GetSummary(c *gin.Context) {
	restaurantID, start, end, ok := invoicePeriod(c)
	if !ok {
		return
	}

	outcome, err := h.invoiceUsecase.GetInvoiceSummary(c.Request.Context(), restaurantID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, outcome)
}

// CreateInvoice persists the invoice for a period
// POST /api/v1/admin/restaurants/:id/invoices?start=&end=
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	restaurantID, start, end, ok := invoicePeriod(c)
	if !ok {
		return
	}

	outcome, err := h.invoiceUsecase.CreateInvoice(c.Request.Context(), restaurantID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !outcome.Ready() {
		response.Success(c, http.StatusOK, outcome)
		return
	}
	response.Success(c, http.StatusCreated, outcome)
}

// MarkPaid records payment of an invoice
// PUT /api/v1/admin/invoices/:id/paid
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	invoiceID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceUsecase.MarkInvoicePaid(c.Request.Context(), invoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, invoice)
}

// GetDates lists the start date and selectable end dates of the next invoice
// GET /api/v1/admin/restaurants/:id/invoice-dates
func (h *InvoiceHandler) GetDates(c *gin.Context) {
	restaurantID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	dates, err := h.invoiceUsecase.InvoiceEndDateOptions(c.Request.Context(), restaurantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if dates.EndDates == nil {
		dates.EndDates = []time.Time{}
	}
	response.Success(c, http.StatusOK, dates)
}

func invoicePeriod(c *gin.Context) (uuid.UUID, time.Time, time.Time, bool) {
	restaurantID, ok := uuidParam(c, "id")
	if !ok {
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	start, ok := dateQuery(c, "start")
	if !ok {
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	return restaurantID, start, end, true
}
