package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dinewallet.backend/internal/domain/entities"
	domainerrors "dinewallet.backend/internal/domain/errors"
	"dinewallet.backend/internal/domain/repositories"
	"dinewallet.backend/pkg/logger"
	"dinewallet.backend/pkg/metrics"
	"dinewallet.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceUsecase aggregates settled reservations into restaurant invoices. It
// reads the ledger and never touches wallets.
type InvoiceUsecase struct {
	uow             repositories.UnitOfWork
	restaurantRepo  repositories.RestaurantRepository
	reservationRepo repositories.ReservationRepository
	txnRepo         repositories.TransactionRepository
	invoiceRepo     repositories.InvoiceRepository
	taxMultiplier   decimal.Decimal
	minAgeMonths    int
	now             func() time.Time
}

func NewInvoiceUsecase(
	uow repositories.UnitOfWork,
	restaurantRepo repositories.RestaurantRepository,
	reservationRepo repositories.ReservationRepository,
	txnRepo repositories.TransactionRepository,
	invoiceRepo repositories.InvoiceRepository,
	taxMultiplier decimal.Decimal,
	minAgeMonths int,
) *InvoiceUsecase {
	if !taxMultiplier.IsPositive() {
		taxMultiplier = entities.DefaultTaxMultiplier
	}
	if minAgeMonths < 0 {
		minAgeMonths = 0
	}
	return &InvoiceUsecase{
		uow:             uow,
		restaurantRepo:  restaurantRepo,
		reservationRepo: reservationRepo,
		txnRepo:         txnRepo,
		invoiceRepo:     invoiceRepo,
		taxMultiplier:   taxMultiplier,
		minAgeMonths:    minAgeMonths,
		now:             time.Now,
	}
}

// SetClock replaces the time source.
func (u *InvoiceUsecase) SetClock(now func() time.Time) {
	u.now = now
}

// InvoiceStartDate returns the earliest date the next invoice may start from.
func (u *InvoiceUsecase) InvoiceStartDate(ctx context.Context, restaurantID uuid.UUID) (*entities.InvoiceDates, error) {
	var dates *entities.InvoiceDates
	err := u.uow.Snapshot(ctx, func(ctx context.Context) error {
		restaurant, err := u.restaurantRepo.GetByID(ctx, restaurantID)
		if err != nil {
			return lookupError(err, "restaurant")
		}
		start, notReady, err := u.earliestStart(ctx, restaurant)
		if err != nil {
			return err
		}
		dates = &entities.InvoiceDates{StartDate: start, NotReady: notReady}
		return nil
	})
	return dates, err
}

// InvoiceEndDateOptions lists the month ends selectable as the end of the next
// invoice, from last month back to the month of the earliest start.
func (u *InvoiceUsecase) InvoiceEndDateOptions(ctx context.Context, restaurantID uuid.UUID) (*entities.InvoiceDates, error) {
	dates, err := u.InvoiceStartDate(ctx, restaurantID)
	if err != nil || dates.NotReady != nil {
		return dates, err
	}

	current := monthStart(u.now())
	for m := current.AddDate(0, -1, 0); !m.Before(monthStart(dates.StartDate)); m = m.AddDate(0, -1, 0) {
		dates.EndDates = append(dates.EndDates, monthEnd(m))
	}
	return dates, nil
}

// GetInvoiceSummary computes the invoice for [start, end], end inclusive by day.
func (u *InvoiceUsecase) GetInvoiceSummary(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) (*entities.InvoiceOutcome, error) {
	start, end = dayStart(start), dayStart(end)
	if end.Before(start) {
		return nil, domainerrors.Validation("invoice end date is before its start date")
	}

	var outcome *entities.InvoiceOutcome
	err := u.uow.Snapshot(ctx, func(ctx context.Context) error {
		var err error
		outcome, err = u.summarize(ctx, restaurantID, start, end)
		return err
	})
	return outcome, err
}

// CreateInvoice persists the summary for the period and archives every other
// unpaid invoice of the restaurant.
func (u *InvoiceUsecase) CreateInvoice(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) (*entities.InvoiceOutcome, error) {
	start, end = dayStart(start), dayStart(end)
	if end.Before(start) {
		return nil, domainerrors.Validation("invoice end date is before its start date")
	}

	var outcome *entities.InvoiceOutcome
	var superseded int64
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		// Serializes invoice numbering per restaurant.
		if err := u.restaurantRepo.Lock(ctx, restaurantID); err != nil {
			return lookupError(err, "restaurant")
		}
		var err error
		outcome, err = u.summarize(ctx, restaurantID, start, end)
		if err != nil || !outcome.Ready() {
			return err
		}

		invoice := outcome.Summary.ToInvoice(utils.GenerateUUIDv7(), u.now().UTC())
		if err := u.invoiceRepo.Create(ctx, invoice); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		superseded, err = u.invoiceRepo.ArchiveUnpaidExcept(ctx, restaurantID, invoice.ID)
		if err != nil {
			return fmt.Errorf("archive unpaid invoices: %w", err)
		}
		outcome.Invoice = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Invoice != nil {
		metrics.InvoicesCreated.Inc()
		logger.Info(ctx, "Invoice created",
			zap.String("restaurant_id", restaurantID.String()),
			zap.String("number", outcome.Invoice.Number),
			zap.Int64("total_owed", outcome.Invoice.TotalOwed),
			zap.Int64("superseded", superseded),
		)
	}
	return outcome, nil
}

// MarkInvoicePaid records payment of an active invoice.
func (u *InvoiceUsecase) MarkInvoicePaid(ctx context.Context, invoiceID uuid.UUID) (*entities.Invoice, error) {
	var invoice *entities.Invoice
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		current, err := u.invoiceRepo.GetByID(ctx, invoiceID)
		if err != nil {
			return lookupError(err, "invoice")
		}
		if current.Archived {
			return domainerrors.Conflict("invoice was superseded")
		}
		if current.Paid {
			invoice = current
			return nil
		}
		if err := u.invoiceRepo.MarkPaid(ctx, invoiceID, u.now().UTC()); err != nil {
			return err
		}
		invoice, err = u.invoiceRepo.GetByID(ctx, invoiceID)
		return err
	})
	return invoice, err
}

func (u *InvoiceUsecase) summarize(ctx context.Context, restaurantID uuid.UUID, start, end time.Time) (*entities.InvoiceOutcome, error) {
	restaurant, err := u.restaurantRepo.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, lookupError(err, "restaurant")
	}

	earliest, notReady, err := u.earliestStart(ctx, restaurant)
	if err != nil {
		return nil, err
	}
	if notReady != nil {
		return &entities.InvoiceOutcome{NotReady: notReady}, nil
	}
	if start.Before(earliest) {
		return entities.NotReadyOutcome("invoice cannot start before %s", earliest.Format(time.DateOnly)), nil
	}
	if !end.Before(monthStart(u.now())) {
		return entities.NotReadyOutcome("invoice period must end before the current month"), nil
	}

	reservations, err := u.reservationRepo.ListSettledForInvoice(ctx, restaurant.ID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return entities.NotReadyOutcome("no settled reservations between %s and %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly)), nil
	}

	var billTotal int64
	for _, r := range reservations {
		billTotal += r.BillAmount.Int64
	}

	finalBalance, err := u.finalBalance(ctx, reservations[len(reservations)-1])
	if err != nil {
		return nil, err
	}

	prior, err := u.invoiceRepo.CountActive(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}

	bill := decimal.NewFromInt(billTotal)
	summary := &entities.InvoiceSummary{
		RestaurantID:        restaurant.ID,
		StartDate:           start,
		EndDate:             end,
		BillingAddress:      restaurant.Billing,
		ClientNumber:        entities.ClientNumber(restaurant.AccountNumber),
		InvoiceNumber:       entities.InvoiceNumber(restaurant.AccountNumber, prior),
		BillTotal:           billTotal,
		CommissionRate:      restaurant.CommissionRate,
		FormattedCommission: entities.FormatPercentage(restaurant.CommissionRate),
		PreTaxOwed:          entities.ApplyRate(billTotal, restaurant.CommissionRate),
		TotalOwed:           bill.Mul(restaurant.CommissionRate).Mul(u.taxMultiplier).Round(0).IntPart(),
		FinalBalance:        finalBalance,
		Reservations:        reservations,
	}
	return &entities.InvoiceOutcome{Summary: summary}, nil
}

// finalBalance is the restaurant balance recorded by the settlement of the
// period's last reservation.
func (u *InvoiceUsecase) finalBalance(ctx context.Context, last *entities.Reservation) (int64, error) {
	txn, err := u.txnRepo.GetRestaurantSide(ctx, last.ID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		logger.Warn(ctx, "Reservation has no restaurant-side transaction",
			zap.String("reservation_id", last.ID.String()))
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return txn.FinalBalance, nil
}

// earliestStart applies the start-date policy: the restaurant must be old
// enough, and a new invoice starts the month after the last paid one, or on the
// creation day when nothing has been paid yet.
func (u *InvoiceUsecase) earliestStart(ctx context.Context, restaurant *entities.Restaurant) (time.Time, *entities.InvoiceNotReady, error) {
	now := u.now().UTC()
	created := dayStart(restaurant.CreatedAt)
	if created.AddDate(0, u.minAgeMonths, 0).After(now) {
		return time.Time{}, &entities.InvoiceNotReady{
			Reason: fmt.Sprintf("restaurant must be at least %d month(s) old", u.minAgeMonths),
		}, nil
	}

	start := created
	lastPaid, err := u.invoiceRepo.LastPaid(ctx, restaurant.ID)
	switch {
	case err == nil:
		start = monthStart(lastPaid.EndDate).AddDate(0, 1, 0)
	case !errors.Is(err, domainerrors.ErrNotFound):
		return time.Time{}, nil, err
	}

	if !start.Before(monthStart(now)) {
		return time.Time{}, &entities.InvoiceNotReady{
			Reason: "no complete month to invoice since " + start.Format(time.DateOnly),
		}, nil
	}
	return start, nil, nil
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthEnd(t time.Time) time.Time {
	return monthStart(t).AddDate(0, 1, -1)
}
