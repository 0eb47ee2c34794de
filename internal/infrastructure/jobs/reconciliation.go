package jobs

import (
	"context"
	"sync"
	"time"

	"dinewallet.backend/internal/domain/entities"
	"dinewallet.backend/pkg/logger"
	"go.uber.org/zap"
)

// Reconciler compares wallet balances against the ledger.
type Reconciler interface {
	Reconcile(ctx context.Context) ([]entities.WalletDiscrepancy, error)
}

// ReconciliationJob periodically checks that every wallet balance equals the
// sum of its active transactions.
type ReconciliationJob struct {
	reconciler Reconciler
	interval   time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewReconciliationJob(reconciler Reconciler, interval time.Duration) *ReconciliationJob {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &ReconciliationJob{
		reconciler: reconciler,
		interval:   interval,
		stop:       make(chan struct{}),
	}
}

// Start blocks until ctx is cancelled or Stop is called.
func (j *ReconciliationJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting wallet reconciliation job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Wallet reconciliation job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Wallet reconciliation job stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *ReconciliationJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *ReconciliationJob) runOnce(ctx context.Context) int {
	found, err := j.reconciler.Reconcile(ctx)
	if err != nil {
		logger.Error(ctx, "Wallet reconciliation failed", zap.Error(err))
		return 0
	}
	if len(found) > 0 {
		logger.Warn(ctx, "Wallet reconciliation found drift", zap.Int("wallets", len(found)))
	}
	return len(found)
}
