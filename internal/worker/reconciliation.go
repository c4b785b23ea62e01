package worker

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"paygate/internal/domain"
	"paygate/internal/repo"
	"paygate/internal/service"
	"paygate/internal/gateway/skipcash"
)

// StatusChecker answers what the vendor currently thinks a payment's
// status is. The SkipCash API client implements it.
type StatusChecker interface {
	PaymentStatus(ctx context.Context, paymentID string) (int, error)
}

// ReconciliationWorker sweeps payments stuck in pending whose webhook
// never arrived and resolves them against the vendor's status API. The
// result flows through the same idempotent apply path the webhooks use,
// so the one-way paid policy holds here too.
type ReconciliationWorker struct {
	repo     repo.PaymentRepo
	svc      *service.WebhookService
	checker  StatusChecker
	interval time.Duration
	minAge   time.Duration
	log      *zap.Logger
}

func NewReconciliationWorker(
	paymentRepo repo.PaymentRepo,
	svc *service.WebhookService,
	checker StatusChecker,
	interval time.Duration,
	minAge time.Duration,
	log *zap.Logger,
) *ReconciliationWorker {
	return &ReconciliationWorker{
		repo:     paymentRepo,
		svc:      svc,
		checker:  checker,
		interval: interval,
		minAge:   minAge,
		log:      log,
	}
}

func (rw *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	rw.log.Info("reconciliation worker started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rw.process(ctx); err != nil {
				rw.log.Error("reconciliation sweep failed", zap.Error(err))
			}
		}
	}
}

func (rw *ReconciliationWorker) process(ctx context.Context) error {
	stuck, err := rw.repo.FindStalePending(ctx, rw.minAge, 50)
	if err != nil {
		return err
	}
	if len(stuck) == 0 {
		return nil
	}

	rw.log.Info("found stale pending payments", zap.Int("count", len(stuck)))

	for _, p := range stuck {
		if p.Vendor != skipcash.VendorName || p.VendorPaymentID == "" {
			continue
		}
		code, err := rw.checker.PaymentStatus(ctx, p.VendorPaymentID)
		if err != nil {
			rw.log.Warn("vendor status lookup failed",
				zap.String("reference", p.Reference), zap.Error(err))
			continue // next sweep retries
		}
		status := skipcash.MapStatusCode(code)
		if status == domain.PaymentPending {
			continue // vendor still undecided
		}

		raw, _ := json.Marshal(map[string]any{
			"source":   "reconciliation",
			"statusId": code,
		})
		ev := domain.WebhookEvent{
			Vendor:           skipcash.VendorName,
			Reference:        p.Reference,
			VendorPaymentID:  p.VendorPaymentID,
			VendorStatusCode: strconv.Itoa(code),
			Raw:              raw,
		}
		if _, err := rw.svc.ApplyEvent(ctx, ev, status); err != nil {
			rw.log.Warn("reconciliation apply failed",
				zap.String("reference", p.Reference), zap.Error(err))
			continue
		}
		rw.log.Info("stale payment resolved",
			zap.String("reference", p.Reference),
			zap.String("status", string(status)))
	}
	return nil
}
