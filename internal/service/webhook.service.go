package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paygate/internal/domain"
	"paygate/internal/metrics"
	"paygate/internal/repo"
	"paygate/internal/gateway/geidea"
	"paygate/internal/gateway/skipcash"
)

// WebhookService runs the verification pipeline for inbound vendor
// webhooks: verify signature, normalize payload, map status, apply the
// idempotent update. A rejected request never touches the store.
type WebhookService struct {
	repo          repo.PaymentRepo
	skipcash      *skipcash.Verifier
	geidea        *geidea.Verifier
	verifyAmounts bool
	metrics       *metrics.Set
	log           *zap.Logger
}

func NewWebhookService(
	paymentRepo repo.PaymentRepo,
	skipcashVerifier *skipcash.Verifier,
	geideaVerifier *geidea.Verifier,
	verifyAmounts bool,
	log *zap.Logger,
) *WebhookService {
	return &WebhookService{
		repo:          paymentRepo,
		skipcash:      skipcashVerifier,
		geidea:        geideaVerifier,
		verifyAmounts: verifyAmounts,
		metrics:       metrics.Default(),
		log:           log,
	}
}

// Result is the acknowledgment returned to the vendor. Ignored marks the
// already-paid case: the delivery succeeded but the stale status was not
// applied.
type Result struct {
	Reference string               `json:"reference"`
	Status    domain.PaymentStatus `json:"status"`
	Ignored   bool                 `json:"ignored"`
}

func (s *WebhookService) HandleSkipCash(ctx context.Context, body []byte, signature string) (Result, error) {
	s.metrics.WebhookReceived(skipcash.VendorName)

	if signature == "" {
		s.metrics.WebhookRejected(skipcash.VendorName, "missing_signature")
		return Result{}, ErrMissingSignature
	}
	p, err := skipcash.ParsePayload(body)
	if err != nil {
		s.metrics.WebhookRejected(skipcash.VendorName, "malformed_payload")
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := s.skipcash.Verify(p, signature); err != nil {
		s.metrics.WebhookRejected(skipcash.VendorName, "invalid_signature")
		s.log.Warn("skipcash signature rejected", zap.Error(err))
		return Result{}, ErrInvalidSignature
	}
	ev, err := skipcash.Normalize(p, body)
	if err != nil {
		s.metrics.WebhookRejected(skipcash.VendorName, "malformed_payload")
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return s.apply(ctx, ev, skipcash.MapStatus(ev.VendorStatusCode))
}

func (s *WebhookService) HandleGeidea(ctx context.Context, body []byte, signature string) (Result, error) {
	s.metrics.WebhookReceived(geidea.VendorName)

	if signature == "" {
		s.metrics.WebhookRejected(geidea.VendorName, "missing_signature")
		return Result{}, ErrMissingSignature
	}
	p, err := geidea.ParsePayload(body)
	if err != nil {
		s.metrics.WebhookRejected(geidea.VendorName, "malformed_payload")
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := s.geidea.Verify(p, signature); err != nil {
		s.metrics.WebhookRejected(geidea.VendorName, "invalid_signature")
		s.log.Warn("geidea signature rejected", zap.Error(err))
		return Result{}, ErrInvalidSignature
	}
	ev, err := geidea.Normalize(p, body)
	if err != nil {
		s.metrics.WebhookRejected(geidea.VendorName, "malformed_payload")
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return s.apply(ctx, ev, geidea.MapStatus(ev.VendorStatusCode))
}

// ApplyEvent applies an already-verified event through the same pipeline
// tail the webhooks use. The reconciliation worker is the other caller.
func (s *WebhookService) ApplyEvent(ctx context.Context, ev domain.WebhookEvent, proposed domain.PaymentStatus) (Result, error) {
	return s.apply(ctx, ev, proposed)
}

func (s *WebhookService) apply(ctx context.Context, ev domain.WebhookEvent, proposed domain.PaymentStatus) (Result, error) {
	upd := domain.StatusUpdate{
		Reference:       ev.Reference,
		Vendor:          ev.Vendor,
		VendorPaymentID: ev.VendorPaymentID,
		Currency:        ev.Currency,
		Status:          proposed,
		RawPayload:      ev.Raw,
	}
	if ev.Amount != "" {
		amt, err := decimal.NewFromString(ev.Amount)
		if err != nil {
			if s.verifyAmounts {
				s.metrics.WebhookRejected(ev.Vendor, "malformed_payload")
				return Result{}, fmt.Errorf("%w: amount %q: %v", ErrMalformedPayload, ev.Amount, err)
			}
			s.log.Warn("unparsable webhook amount",
				zap.String("reference", ev.Reference),
				zap.String("vendor", ev.Vendor),
				zap.String("amount", ev.Amount),
			)
		} else {
			upd.Amount = decimal.NewNullDecimal(amt)
		}
	}

	if s.verifyAmounts && upd.Amount.Valid {
		existing, err := s.repo.FindByReference(ctx, ev.Reference)
		if err != nil {
			return Result{}, err
		}
		if existing != nil && existing.Amount.Valid && !existing.Amount.Decimal.Equal(upd.Amount.Decimal) {
			s.metrics.WebhookRejected(ev.Vendor, "amount_mismatch")
			s.log.Warn("webhook amount mismatch",
				zap.String("reference", ev.Reference),
				zap.String("vendor", ev.Vendor),
				zap.String("expected", existing.Amount.Decimal.String()),
				zap.String("got", upd.Amount.Decimal.String()),
			)
			return Result{}, ErrAmountMismatch
		}
	}

	final, err := s.repo.ApplyStatus(ctx, upd)
	if err != nil {
		return Result{}, err
	}

	ignored := final != proposed && domain.IsDowngrade(final, proposed)
	if ignored {
		s.metrics.DowngradeBlocked(ev.Vendor)
		s.log.Info("stale status ignored on paid record",
			zap.String("reference", ev.Reference),
			zap.String("vendor", ev.Vendor),
			zap.String("proposed", string(proposed)),
		)
	} else {
		s.metrics.StatusApplied(string(final))
		s.log.Info("payment status applied",
			zap.String("reference", ev.Reference),
			zap.String("vendor", ev.Vendor),
			zap.String("status", string(final)),
		)
	}

	return Result{Reference: ev.Reference, Status: final, Ignored: ignored}, nil
}
