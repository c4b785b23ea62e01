package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paygate/internal/domain"
	"paygate/internal/service"
	"paygate/internal/gateway/geidea"
	"paygate/internal/gateway/skipcash"
)

type memRepo struct {
	records map[string]*domain.Payment
}

func (m *memRepo) FindByReference(_ context.Context, ref string) (*domain.Payment, error) {
	p, ok := m.records[ref]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) ApplyStatus(_ context.Context, upd domain.StatusUpdate) (domain.PaymentStatus, error) {
	p, ok := m.records[upd.Reference]
	if !ok {
		p = &domain.Payment{Reference: upd.Reference}
		m.records[upd.Reference] = p
	}
	final := upd.Status
	if domain.IsDowngrade(p.Status, upd.Status) {
		final = p.Status
	}
	p.Status = final
	p.RawPayload = upd.RawPayload
	p.UpdatedAt = time.Now()
	return final, nil
}

func (m *memRepo) FindStalePending(_ context.Context, olderThan time.Duration, limit int) ([]domain.Payment, error) {
	var out []domain.Payment
	cutoff := time.Now().Add(-olderThan)
	for _, p := range m.records {
		if p.Status == domain.PaymentPending && p.UpdatedAt.Before(cutoff) && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeChecker struct {
	statuses map[string]int
	err      error
}

func (f *fakeChecker) PaymentStatus(_ context.Context, paymentID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.statuses[paymentID], nil
}

func newWorker(repo *memRepo, checker StatusChecker) *ReconciliationWorker {
	svc := service.NewWebhookService(
		repo,
		skipcash.NewVerifier("k"),
		geidea.NewVerifier("k"),
		false,
		zap.NewNop(),
	)
	return NewReconciliationWorker(repo, svc, checker, time.Second, time.Minute, zap.NewNop())
}

func stalePending(ref, vendorPaymentID string) *domain.Payment {
	return &domain.Payment{
		Reference:       ref,
		Vendor:          skipcash.VendorName,
		VendorPaymentID: vendorPaymentID,
		Status:          domain.PaymentPending,
		UpdatedAt:       time.Now().Add(-time.Hour),
	}
}

func TestProcessResolvesStalePending(t *testing.T) {
	repo := &memRepo{records: map[string]*domain.Payment{
		"ref1": stalePending("ref1", "p1"),
		"ref2": stalePending("ref2", "p2"),
	}}
	checker := &fakeChecker{statuses: map[string]int{"p1": 2, "p2": 4}}

	require.NoError(t, newWorker(repo, checker).process(context.Background()))

	assert.Equal(t, domain.PaymentPaid, repo.records["ref1"].Status)
	assert.Equal(t, domain.PaymentFailed, repo.records["ref2"].Status)
}

func TestProcessLeavesUndecidedPaymentsAlone(t *testing.T) {
	repo := &memRepo{records: map[string]*domain.Payment{
		"ref1": stalePending("ref1", "p1"),
	}}
	checker := &fakeChecker{statuses: map[string]int{"p1": 1}} // unknown code

	require.NoError(t, newWorker(repo, checker).process(context.Background()))
	assert.Equal(t, domain.PaymentPending, repo.records["ref1"].Status)
}

func TestProcessSkipsOnCheckerError(t *testing.T) {
	repo := &memRepo{records: map[string]*domain.Payment{
		"ref1": stalePending("ref1", "p1"),
	}}
	checker := &fakeChecker{err: errors.New("vendor down")}

	// Lookup errors are per-payment: the sweep continues and the payment
	// stays pending for the next pass.
	require.NoError(t, newWorker(repo, checker).process(context.Background()))
	assert.Equal(t, domain.PaymentPending, repo.records["ref1"].Status)
}

func TestProcessIgnoresPaymentsWithoutVendorID(t *testing.T) {
	p := stalePending("ref1", "")
	repo := &memRepo{records: map[string]*domain.Payment{"ref1": p}}
	checker := &fakeChecker{statuses: map[string]int{}}

	require.NoError(t, newWorker(repo, checker).process(context.Background()))
	assert.Equal(t, domain.PaymentPending, repo.records["ref1"].Status)
}
