package receipt

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradewiser/backend/internal/domain/shared"
)

func newTestReceipt(t *testing.T) *WarehouseReceipt {
	t.Helper()
	r, err := Issue(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromFloat(12.5), decimal.NewFromInt(250000))
	require.NoError(t, err)
	return r
}

func TestIssue(t *testing.T) {
	r := newTestReceipt(t)

	assert.Regexp(t, regexp.MustCompile(`^eWR-\d{8}-[0-9A-F]{6}$`), r.Number)
	assert.Len(t, r.VerificationCode, 32)
	assert.Equal(t, StatusActive, r.Status)
	assert.Equal(t, "/receipts/verify/"+r.VerificationCode, r.VerificationURL())

	wantExpiry := r.IssuedAt.AddDate(0, ValidityMonths, 0)
	assert.WithinDuration(t, wantExpiry, r.ExpiresAt, time.Second)

	require.Len(t, r.GetDomainEvents(), 1)
	assert.Equal(t, EventIssued, r.GetDomainEvents()[0].EventType())
}

func TestIssue_CodesUnique(t *testing.T) {
	a := newTestReceipt(t)
	b := newTestReceipt(t)
	assert.NotEqual(t, a.VerificationCode, b.VerificationCode)
}

func TestReceipt_CollateralizeAndRelease(t *testing.T) {
	r := newTestReceipt(t)

	require.NoError(t, r.Collateralize())
	assert.Equal(t, StatusCollateralized, r.Status)

	err := r.Collateralize()
	assert.ErrorIs(t, err, shared.ErrReceiptCollateralized)

	err = r.TransferTo(uuid.New())
	assert.ErrorIs(t, err, shared.ErrReceiptNotActive)

	require.NoError(t, r.ReleaseCollateral())
	assert.Equal(t, StatusActive, r.Status)
}

func TestReceipt_TransferTo(t *testing.T) {
	r := newTestReceipt(t)

	err := r.TransferTo(r.OwnerID)
	require.Error(t, err)

	newOwner := uuid.New()
	require.NoError(t, r.TransferTo(newOwner))
	assert.Equal(t, newOwner, r.OwnerID)
}

func TestReceipt_WithdrawalLifecycle(t *testing.T) {
	r := newTestReceipt(t)

	err := r.CompleteWithdrawal()
	require.Error(t, err)

	require.NoError(t, r.BeginWithdrawal())
	assert.Equal(t, StatusInTransfer, r.Status)

	err = r.Collateralize()
	assert.ErrorIs(t, err, shared.ErrReceiptNotActive)

	require.NoError(t, r.CompleteWithdrawal())
	assert.Equal(t, StatusWithdrawn, r.Status)
}

func TestReceipt_MarkExpired(t *testing.T) {
	r := newTestReceipt(t)

	err := r.MarkExpired()
	require.Error(t, err, "receipt within validity cannot expire")

	r.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, r.MarkExpired())
	assert.Equal(t, StatusExpired, r.Status)
	assert.False(t, r.IsActive())
}

func TestReceipt_ExpiredCannotCollateralize(t *testing.T) {
	r := newTestReceipt(t)
	r.ExpiresAt = time.Now().Add(-time.Hour)

	err := r.Collateralize()
	assert.ErrorIs(t, err, shared.ErrReceiptNotActive)
}

func TestReceipt_AddAttachment(t *testing.T) {
	r := newTestReceipt(t)

	a, err := r.AddAttachment("assay.pdf", "receipts/"+r.ID.String()+"/assay.pdf", "application/pdf", 2048, r.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, a.ReceiptID)
	assert.Len(t, r.Attachments, 1)

	_, err = r.AddAttachment("", "", "", 0, r.OwnerID)
	require.Error(t, err)
}
