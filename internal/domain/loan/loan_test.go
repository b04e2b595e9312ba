package loan

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradewiser/backend/internal/domain/shared"
)

func newActiveLoan(t *testing.T) *Loan {
	t.Helper()
	l, err := Apply(uuid.New(), uuid.New(), decimal.NewFromInt(100000), decimal.NewFromInt(250000), decimal.NewFromFloat(12.5), 12)
	require.NoError(t, err)
	require.NoError(t, l.Disburse())
	return l
}

func TestApply_WithinMargin(t *testing.T) {
	valuation := decimal.NewFromInt(250000)

	l, err := Apply(uuid.New(), uuid.New(), decimal.NewFromInt(200000), valuation, decimal.NewFromInt(10), 12)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, l.Status)
	assert.True(t, l.Outstanding.Equal(l.Principal))

	_, err = Apply(uuid.New(), uuid.New(), decimal.NewFromInt(200001), valuation, decimal.NewFromInt(10), 12)
	assert.ErrorIs(t, err, shared.ErrLoanLimitExceeded)
}

func TestApply_Invalid(t *testing.T) {
	valuation := decimal.NewFromInt(100000)

	_, err := Apply(uuid.New(), uuid.New(), decimal.Zero, valuation, decimal.NewFromInt(10), 12)
	require.Error(t, err)

	_, err = Apply(uuid.New(), uuid.New(), decimal.NewFromInt(1000), valuation, decimal.NewFromInt(-1), 12)
	require.Error(t, err)

	_, err = Apply(uuid.New(), uuid.New(), decimal.NewFromInt(1000), valuation, decimal.NewFromInt(10), 0)
	require.Error(t, err)
}

func TestMaxPrincipal(t *testing.T) {
	assert.True(t, MaxPrincipal(decimal.NewFromInt(250000)).Equal(decimal.NewFromInt(200000)))
}

func TestLoan_Disburse(t *testing.T) {
	l := newActiveLoan(t)

	assert.Equal(t, StatusActive, l.Status)
	require.NotNil(t, l.DisbursedAt)
	assert.Equal(t, l.DisbursedAt.AddDate(0, 12, 0), l.DueAt())

	err := l.Disburse()
	require.Error(t, err)
}

func TestLoan_Repay_Partial(t *testing.T) {
	l := newActiveLoan(t)

	settled, err := l.Repay(decimal.NewFromInt(40000))
	require.NoError(t, err)
	assert.False(t, settled)
	assert.True(t, l.Outstanding.Equal(decimal.NewFromInt(60000)))
	assert.Equal(t, StatusActive, l.Status)
}

func TestLoan_Repay_Full(t *testing.T) {
	l := newActiveLoan(t)

	settled, err := l.Repay(decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.True(t, settled)
	assert.Equal(t, StatusRepaid, l.Status)

	_, err = l.Repay(decimal.NewFromInt(1))
	require.Error(t, err)
}

func TestLoan_Repay_Overpayment(t *testing.T) {
	l := newActiveLoan(t)

	_, err := l.Repay(decimal.NewFromInt(100001))
	assert.ErrorIs(t, err, shared.ErrOverpayment)

	_, err = l.Repay(decimal.Zero)
	require.Error(t, err)
}

func TestLoan_AccrueInterest(t *testing.T) {
	l := newActiveLoan(t)

	past := time.Now().AddDate(-1, 0, 0)
	l.LastAccrual = &past

	interest := l.AccrueInterest(time.Now())
	assert.False(t, interest.IsZero())

	// roughly one year of 12.5% simple interest on 100000
	assert.True(t, interest.GreaterThan(decimal.NewFromInt(12400)), "got %s", interest)
	assert.True(t, interest.LessThan(decimal.NewFromInt(12600)), "got %s", interest)
	assert.True(t, l.Outstanding.Equal(decimal.NewFromInt(100000).Add(interest)))
}

func TestLoan_AccrueInterest_Inactive(t *testing.T) {
	l, err := Apply(uuid.New(), uuid.New(), decimal.NewFromInt(1000), decimal.NewFromInt(10000), decimal.NewFromInt(10), 6)
	require.NoError(t, err)

	interest := l.AccrueInterest(time.Now())
	assert.True(t, interest.IsZero())
}

func TestLoan_MarkDefaulted(t *testing.T) {
	l := newActiveLoan(t)

	require.NoError(t, l.MarkDefaulted())
	assert.Equal(t, StatusDefaulted, l.Status)

	err := l.MarkDefaulted()
	require.Error(t, err)
}
