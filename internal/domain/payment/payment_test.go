package payment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Valid(t *testing.T) {
	p, err := New(uuid.New(), KindStorageFee, MethodUPI, uuid.New(), decimal.NewFromInt(500))

	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status)
	assert.Nil(t, p.CompletedAt)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(uuid.New(), Kind("bribe"), MethodUPI, uuid.New(), decimal.NewFromInt(1))
	require.Error(t, err)

	_, err = New(uuid.New(), KindStorageFee, Method("cash"), uuid.New(), decimal.NewFromInt(1))
	require.Error(t, err)

	_, err = New(uuid.New(), KindStorageFee, MethodUPI, uuid.New(), decimal.Zero)
	require.Error(t, err)

	_, err = New(uuid.New(), KindStorageFee, MethodUPI, uuid.Nil, decimal.NewFromInt(1))
	require.Error(t, err)
}

func TestPayment_Complete(t *testing.T) {
	p, err := New(uuid.New(), KindLoanRepayment, MethodBankTransfer, uuid.New(), decimal.NewFromInt(1000))
	require.NoError(t, err)

	require.NoError(t, p.Complete("UTR123456"))
	assert.Equal(t, StatusCompleted, p.Status)
	assert.NotNil(t, p.CompletedAt)
	require.Len(t, p.GetDomainEvents(), 1)
	assert.Equal(t, EventCompleted, p.GetDomainEvents()[0].EventType())

	err = p.Complete("again")
	require.Error(t, err)
}

func TestPayment_Fail(t *testing.T) {
	p, err := New(uuid.New(), KindWithdrawalFee, MethodWallet, uuid.New(), decimal.NewFromInt(50))
	require.NoError(t, err)

	require.NoError(t, p.Fail("gateway timeout"))
	assert.Equal(t, StatusFailed, p.Status)

	err = p.Complete("late")
	require.Error(t, err)
}
