package bill_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
)

func billWith(flags ...bill.PaymentStatus) *bill.Bill {
	b := &bill.Bill{ID: uuid.New(), Status: bill.StatusIncomplete}
	for i, f := range flags {
		b.Participants = append(b.Participants, bill.Participant{
			ID:            uuid.New(),
			BillID:        b.ID,
			PaymentStatus: f,
			Position:      i,
		})
	}

	return b
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		flags []bill.PaymentStatus
		want  bill.Status
	}{
		{"no participants", nil, bill.StatusIncomplete},
		{"none paid", []bill.PaymentStatus{bill.PaymentUnpaid, bill.PaymentUnpaid}, bill.StatusIncomplete},
		{"some paid", []bill.PaymentStatus{bill.PaymentPaid, bill.PaymentUnpaid}, bill.StatusIncomplete},
		{"all paid", []bill.PaymentStatus{bill.PaymentPaid, bill.PaymentPaid}, bill.StatusComplete},
		{"single paid", []bill.PaymentStatus{bill.PaymentPaid}, bill.StatusComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bill.DeriveStatus(billWith(tt.flags...).Participants))
		})
	}
}

func TestBill_TogglePayment(t *testing.T) {
	b := billWith(bill.PaymentUnpaid, bill.PaymentUnpaid)
	a, c := b.Participants[0].ID, b.Participants[1].ID

	flag, err := b.TogglePayment(a)
	require.NoError(t, err)
	assert.Equal(t, bill.PaymentPaid, flag)
	assert.Equal(t, bill.StatusIncomplete, b.Status)

	flag, err = b.TogglePayment(c)
	require.NoError(t, err)
	assert.Equal(t, bill.PaymentPaid, flag)
	assert.Equal(t, bill.StatusComplete, b.Status)
	assert.Equal(t, 2, b.PaidCount())

	flag, err = b.TogglePayment(a)
	require.NoError(t, err)
	assert.Equal(t, bill.PaymentUnpaid, flag)
	assert.Equal(t, bill.StatusIncomplete, b.Status)
}

func TestBill_TogglePayment_UnknownParticipant(t *testing.T) {
	b := billWith(bill.PaymentUnpaid)

	_, err := b.TogglePayment(uuid.New())
	assert.ErrorIs(t, err, bill.ErrNotFound)
	assert.Equal(t, bill.PaymentUnpaid, b.Participants[0].PaymentStatus)
}

func TestBill_SetPayment(t *testing.T) {
	b := billWith(bill.PaymentUnpaid)
	id := b.Participants[0].ID

	require.NoError(t, b.SetPayment(id, bill.PaymentPaid))
	assert.Equal(t, bill.StatusComplete, b.Status)

	require.NoError(t, b.SetPayment(id, bill.PaymentPaid))
	assert.Equal(t, bill.StatusComplete, b.Status)

	assert.ErrorIs(t, b.SetPayment(id, "MAYBE"), bill.ErrValidation)
	assert.ErrorIs(t, b.SetPayment(uuid.New(), bill.PaymentUnpaid), bill.ErrNotFound)
}

func TestBill_OverrideThenRecompute(t *testing.T) {
	b := billWith(bill.PaymentPaid, bill.PaymentUnpaid)

	require.NoError(t, b.OverrideStatus(bill.StatusPaid))
	assert.Equal(t, bill.StatusPaid, b.Status)

	assert.Equal(t, bill.StatusIncomplete, b.RecomputeStatus())
	assert.Equal(t, bill.StatusIncomplete, b.RecomputeStatus())

	assert.ErrorIs(t, b.OverrideStatus("SETTLED"), bill.ErrValidation)
	assert.Equal(t, bill.StatusIncomplete, b.Status)
}
