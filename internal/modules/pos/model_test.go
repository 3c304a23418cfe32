package pos_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foodiespos/terminal/internal/modules/pos"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name           string
		total          float64
		splits         []pos.PaymentSplit
		wantPaid       float64
		wantRemaining  float64
		wantToGiveBack float64
	}{
		{
			name:          "no splits",
			total:         100,
			wantRemaining: 100,
		},
		{
			name:  "exact payment",
			total: 100,
			splits: []pos.PaymentSplit{
				{Method: pos.PaymentCash, Amount: 100},
			},
			wantPaid: 100,
		},
		{
			name:  "partial payment",
			total: 100,
			splits: []pos.PaymentSplit{
				{Method: pos.PaymentTPE, Amount: 60},
			},
			wantPaid:      60,
			wantRemaining: 40,
		},
		{
			name:  "mixed splits with change",
			total: 100,
			splits: []pos.PaymentSplit{
				{Method: pos.PaymentTPE, Amount: 60},
				{Method: pos.PaymentCash, Amount: 50},
			},
			wantPaid:       110,
			wantToGiveBack: 10,
		},
		{
			name:     "zero total",
			total:    0,
			wantPaid: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pos.Summarize(tt.total, tt.splits)

			require.Equal(t, tt.total, got.Total)
			require.Equal(t, tt.wantPaid, got.Paid)
			require.Equal(t, tt.wantRemaining, got.Remaining)
			require.Equal(t, tt.wantToGiveBack, got.ToGiveBack)
		})
	}
}

func TestOrderTypeValid(t *testing.T) {
	for _, ot := range []pos.OrderType{pos.OrderAtTheTable, pos.OrderInHouse, pos.OrderTakeaway, pos.OrderDelivery} {
		require.True(t, ot.Valid())
	}
	require.False(t, pos.OrderType("DRIVE_THROUGH").Valid())
	require.False(t, pos.OrderType("").Valid())
}

func TestPaymentMethodValid(t *testing.T) {
	require.True(t, pos.PaymentCash.Valid())
	require.True(t, pos.PaymentTPE.Valid())
	require.False(t, pos.PaymentMethod("CHEQUE").Valid())
}
