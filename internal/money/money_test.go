package money_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    money.Amount
		wantErr bool
	}{
		{in: "100", want: 10000},
		{in: "100.00", want: 10000},
		{in: "33.3", want: 3330},
		{in: "0.01", want: 1},
		{in: "-588.74", want: -58874},
		{in: "100.000", want: 10000},
		{in: "0.001", wantErr: true},
		{in: "12.345", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_TooPrecise(t *testing.T) {
	_, err := money.Parse("1.005")
	assert.ErrorIs(t, err, money.ErrTooPrecise)
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "33.33", money.Cents(3333).String())
	assert.Equal(t, "100.00", money.Cents(10000).String())
	assert.Equal(t, "0.05", money.Cents(5).String())
	assert.Equal(t, "-1.50", money.Cents(-150).String())
}

func TestAmount_JSON(t *testing.T) {
	type payload struct {
		Total  money.Amount  `json:"total"`
		Amount *money.Amount `json:"amount,omitempty"`
	}

	out, err := json.Marshal(payload{Total: money.Cents(10000)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":100.00}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"total":"99.99","amount":0.5}`), &in))
	assert.Equal(t, money.Cents(9999), in.Total)
	require.NotNil(t, in.Amount)
	assert.Equal(t, money.Cents(50), *in.Amount)

	var missing payload
	require.NoError(t, json.Unmarshal([]byte(`{"total":1,"amount":null}`), &missing))
	assert.Nil(t, missing.Amount)

	kept := payload{Total: money.Cents(700)}
	require.NoError(t, json.Unmarshal([]byte(`{"total":null}`), &kept))
	assert.Equal(t, money.Cents(700), kept.Total)

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"total":"100000000000000000000"}`), &in), money.ErrOutOfRange)

	assert.Error(t, json.Unmarshal([]byte(`{"total":1.234}`), &in))
}

func TestParse_Range(t *testing.T) {
	tests := []struct {
		in      string
		want    money.Amount
		wantErr bool
	}{
		{in: "92233720368547758.07", want: math.MaxInt64},
		{in: "-92233720368547758.08", want: math.MinInt64},
		{in: "92233720368547758.08", wantErr: true},
		{in: "-92233720368547758.09", wantErr: true},
		{in: "100000000000000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, money.ErrOutOfRange)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestSum(t *testing.T) {
	sum, err := money.Sum(3333, 3333, 3334)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(10000), sum)

	sum, err = money.Sum()
	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), sum)

	sum, err = money.Sum(math.MaxInt64, -1)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(math.MaxInt64-1), sum)
}

func TestSum_Overflow(t *testing.T) {
	_, err := money.Sum(math.MaxInt64, 1)
	assert.ErrorIs(t, err, money.ErrOutOfRange)

	// Would wrap around to exactly 1.00 in int64 arithmetic.
	_, err = money.Sum(math.MaxInt64, math.MaxInt64, 102)
	assert.ErrorIs(t, err, money.ErrOutOfRange)
}
