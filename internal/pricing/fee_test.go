package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"ravintola/internal/domain"
)

func TestFeeForDistance(t *testing.T) {
	policy := domain.DefaultFeePolicy()

	cases := []struct {
		name     string
		distance float64
		want     string
	}{
		{"zero distance is free", 0, "0.00"},
		{"negative distance is free", -1, "0.00"},
		{"inside base radius", 1.5, "0.00"},
		{"exactly base radius", 2.0, "0.00"},
		{"past base radius", 5.0, "2.97"},
		{"capped at max", 20.0, "8.99"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FeeForDistance(tc.distance, policy)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestFeeForDistance_CustomPolicy(t *testing.T) {
	policy := domain.FeePolicy{
		BaseKm:   1.0,
		BaseFee:  decimal.NewFromFloat(1.99),
		PerKmFee: decimal.NewFromFloat(0.50),
		MaxFee:   decimal.NewFromFloat(6.00),
	}

	assert.Equal(t, "1.99", FeeForDistance(0.5, policy).StringFixed(2))
	assert.Equal(t, "2.99", FeeForDistance(3.0, policy).StringFixed(2))
	assert.Equal(t, "6.00", FeeForDistance(30.0, policy).StringFixed(2))
}
