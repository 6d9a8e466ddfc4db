package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"24.900 DT", "24.9"},
		{"24.900", "24.9"},
		{"24,900 DT", "24.9"},
		{"  7.000 DT ", "7"},
		{"0.500 DT", "0.5"},
		{"120 DT", "120"},
	}

	for _, tc := range cases {
		got, err := ParsePrice(tc.in)
		require.NoError(t, err, tc.in)
		want, _ := decimal.NewFromString(tc.want)
		assert.True(t, got.Equal(want), "ParsePrice(%q) = %s, want %s", tc.in, got, want)
	}
}

func TestParsePriceRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "DT", "gratuit", "12..5 DT"} {
		_, err := ParsePrice(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestFormatPriceRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("24.9")
	formatted := FormatPrice(d)
	assert.Equal(t, "24.900 DT", formatted)

	back, err := ParsePrice(formatted)
	require.NoError(t, err)
	assert.True(t, back.Equal(d))
}
