package retailers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRupeePrice(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
		hasError bool
	}{
		{
			name:     "rupee glyph with thousands separator and paise",
			text:     "₹1,299.00",
			expected: 1299,
		},
		{
			name:     "Rs. prefix",
			text:     "Rs. 799",
			expected: 799,
		},
		{
			name:     "bare number",
			text:     "549",
			expected: 549,
		},
		{
			name:     "surrounding text",
			text:     "₹2,499 onwards",
			expected: 2499,
		},
		{
			name:     "no digits",
			text:     "Price unavailable",
			hasError: true,
		},
		{
			name:     "empty",
			text:     "",
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := parseRupeePrice(tt.text)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, price)
		})
	}
}

func TestParseDecimalPrice(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
		hasError bool
	}{
		{
			name:     "dollar price",
			text:     "$24.99",
			expected: 24.99,
		},
		{
			name:     "current price with strikethrough text",
			text:     "current price $15.48, was $19.99",
			expected: 15.48,
		},
		{
			name:     "integer only is not a decimal price",
			text:     "$24",
			hasError: true,
		},
		{
			name:     "no digits",
			text:     "out of stock",
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := parseDecimalPrice(tt.text)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, price)
		})
	}
}
