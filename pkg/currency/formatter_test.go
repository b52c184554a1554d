package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "200.00 USD", Format("200.00", "USD"))
	assert.Equal(t, "200.00 USD", Format("200.00", ""))
	assert.Equal(t, "150.5 EUR", Format(" 150.5 ", "EUR"))
}

func TestParse(t *testing.T) {
	amount, code, err := Parse("150.00 USD")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "USD", code)
}

func TestParse_Malformed(t *testing.T) {
	for _, price := range []string{"", "150.00", "USD 150.00", "abc USD", "1 2 USD"} {
		_, _, err := Parse(price)
		assert.ErrorIs(t, err, ErrMalformedPrice, "price %q", price)
	}
}
