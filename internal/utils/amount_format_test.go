package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
	assert.Equal(t, "1500.00", FormatAmount(decimal.NewFromInt(1500)))
	assert.Equal(t, "2999.50", FormatAmount(decimal.RequireFromString("2999.5")))
	assert.Equal(t, "10.13", FormatAmount(decimal.RequireFromString("10.125")))
}
