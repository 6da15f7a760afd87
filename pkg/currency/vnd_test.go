package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "300.000đ", Format(300000))
	assert.Equal(t, "720.000đ", Format(720000))
	assert.Equal(t, "1.250.000đ", Format(1250000))
	assert.Equal(t, "0đ", Format(0))
}

func TestFormatRoundsFractions(t *testing.T) {
	// hourly pricing can yield fractional đồng; display rounds
	assert.Equal(t, "270.000đ", Format(270000.4))
	assert.Equal(t, "270.001đ", Format(270000.5))
}
