//go:build unit
// +build unit

package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToInt(t *testing.T) {
	assert.Equal(t, 42, ConvertToInt("42"))
	assert.Equal(t, -3, ConvertToInt("-3"))
	assert.Equal(t, 0, ConvertToInt("not-a-number"))
	assert.Equal(t, 0, ConvertToInt(""))
}

func TestConvertToFloat64(t *testing.T) {
	assert.Equal(t, 1.5, ConvertToFloat64("1.5"))
	assert.Equal(t, 0.0, ConvertToFloat64("x"))
}
