package token

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[1-9]\d{5}$`)

func TestNewNumericCode_SixDigitRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := NewNumericCode(6)
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}

func TestNewNumericCode_NotConstant(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		code, err := NewNumericCode(6)
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestNewNumericCode_InvalidLength(t *testing.T) {
	_, err := NewNumericCode(0)
	assert.Error(t, err)
	_, err = NewNumericCode(19)
	assert.Error(t, err)
}
