package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	v := ValidateToken(nil, "C3D4")
	assert.Equal(t, TokenUnregistered, v.Result)
	assert.True(t, v.Accepted())

	reg := &RegisteredToken{TokenID: "A1B2"}
	v = ValidateToken(reg, "A1B2")
	assert.Equal(t, TokenMatched, v.Result)
	assert.True(t, v.Accepted())

	v = ValidateToken(reg, "C3D4")
	assert.Equal(t, TokenMismatched, v.Result)
	assert.False(t, v.Accepted())
	assert.Equal(t, "A1B2", v.Expected)
	assert.Equal(t, "C3D4", v.Got)
}

func TestNormalizeTokenID(t *testing.T) {
	id, err := NormalizeTokenID(" a1:b2-c3 ")
	require.NoError(t, err)
	assert.Equal(t, "A1B2C3", id)

	_, err = NormalizeTokenID("")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = NormalizeTokenID("XYZ")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
