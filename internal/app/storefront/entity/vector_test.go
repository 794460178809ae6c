package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_Value_PgvectorLiteral(t *testing.T) {
	v := Vector{0.5, -1, 0.25}

	value, err := v.Value()

	require.NoError(t, err)
	assert.Equal(t, "[0.5,-1,0.25]", value)
}

func TestVector_Value_EmptyGivesNull(t *testing.T) {
	var v Vector

	value, err := v.Value()

	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestVector_Scan_ParsesLiteral(t *testing.T) {
	var v Vector
	require.NoError(t, v.Scan("[0.5,-1,0.25]"))
	assert.Equal(t, Vector{0.5, -1, 0.25}, v)

	var fromNull Vector
	require.NoError(t, fromNull.Scan(nil))
	assert.Nil(t, fromNull)
}

func TestVector_Scan_InvalidElement(t *testing.T) {
	var v Vector
	err := v.Scan("[0.5,abc]")
	assert.Error(t, err)
}

func TestVector_RoundTrip(t *testing.T) {
	original := Vector{0.123, 4.56, -7.89}
	value, err := original.Value()
	require.NoError(t, err)

	var scanned Vector
	require.NoError(t, scanned.Scan(value.(string)))

	assert.Equal(t, original, scanned)
}
