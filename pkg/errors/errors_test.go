package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeOutOfRange, "column index 5 out of range")

	assert.Equal(t, ErrorTypeOutOfRange, err.Type)
	assert.Equal(t, "out_of_range: column index 5 out of range", err.Error())
	assert.NotEmpty(t, err.Stack)
	assert.Nil(t, err.Cause)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeSchemaMismatch, "column count mismatch: %d != %d", 2, 3)

	assert.Equal(t, ErrorTypeSchemaMismatch, err.Type)
	assert.Equal(t, "schema_mismatch: column count mismatch: 2 != 3", err.Error())
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("disk failure")
	err := Wrap(cause, ErrorTypeData, "failed to decode column")

	assert.Equal(t, ErrorTypeData, err.Type)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk failure")

	// Wrapping nil returns nil
	assert.Nil(t, Wrap(nil, ErrorTypeData, "ignored"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeOutOfRange, "no such column")
	outer := Wrap(inner, ErrorTypeValidation, "lookup failed")

	require.NotEmpty(t, outer.Stack)
	assert.Equal(t, inner.Stack[0], outer.Stack[0])
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeSchemaMismatch, "incompatible kinds").
		WithDetail("column", "price").
		WithDetail("want", "float64")

	assert.Equal(t, "price", err.Details["column"])
	assert.Equal(t, "float64", err.Details["want"])
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeOutOfRange, "bad index")

	assert.True(t, IsType(err, ErrorTypeOutOfRange))
	assert.False(t, IsType(err, ErrorTypeSchemaMismatch))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeOutOfRange))

	// Works through wrapping
	wrapped := fmt.Errorf("context: %w", err)
	assert.True(t, IsOutOfRange(wrapped))
	assert.False(t, IsSchemaMismatch(wrapped))
}
