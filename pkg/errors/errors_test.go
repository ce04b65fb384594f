package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeConfig, "no dictionary source supplied")

	assert.Equal(t, ErrorTypeConfig, err.Type)
	assert.Equal(t, "config: no dictionary source supplied", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrorTypeFetch, "failed to fetch data dictionary")

	assert.Equal(t, "fetch: failed to fetch data dictionary: connection refused", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeFetch, "ignored"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeDecode, "bad byte")
	outer := Wrap(fmt.Errorf("outer: %w", inner), ErrorTypeData, "processing failed")

	assert.Equal(t, inner.Stack, outer.Stack)
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeFetch, "status 404")

	assert.True(t, IsType(err, ErrorTypeFetch))
	assert.False(t, IsType(err, ErrorTypeConfig))
	assert.False(t, IsType(stderrors.New("plain"), ErrorTypeFetch))

	wrapped := fmt.Errorf("context: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeFetch))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeFetch, "status 404").
		WithDetail("status", 404).
		WithDetail("url", "https://example.com")

	require.NotNil(t, err.Details)
	assert.Equal(t, 404, err.Details["status"])
	assert.Equal(t, "https://example.com", err.Details["url"])
}
