package shared

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrorMessages(t *testing.T) {
	cases := []struct {
		err  *FieldError
		want string
	}{
		{&FieldError{Field: "name", Tag: "required"}, "Missing field: name"},
		{&FieldError{Field: "count", Tag: "gte", Param: "0"}, "Invalid field: count must be >= 0"},
		{&FieldError{Field: "status", Tag: "oneof", Param: "0 1"}, "Invalid field: status must be one of [0 1]"},
		{&FieldError{Field: "email", Tag: "email"}, "Invalid field: email"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Error())
		assert.True(t, errors.Is(tc.err, ErrValidation))
	}
}

func TestStoreFailureKeepsDomainKinds(t *testing.T) {
	assert.Nil(t, StoreFailure("op", nil))
	assert.Same(t, ErrNotFound, StoreFailure("op", ErrNotFound))

	wrapped := StoreFailure("insert line", errors.New("connection reset"))
	var storeErr *StoreError
	require.True(t, errors.As(wrapped, &storeErr))
	assert.Equal(t, "insert line: connection reset", wrapped.Error())
	assert.Same(t, wrapped, StoreFailure("outer", wrapped))
}

func TestLineTotal(t *testing.T) {
	assert.True(t, decimal.RequireFromString("31.50").Equal(LineTotal(3, decimal.RequireFromString("10.50"))))
	assert.True(t, LineTotal(0, decimal.RequireFromString("9.99")).IsZero())

	raw, err := json.Marshal(LineTotal(2, decimal.RequireFromString("1.25")))
	require.NoError(t, err)
	assert.Equal(t, "2.5", string(raw))
}
