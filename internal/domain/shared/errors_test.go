package shared

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := NewDomainError("INVALID_INPUT", "country name is required")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrNotFound)

	wrapped := fmt.Errorf("building source: %w", err)
	assert.ErrorIs(t, wrapped, ErrInvalidInput)
	assert.Equal(t, "country name is required", err.Error())
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "domain error", err: ErrUnavailable, want: "UNAVAILABLE"},
		{name: "wrapped domain error", err: fmt.Errorf("query: %w", ErrNotFound), want: "NOT_FOUND"},
		{name: "plain error", err: fmt.Errorf("boom"), want: ""},
		{name: "nil", err: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}
