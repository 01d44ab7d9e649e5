package errors

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      bool
	}{
		{ErrorTypeNetwork, true},
		{ErrorTypeRateLimit, true},
		{ErrorTypeStatus, false},
		{ErrorTypeParsing, false},
		{ErrorTypeExtraction, false},
		{ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.errorType))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewStatusError(500, "https://api.github.com/users/octocat")
	assert.Equal(t, "status error (code 500): unexpected status for https://api.github.com/users/octocat", err.Error())

	err = NewExtractionError("repository", "full_name")
	assert.Equal(t, `extraction error: repository is missing required field "full_name"`, err.Error())
}

func TestUnwrapAndTypeOf(t *testing.T) {
	netErr := NewNetworkError(io.ErrUnexpectedEOF)
	wrapped := fmt.Errorf("fetch page: %w", netErr)

	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
	assert.Equal(t, ErrorTypeNetwork, TypeOf(wrapped))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(io.EOF))
}

func TestIsStatus(t *testing.T) {
	err := fmt.Errorf("profile: %w", NewStatusError(404, "users/ghost"))
	assert.True(t, IsStatus(err, 404))
	assert.False(t, IsStatus(err, 500))
	assert.False(t, IsStatus(NewRateLimitError(time.Time{}), 403))
}
