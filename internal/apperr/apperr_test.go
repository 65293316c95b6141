package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	base := New(RateLimited, errors.New("429 from provider"))
	wrapped := fmt.Errorf("invoke: %w", base)

	assert.Equal(t, RateLimited, KindOf(wrapped))
	assert.True(t, Is(wrapped, RateLimited))
	assert.False(t, Is(wrapped, Timeout))
}

func TestKindOfForeignErrorIsUnknown(t *testing.T) {
	assert.Equal(t, Unknown, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestStatusHints(t *testing.T) {
	cases := map[Kind]int{
		Unauthenticated:     http.StatusUnauthorized,
		QuotaExceeded:       http.StatusForbidden,
		InvalidInput:        http.StatusBadRequest,
		Timeout:             http.StatusRequestTimeout,
		RateLimited:         http.StatusTooManyRequests,
		ProviderUnavailable: http.StatusServiceUnavailable,
		NetworkUnreachable:  http.StatusServiceUnavailable,
		MissingCredentials:  http.StatusInternalServerError,
		Unknown:             http.StatusInternalServerError,
		Kind("nope"):        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.HTTPStatus(), kind)
	}
}

func TestUserMessageDoesNotLeakCause(t *testing.T) {
	err := New(Unauthorized, errors.New("incorrect API key provided: sk-abc123"))
	assert.NotContains(t, KindOf(err).UserMessage(), "sk-abc123")
	assert.Equal(t, Unknown.UserMessage(), Kind("nope").UserMessage())
}
