package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	"github.com/Vovarama1992/agro-ai-gateway/internal/apperr"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"missing key", ErrMissingCredentials, apperr.MissingCredentials},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), apperr.Timeout},
		{"canceled", context.Canceled, apperr.Canceled},
		{"api 429", &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}, apperr.RateLimited},
		{"api 401", &openai.APIError{HTTPStatusCode: 401, Message: "Incorrect API key"}, apperr.Unauthorized},
		{"api 503", &openai.APIError{HTTPStatusCode: 503}, apperr.ProviderUnavailable},
		{"api 502", &openai.APIError{HTTPStatusCode: 502}, apperr.ProviderUnavailable},
		{"api code only", &openai.APIError{Code: "insufficient_quota"}, apperr.RateLimited},
		{"api 400", &openai.APIError{HTTPStatusCode: 400, Message: "bad request"}, apperr.Unknown},
		{"request 500", &openai.RequestError{HTTPStatusCode: 500, Err: errors.New("bad gateway html")}, apperr.ProviderUnavailable},
		{"dns", &url.Error{Op: "Post", URL: "https://api.openai.com", Err: &net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host", Name: "api.openai.com"}}}, apperr.NetworkUnreachable},
		{"connect refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, apperr.NetworkUnreachable},
		{"message fallback rate", errors.New("Rate limit reached for gpt-4o"), apperr.RateLimited},
		{"message fallback timeout", errors.New("upstream timed out"), apperr.Timeout},
		{"unclassified", errors.New("something odd"), apperr.Unknown},
		{"empty response", ErrEmptyResponse, apperr.Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
	assert.Equal(t, apperr.Kind(""), Classify(nil))
}

func TestClassifyPrefersStatusOverMessage(t *testing.T) {
	// the message mentions a timeout, the status says throttling
	err := &openai.APIError{HTTPStatusCode: 429, Message: "timeout waiting for capacity"}
	assert.Equal(t, apperr.RateLimited, Classify(err))
}
