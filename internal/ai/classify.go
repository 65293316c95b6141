package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Vovarama1992/agro-ai-gateway/internal/apperr"
)

// Classify maps a provider failure onto the taxonomy. Structured signals
// (sentinel errors, context errors, HTTP status, API error codes, net errors)
// are checked first; message text is a last resort and can misclassify.
func Classify(err error) apperr.Kind {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return apperr.MissingCredentials
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Timeout
	case errors.Is(err, context.Canceled):
		return apperr.Canceled
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if kind, ok := fromStatus(apiErr.HTTPStatusCode); ok {
			return kind
		}
		if kind, ok := fromCode(apiErr.Code); ok {
			return kind
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if kind, ok := fromStatus(reqErr.HTTPStatusCode); ok {
			return kind
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return apperr.NetworkUnreachable
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return apperr.Timeout
		}
		return apperr.NetworkUnreachable
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.Timeout
	}

	return fromMessage(err.Error())
}

func fromStatus(status int) (apperr.Kind, bool) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperr.Unauthorized, true
	case status == http.StatusTooManyRequests:
		return apperr.RateLimited, true
	case status == http.StatusRequestTimeout:
		return apperr.Timeout, true
	case status >= 500 && status <= 599:
		return apperr.ProviderUnavailable, true
	default:
		return "", false
	}
}

func fromCode(code any) (apperr.Kind, bool) {
	s, ok := code.(string)
	if !ok {
		return "", false
	}
	switch s {
	case "invalid_api_key", "invalid_authentication":
		return apperr.Unauthorized, true
	case "rate_limit_exceeded", "insufficient_quota":
		return apperr.RateLimited, true
	case "server_error", "service_unavailable":
		return apperr.ProviderUnavailable, true
	default:
		return "", false
	}
}

// fromMessage is the imprecise fallback for errors with no structured signal.
func fromMessage(msg string) apperr.Kind {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "rate limit"):
		return apperr.RateLimited
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return apperr.Timeout
	case strings.Contains(msg, "api key"):
		return apperr.Unauthorized
	case strings.Contains(msg, "no such host"), strings.Contains(msg, "connection refused"), strings.Contains(msg, "network is unreachable"):
		return apperr.NetworkUnreachable
	default:
		return apperr.Unknown
	}
}
