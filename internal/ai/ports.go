package ai

import "context"

// Provider is the external text generator. It knows nothing about kinds,
// quotas or storage.
type Provider interface {
	Complete(ctx context.Context, system string, user string) (string, error)
	// CompleteWithImage sends imageRef (https URL or data URI) alongside user.
	CompleteWithImage(ctx context.Context, system string, user string, imageRef string) (string, error)
}

// Request is one composed generation call.
type Request struct {
	System   string
	User     string
	ImageRef string
}
