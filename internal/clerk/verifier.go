package clerk

import (
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

// Signature headers Clerk attaches to every webhook delivery
const (
	HeaderSvixID        = "svix-id"
	HeaderSvixTimestamp = "svix-timestamp"
	HeaderSvixSignature = "svix-signature"
)

// Verifier checks that a webhook payload was signed by Clerk. The payload
// must not be trusted before Verify returns nil.
type Verifier interface {
	Verify(payload []byte, headers http.Header) error
}

// SvixVerifier verifies payloads against Clerk's Svix signing scheme
type SvixVerifier struct {
	wh *svix.Webhook
}

// NewSvixVerifier creates a verifier for the given shared secret
func NewSvixVerifier(secret string) (*SvixVerifier, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, err
	}
	return &SvixVerifier{wh: wh}, nil
}

// Verify checks the signature headers against the raw request body
func (v *SvixVerifier) Verify(payload []byte, headers http.Header) error {
	return v.wh.Verify(payload, headers)
}

var _ Verifier = (*SvixVerifier)(nil)
