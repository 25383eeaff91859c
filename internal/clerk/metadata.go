package clerk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	clerksdk "github.com/clerk/clerk-sdk-go/v2"
	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"
)

// ErrMetadataSync marks a failed best-effort metadata write. Callers log it
// and keep the local outcome; the Clerk-side copy is not authoritative.
var ErrMetadataSync = errors.New("clerk metadata sync failed")

// metadataTimeout bounds the Clerk Backend API call
const metadataTimeout = 10 * time.Second

// MetadataUpdater attaches the internal user id to the Clerk-hosted user
// record so both systems can resolve the join in either direction.
type MetadataUpdater interface {
	AttachInternalID(ctx context.Context, clerkID, internalID string) error
}

// APIMetadataUpdater writes public metadata through the Clerk Backend API
type APIMetadataUpdater struct {
	client *clerkuser.Client
}

// NewAPIMetadataUpdater creates an updater authenticated with the given
// Clerk secret key
func NewAPIMetadataUpdater(secretKey string) *APIMetadataUpdater {
	config := &clerksdk.ClientConfig{}
	config.Key = clerksdk.String(secretKey)
	config.HTTPClient = &http.Client{Timeout: metadataTimeout}
	return &APIMetadataUpdater{client: clerkuser.NewClient(config)}
}

// AttachInternalID stores internalID as public metadata on the Clerk user
func (u *APIMetadataUpdater) AttachInternalID(ctx context.Context, clerkID, internalID string) error {
	meta, err := json.Marshal(map[string]string{"userId": internalID})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataSync, err)
	}

	raw := json.RawMessage(meta)
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	if _, err := u.client.UpdateMetadata(ctx, clerkID, &clerkuser.UpdateMetadataParams{
		PublicMetadata: &raw,
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataSync, err)
	}
	return nil
}

var _ MetadataUpdater = (*APIMetadataUpdater)(nil)
