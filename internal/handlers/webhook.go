package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/imaginify/imaginify/internal/clerk"
	"github.com/imaginify/imaginify/internal/database"
	"github.com/imaginify/imaginify/internal/models"
)

// Connector reports database readiness before any event is processed
type Connector interface {
	Connect(ctx context.Context) (*mongo.Database, error)
}

// WebhookHandler processes signed Clerk user-lifecycle events and keeps the
// local users collection in sync. Each invocation is a single linear pass:
// secret check, database readiness, header extraction, signature
// verification, then dispatch by event type.
type WebhookHandler struct {
	secret   string
	db       Connector
	users    database.UserStore
	verifier clerk.Verifier
	metadata clerk.MetadataUpdater
	logger   *zap.Logger
}

// NewWebhookHandler creates a new webhook handler. metadata may be nil when
// no Clerk secret key is configured; metadata sync is then skipped.
func NewWebhookHandler(secret string, db Connector, users database.UserStore, verifier clerk.Verifier, metadata clerk.MetadataUpdater, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		secret:   secret,
		db:       db,
		users:    users,
		verifier: verifier,
		metadata: metadata,
		logger:   logger,
	}
}

// RegisterRoutes registers the webhook route on the given router
func (h *WebhookHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/webhooks/clerk", h.HandleClerkWebhook).Methods("POST")
}

// webhookResponse is the success body: the outcome and the affected record
type webhookResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// HandleClerkWebhook handles a single webhook delivery. Terminal outcomes
// are exactly 200 (synced), 400 (malformed, unverified, or unhandled type)
// and 500 (configuration, connection, or repository failure). Retries are
// Clerk's concern; this handler never retries anything itself.
func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.secret == "" || h.verifier == nil {
		h.logger.Error("webhook_secret_not_configured")
		http.Error(w, "webhook secret not configured", http.StatusInternalServerError)
		return
	}

	if _, err := h.db.Connect(ctx); err != nil {
		h.logger.Error("webhook_database_unavailable", zap.Error(err))
		http.Error(w, "error connecting to database", http.StatusInternalServerError)
		return
	}

	// All three signature headers must be present before verification is
	// even attempted
	if r.Header.Get(clerk.HeaderSvixID) == "" ||
		r.Header.Get(clerk.HeaderSvixTimestamp) == "" ||
		r.Header.Get(clerk.HeaderSvixSignature) == "" {
		h.logger.Warn("webhook_missing_signature_headers")
		http.Error(w, "missing svix headers", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "could not read request body", http.StatusBadRequest)
		return
	}

	// Sole authenticity gate: nothing in the payload is trusted before this
	if err := h.verifier.Verify(body, r.Header); err != nil {
		h.logger.Warn("webhook_verification_failed", zap.Error(err))
		http.Error(w, "webhook verification failed", http.StatusBadRequest)
		return
	}

	var evt clerk.WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		h.logger.Warn("webhook_payload_invalid", zap.Error(err))
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	if evt.Data.ID == "" {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}

	switch evt.Type {
	case clerk.EventUserCreated:
		h.handleUserCreated(ctx, w, evt)
	case clerk.EventUserUpdated:
		h.handleUserUpdated(ctx, w, evt)
	case clerk.EventUserDeleted:
		h.handleUserDeleted(ctx, w, evt)
	default:
		h.logger.Info("webhook_event_type_not_handled", zap.String("event_type", evt.Type))
		http.Error(w, "event type not handled", http.StatusBadRequest)
	}
}

func (h *WebhookHandler) handleUserCreated(ctx context.Context, w http.ResponseWriter, evt clerk.WebhookEvent) {
	fields := evt.Data.Fields()
	user := &models.User{
		ClerkID:   evt.Data.ID,
		Email:     fields.Email,
		Username:  fields.Username,
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
		PhotoURL:  fields.PhotoURL,
	}

	created, err := h.users.Create(ctx, user)
	if err != nil {
		h.respondRepositoryError(w, "create", evt.Data.ID, err)
		return
	}

	// Best-effort: a failed metadata write never rolls back the local record
	if h.metadata == nil {
		h.logger.Warn("metadata_sync_skipped_no_clerk_key", zap.String("clerk_id", created.ClerkID))
	} else if err := h.metadata.AttachInternalID(ctx, created.ClerkID, created.InternalID.Hex()); err != nil {
		h.logger.Warn("metadata_sync_failed",
			zap.String("clerk_id", created.ClerkID),
			zap.Error(err),
		)
	}

	h.logger.Info("user_created", zap.String("clerk_id", created.ClerkID))
	respondJSON(w, http.StatusOK, webhookResponse{Message: "User created", User: created})
}

func (h *WebhookHandler) handleUserUpdated(ctx context.Context, w http.ResponseWriter, evt clerk.WebhookEvent) {
	updated, err := h.users.Update(ctx, evt.Data.ID, evt.Data.Fields())
	if err != nil {
		h.respondRepositoryError(w, "update", evt.Data.ID, err)
		return
	}

	h.logger.Info("user_updated", zap.String("clerk_id", updated.ClerkID))
	respondJSON(w, http.StatusOK, webhookResponse{Message: "User updated", User: updated})
}

func (h *WebhookHandler) handleUserDeleted(ctx context.Context, w http.ResponseWriter, evt clerk.WebhookEvent) {
	deleted, err := h.users.Delete(ctx, evt.Data.ID)
	if err != nil {
		h.respondRepositoryError(w, "delete", evt.Data.ID, err)
		return
	}

	h.logger.Info("user_deleted", zap.String("clerk_id", deleted.ClerkID))
	respondJSON(w, http.StatusOK, webhookResponse{Message: "User deleted", User: deleted})
}

// respondRepositoryError maps repository failures to responses. Connection
// and configuration failures get their own message; everything else
// (not-found, duplicates, driver errors) collapses to a generic 500, which
// also means replaying an already-processed deletion yields 500.
func (h *WebhookHandler) respondRepositoryError(w http.ResponseWriter, op, clerkID string, err error) {
	if errors.Is(err, database.ErrUnavailable) || errors.Is(err, database.ErrNotConfigured) {
		h.logger.Error("webhook_database_unavailable",
			zap.String("operation", op),
			zap.String("clerk_id", clerkID),
			zap.Error(err),
		)
		http.Error(w, "error connecting to database", http.StatusInternalServerError)
		return
	}

	h.logger.Error("webhook_event_failed",
		zap.String("operation", op),
		zap.String("clerk_id", clerkID),
		zap.Error(err),
	)
	http.Error(w, "error handling event", http.StatusInternalServerError)
}
