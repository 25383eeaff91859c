package clerk

import (
	"github.com/imaginify/imaginify/internal/models"
)

// Event types handled by the webhook endpoint
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// WebhookEvent represents a Clerk webhook event envelope
type WebhookEvent struct {
	Type string   `json:"type"`
	Data UserData `json:"data"`
}

// UserData is the user payload carried by user.* events. Clerk sends null
// for unset profile fields; those decode to zero values here, which is
// exactly the empty-string default the sync flow stores.
type UserData struct {
	ID             string         `json:"id"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	Username       string         `json:"username"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	ImageURL       string         `json:"image_url"`
}

// EmailAddress is a nested object within Clerk user data
type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the first listed address, or "" when Clerk sent none
func (d UserData) PrimaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}

// Fields maps the event payload onto the repository's profile fields
func (d UserData) Fields() models.UserFields {
	return models.UserFields{
		Email:     d.PrimaryEmail(),
		Username:  d.Username,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		PhotoURL:  d.ImageURL,
	}
}
