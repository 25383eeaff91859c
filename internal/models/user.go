package models

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is a local copy of a Clerk-managed user. ClerkID is the join key
// between the two systems; every webhook mutation is keyed by it.
type User struct {
	InternalID bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkID    string        `bson:"clerk_id" json:"clerkId"`
	Email      string        `bson:"email" json:"email"`
	Username   string        `bson:"username" json:"username"`
	FirstName  string        `bson:"first_name" json:"firstName"`
	LastName   string        `bson:"last_name" json:"lastName"`
	PhotoURL   string        `bson:"photo_url" json:"photoUrl"`
}

// UserFields holds the mutable profile fields carried on webhook events.
// Updates overwrite all of these at once; a field absent upstream arrives
// here as the empty string and resets the stored value.
type UserFields struct {
	Email     string `bson:"email"`
	Username  string `bson:"username"`
	FirstName string `bson:"first_name"`
	LastName  string `bson:"last_name"`
	PhotoURL  string `bson:"photo_url"`
}
