package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile types supported by the app.
const (
	ProfileTypeSelf  = "self"
	ProfileTypeChild = "child"
	ProfileTypePet   = "pet"
	ProfileTypeOther = "other"
)

var allowedProfileTypes = map[string]struct{}{
	ProfileTypeSelf:  {},
	ProfileTypeChild: {},
	ProfileTypePet:   {},
	ProfileTypeOther: {},
}

// Profile is a named persona owned by a user. Moments are recorded
// against a profile so one account can journal for a child or a pet.
type Profile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Type      string             `bson:"type" json:"type"`
	Bio       string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	BirthDate time.Time          `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	IsPublic  bool               `bson:"is_public" json:"is_public"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Validate checks required fields and the type enum.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if _, ok := allowedProfileTypes[p.Type]; !ok {
		return fmt.Errorf("invalid profile type %q", p.Type)
	}
	return nil
}
