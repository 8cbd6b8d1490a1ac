package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moment categories.
const (
	MomentCategoryMilestone   = "milestone"
	MomentCategoryDaily       = "daily"
	MomentCategoryTravel      = "travel"
	MomentCategoryFamily      = "family"
	MomentCategoryCelebration = "celebration"
	MomentCategoryOther       = "other"
)

// AllowedMomentCategories is the closed set of moment categories.
var AllowedMomentCategories = map[string]struct{}{
	MomentCategoryMilestone:   {},
	MomentCategoryDaily:       {},
	MomentCategoryTravel:      {},
	MomentCategoryFamily:      {},
	MomentCategoryCelebration: {},
	MomentCategoryOther:       {},
}

// Media kinds attachable to a moment.
const (
	MediaTypePhoto = "photo"
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
)

var allowedMediaTypes = map[string]struct{}{
	MediaTypePhoto: {},
	MediaTypeVideo: {},
	MediaTypeAudio: {},
}

// MediaItem references a stored media asset attached to a moment.
type MediaItem struct {
	URL  string `bson:"url" json:"url"`
	Type string `bson:"type" json:"type"`
}

// MomentLocation embeds where a moment happened.
type MomentLocation struct {
	PlaceName   string   `bson:"place_name,omitempty" json:"place_name,omitempty"`
	Coordinates GeoPoint `bson:"coordinates" json:"coordinates"`
}

// Moment is a journal entry recording a life event against a profile.
type Moment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProfileID  primitive.ObjectID `bson:"profile_id" json:"profile_id"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	Category   string             `bson:"category" json:"category"`
	Tags       []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Media      []MediaItem        `bson:"media,omitempty" json:"media,omitempty"`
	Location   *MomentLocation    `bson:"location,omitempty" json:"location,omitempty"`
	HappenedAt time.Time          `bson:"happened_at" json:"happened_at"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// Validate checks required fields, enums and the embedded location.
func (m *Moment) Validate() error {
	if m.Title == "" {
		return fmt.Errorf("title is required")
	}
	if m.ProfileID.IsZero() {
		return fmt.Errorf("profile is required")
	}
	if m.Category == "" {
		m.Category = MomentCategoryOther
	}
	if _, ok := AllowedMomentCategories[m.Category]; !ok {
		return fmt.Errorf("invalid category %q", m.Category)
	}
	for _, item := range m.Media {
		if item.URL == "" {
			return fmt.Errorf("media url is required")
		}
		if _, ok := allowedMediaTypes[item.Type]; !ok {
			return fmt.Errorf("invalid media type %q", item.Type)
		}
	}
	if m.Location != nil {
		if err := m.Location.Coordinates.Validate(); err != nil {
			return err
		}
	}
	return nil
}
