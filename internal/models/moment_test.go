package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGeoPointValidate(t *testing.T) {
	tests := []struct {
		name    string
		point   GeoPoint
		wantErr bool
	}{
		{"valid", NewGeoPoint(76.9286, 43.2567), false},
		{"boundary", NewGeoPoint(-180, 90), false},
		{"longitude too large", NewGeoPoint(181, 0), true},
		{"latitude too small", NewGeoPoint(0, -91), true},
		{"wrong type", GeoPoint{Type: "Polygon", Coordinates: []float64{0, 0}}, true},
		{"missing coordinate", GeoPoint{Type: "Point", Coordinates: []float64{0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.point.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMomentValidate(t *testing.T) {
	m := &Moment{
		ProfileID: primitive.NewObjectID(),
		Title:     "First smile",
		Category:  MomentCategoryMilestone,
	}
	assert.NoError(t, m.Validate())

	// Empty category falls back to "other".
	m.Category = ""
	assert.NoError(t, m.Validate())
	assert.Equal(t, MomentCategoryOther, m.Category)

	m.Category = "gardening"
	assert.Error(t, m.Validate())
}

func TestMomentValidateMedia(t *testing.T) {
	m := &Moment{
		ProfileID: primitive.NewObjectID(),
		Title:     "Beach day",
		Category:  MomentCategoryTravel,
		Media:     []MediaItem{{URL: "https://cdn.example.com/a.jpg", Type: MediaTypePhoto}},
	}
	assert.NoError(t, m.Validate())

	m.Media = append(m.Media, MediaItem{URL: "https://cdn.example.com/b.bin", Type: "document"})
	assert.Error(t, m.Validate())

	m.Media = []MediaItem{{Type: MediaTypePhoto}}
	assert.Error(t, m.Validate(), "media url is required")
}

func TestMomentValidateLocation(t *testing.T) {
	m := &Moment{
		ProfileID: primitive.NewObjectID(),
		Title:     "Park picnic",
		Category:  MomentCategoryFamily,
		Location:  &MomentLocation{PlaceName: "Central Park", Coordinates: NewGeoPoint(-73.9654, 40.7829)},
	}
	assert.NoError(t, m.Validate())

	m.Location.Coordinates = NewGeoPoint(-200, 40)
	assert.Error(t, m.Validate())
}

func TestLocationValidate(t *testing.T) {
	loc := &Location{
		UserID:      primitive.NewObjectID(),
		Name:        "Grandma's house",
		Coordinates: NewGeoPoint(71.4306, 51.1282),
	}
	assert.NoError(t, loc.Validate())

	loc.Name = ""
	assert.Error(t, loc.Validate())
}
