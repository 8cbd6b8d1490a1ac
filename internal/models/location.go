package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoPoint is a GeoJSON Point. Coordinates are [longitude, latitude],
// matching what the 2dsphere index expects.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a longitude/latitude pair.
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Validate checks the GeoJSON shape and coordinate ranges.
func (p GeoPoint) Validate() error {
	if p.Type != "Point" {
		return fmt.Errorf("coordinates must be a GeoJSON Point")
	}
	if len(p.Coordinates) != 2 {
		return fmt.Errorf("coordinates must contain [longitude, latitude]")
	}
	lng, lat := p.Coordinates[0], p.Coordinates[1]
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range", lng)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range", lat)
	}
	return nil
}

// Location is a saved place a user can tag moments with.
type Location struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name        string             `bson:"name" json:"name"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Coordinates GeoPoint           `bson:"coordinates" json:"coordinates"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Validate checks required fields and the coordinate ranges.
func (l *Location) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("location name is required")
	}
	return l.Coordinates.Validate()
}
