package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/firstmoments/first-moments-api/internal/models"
	"github.com/firstmoments/first-moments-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TemplateRepository handles database operations for achievement templates.
type TemplateRepository struct {
	collection *mongo.Collection
}

// NewTemplateRepository creates a new instance of TemplateRepository.
func NewTemplateRepository(db *mongo.Database) *TemplateRepository {
	return &TemplateRepository{
		collection: db.Collection("achievement_templates"),
	}
}

// CreateTemplate inserts a new achievement template.
func (r *TemplateRepository) CreateTemplate(ctx context.Context, tmpl *models.AchievementTemplate) (*models.AchievementTemplate, error) {
	tmpl.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, tmpl)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert achievement template")
		return nil, fmt.Errorf("failed to insert template: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	tmpl.ID = insertedID

	logger.Log.WithField("template_id", tmpl.ID.Hex()).Info("Achievement template created")
	return tmpl, nil
}

// GetTemplateByID fetches a template by its ID.
func (r *TemplateRepository) GetTemplateByID(ctx context.Context, id primitive.ObjectID) (*models.AchievementTemplate, error) {
	var tmpl models.AchievementTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to find template by id: %v", err)
	}
	return &tmpl, nil
}

// GetTemplates returns all templates, optionally filtered by category.
func (r *TemplateRepository) GetTemplates(ctx context.Context, category string) ([]models.AchievementTemplate, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "points", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch templates: %v", err)
	}
	defer cursor.Close(ctx)

	var templates []models.AchievementTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %v", err)
	}
	return templates, nil
}

// GetTemplatesByCondition returns templates with the given condition type.
func (r *TemplateRepository) GetTemplatesByCondition(ctx context.Context, conditionType string) ([]models.AchievementTemplate, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"condition_type": conditionType})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch templates by condition: %v", err)
	}
	defer cursor.Close(ctx)

	var templates []models.AchievementTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %v", err)
	}
	return templates, nil
}

// UpdateTemplate applies a partial update to a template document.
func (r *TemplateRepository) UpdateTemplate(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.AchievementTemplate, error) {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		logger.Log.WithError(err).WithField("template_id", id.Hex()).Error("Failed to update template")
		return nil, fmt.Errorf("failed to update template: %v", err)
	}
	return r.GetTemplateByID(ctx, id)
}

// DeleteTemplate deletes a template by its ID.
func (r *TemplateRepository) DeleteTemplate(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("template_id", id.Hex()).Error("Failed to delete template")
		return fmt.Errorf("failed to delete template: %v", err)
	}
	return nil
}
