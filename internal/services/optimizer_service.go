package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"promptforge/internal/database"
	"promptforge/internal/models"
)

// optimizer reads dominate the generation path, so a short TTL cache sits
// in front of Mongo. Writes invalidate eagerly.
const (
	optimizerCacheTTL     = 5 * time.Minute
	optimizerCacheCleanup = 10 * time.Minute
)

// OptimizerService handles optimizer CRUD against MongoDB
type OptimizerService struct {
	collection *mongo.Collection
	cache      *gocache.Cache
}

// NewOptimizerService creates a new optimizer service
func NewOptimizerService(db *database.MongoDB) *OptimizerService {
	return &OptimizerService{
		collection: db.Collection(database.CollectionOptimizers),
		cache:      gocache.New(optimizerCacheTTL, optimizerCacheCleanup),
	}
}

// GetByID returns a single optimizer, served from cache when fresh
func (s *OptimizerService) GetByID(ctx context.Context, id string) (*models.Optimizer, error) {
	if cached, found := s.cache.Get(id); found {
		if optimizer, ok := cached.(*models.Optimizer); ok {
			return optimizer, nil
		}
	}

	var optimizer models.Optimizer
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&optimizer)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("optimizer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get optimizer: %w", err)
	}

	s.cache.Set(id, &optimizer, gocache.DefaultExpiration)
	return &optimizer, nil
}

// List returns optimizers sorted by name. When publishedOnly is set, draft
// profiles are filtered out (member view); admins see everything.
func (s *OptimizerService) List(ctx context.Context, publishedOnly bool) ([]models.Optimizer, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["status"] = models.OptimizerStatusPublished
	}

	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list optimizers: %w", err)
	}
	defer cursor.Close(ctx)

	var optimizers []models.Optimizer
	if err := cursor.All(ctx, &optimizers); err != nil {
		return nil, fmt.Errorf("failed to decode optimizers: %w", err)
	}

	return optimizers, nil
}

// Create inserts a new optimizer with creator metadata
func (s *OptimizerService) Create(ctx context.Context, req models.CreateOptimizerRequest, creatorID, creatorName, creatorEmail string) (*models.Optimizer, error) {
	now := time.Now().UTC()

	status := req.Status
	if status == "" {
		status = models.OptimizerStatusDraft
	}

	optimizer := models.Optimizer{
		ID:             uuid.New().String(),
		InternalName:   req.InternalName,
		Name:           req.Name,
		Description:    req.Description,
		Language:       req.Language,
		Status:         status,
		Category:       req.Category,
		Organization:   req.Organization,
		Model:          req.Model,
		SystemPrompt:   req.SystemPrompt,
		Knowledge:      req.Knowledge,
		Generation:     req.Generation,
		GuidedInputs:   req.GuidedInputs,
		CreatedBy:      creatorID,
		CreatedByName:  creatorName,
		CreatedByEmail: creatorEmail,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := s.collection.InsertOne(ctx, optimizer); err != nil {
		return nil, fmt.Errorf("failed to create optimizer: %w", err)
	}

	log.Printf("✅ Created optimizer %s (%s)", optimizer.Name, optimizer.ID)
	return &optimizer, nil
}

// Update replaces an optimizer's mutable fields and bumps updatedAt
func (s *OptimizerService) Update(ctx context.Context, id string, req models.CreateOptimizerRequest) (*models.Optimizer, error) {
	update := bson.M{"$set": bson.M{
		"internalName":     req.InternalName,
		"name":             req.Name,
		"description":      req.Description,
		"language":         req.Language,
		"status":           req.Status,
		"category":         req.Category,
		"organization":     req.Organization,
		"model":            req.Model,
		"systemPrompt":     req.SystemPrompt,
		"knowledgeBase":    req.Knowledge,
		"generationParams": req.Generation,
		"guidedInputs":     req.GuidedInputs,
		"updatedAt":        time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var optimizer models.Optimizer
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&optimizer)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("optimizer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update optimizer: %w", err)
	}

	s.cache.Delete(id)
	return &optimizer, nil
}

// Delete removes an optimizer
func (s *OptimizerService) Delete(ctx context.Context, id string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete optimizer: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("optimizer not found")
	}

	s.cache.Delete(id)
	return nil
}
