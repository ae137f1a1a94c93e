package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"promptforge/internal/database"
	"promptforge/internal/models"
)

// ChatHistoryService persists chat messages per (user, optimizer) so a
// conversation survives page reloads. The generation pipeline itself stays
// stateless; callers append turns after each exchange.
type ChatHistoryService struct {
	collection *mongo.Collection
}

// NewChatHistoryService creates a new chat history service
func NewChatHistoryService(db *database.MongoDB) *ChatHistoryService {
	return &ChatHistoryService{
		collection: db.Collection(database.CollectionChatMessages),
	}
}

// Append stores one message at the end of a conversation
func (s *ChatHistoryService) Append(ctx context.Context, userID, optimizerID, role, content string) error {
	message := models.StoredMessage{
		ID:          uuid.New().String(),
		UserID:      userID,
		OptimizerID: optimizerID,
		Role:        role,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := s.collection.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

// List returns a conversation oldest-to-newest
func (s *ChatHistoryService) List(ctx context.Context, userID, optimizerID string) ([]models.StoredMessage, error) {
	filter := bson.M{"userId": userID, "optimizerId": optimizerID}
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.StoredMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode chat messages: %w", err)
	}
	return messages, nil
}

// Clear deletes a conversation and returns how many messages were removed
func (s *ChatHistoryService) Clear(ctx context.Context, userID, optimizerID string) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{"userId": userID, "optimizerId": optimizerID})
	if err != nil {
		return 0, fmt.Errorf("failed to clear chat: %w", err)
	}
	return result.DeletedCount, nil
}
