package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"promptforge/internal/database"
	"promptforge/internal/models"
	"promptforge/pkg/auth"
)

// UserService handles user administration and credential checks against MongoDB
type UserService struct {
	collection      *mongo.Collection
	defaultPassword string
}

// NewUserService creates a new user service
func NewUserService(db *database.MongoDB, defaultPassword string) *UserService {
	return &UserService{
		collection:      db.Collection(database.CollectionUsers),
		defaultPassword: defaultPassword,
	}
}

// Create registers a new user with an argon2id password hash. When no
// password is supplied, the configured default is applied (admins rotate it
// on first login).
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (*models.AppUser, error) {
	if req.Email == "" || req.Name == "" || req.Role == "" || req.Company == "" {
		return nil, fmt.Errorf("missing required fields")
	}

	password := req.Password
	if password == "" {
		password = s.defaultPassword
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.AppUser{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		Company:      req.Company,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("✅ Created user %s (%s)", user.Email, user.ID)
	return &user, nil
}

// Update applies the provided fields to an existing user
func (s *UserService) Update(ctx context.Context, req models.UpdateUserRequest) error {
	if req.ID == "" {
		return fmt.Errorf("missing id")
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Role != nil {
		set["role"] = *req.Role
	}
	if req.Company != nil {
		set["company"] = *req.Company
	}
	if req.Disable != nil {
		set["authDisabled"] = *req.Disable
	}
	if len(set) == 0 {
		return nil
	}

	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": req.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// Delete removes the given users. Missing ids are skipped, matching the
// bulk-delete semantics of the admin screen.
func (s *UserService) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("no ids provided")
	}

	_, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return nil
}

// GetByID returns a user by id
func (s *UserService) GetByID(ctx context.Context, id string) (*models.AppUser, error) {
	var user models.AppUser
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// List returns all users
func (s *UserService) List(ctx context.Context) ([]models.AppUser, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.AppUser
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// Authenticate verifies email+password and updates last login. Disabled
// accounts are rejected even with correct credentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.AppUser, error) {
	var user models.AppUser
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Disabled {
		return nil, fmt.Errorf("account disabled")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil || !ok {
		return nil, fmt.Errorf("invalid credentials")
	}

	now := time.Now().UTC()
	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"lastLoginAt": now}}); err != nil {
		log.Printf("⚠️  Failed to update last login for %s: %v", user.ID, err)
	}
	user.LastLoginAt = now

	return &user, nil
}
