package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"promptforge/internal/database"
	"promptforge/internal/models"
)

// UsageService meters generation usage per user: atomic running totals in
// Redis plus an append-only log in MongoDB for date-ranged reporting.
// Recording is best-effort; it never affects a response already computed.
type UsageService struct {
	redis   *redis.Client
	mongoDB *database.MongoDB
}

// NewUsageService creates a new usage service
func NewUsageService(redisClient *redis.Client, mongoDB *database.MongoDB) *UsageService {
	return &UsageService{
		redis:   redisClient,
		mongoDB: mongoDB,
	}
}

// Record increments the caller's running totals and appends a usage log.
// Tokens are estimated from prompt+response length with the chars/4
// heuristic. Failures are logged and counted, never returned to the caller
// path that produced the response.
func (s *UsageService) Record(ctx context.Context, userID, optimizerID, promptText, responseText string) {
	// Single estimate over the combined text, so rounding happens once
	tokens := EstimateTokens(promptText + responseText)

	if err := s.increment(ctx, userID, tokens); err != nil {
		log.Printf("⚠️  Failed to increment usage counters for user %s: %v", userID, err)
		if m := GetMetrics(); m != nil {
			m.UsageRecordErrors.Inc()
		}
	}

	if err := s.appendLog(ctx, userID, optimizerID, tokens); err != nil {
		log.Printf("⚠️  Failed to append usage log for user %s: %v", userID, err)
		if m := GetMetrics(); m != nil {
			m.UsageRecordErrors.Inc()
		}
	}
}

func (s *UsageService) increment(ctx context.Context, userID string, tokens int64) error {
	if s.redis == nil {
		return fmt.Errorf("redis not available")
	}

	pipe := s.redis.Pipeline()
	pipe.IncrBy(ctx, tokensKey(userID), tokens)
	pipe.Incr(ctx, requestsKey(userID))
	pipe.Set(ctx, updatedKey(userID), time.Now().UTC().Format(time.RFC3339), 0)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *UsageService) appendLog(ctx context.Context, userID, optimizerID string, tokens int64) error {
	if s.mongoDB == nil {
		return fmt.Errorf("MongoDB not available")
	}

	logEntry := models.UsageLog{
		ID:          uuid.New().String(),
		UserID:      userID,
		OptimizerID: optimizerID,
		Tokens:      tokens,
		Requests:    1,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := s.mongoDB.Collection(database.CollectionUsageLogs).InsertOne(ctx, logEntry)
	return err
}

// Totals returns a user's running usage counters
func (s *UsageService) Totals(ctx context.Context, userID string) (*models.UsageTotals, error) {
	if s.redis == nil {
		return nil, fmt.Errorf("redis not available")
	}

	tokens, err := s.redis.Get(ctx, tokensKey(userID)).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read token total: %w", err)
	}
	requests, err := s.redis.Get(ctx, requestsKey(userID)).Int64()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read request total: %w", err)
	}

	totals := &models.UsageTotals{
		TotalTokens:   tokens,
		TotalRequests: requests,
	}

	if updated, err := s.redis.Get(ctx, updatedKey(userID)).Result(); err == nil {
		if ts, err := time.Parse(time.RFC3339, updated); err == nil {
			totals.LastUpdated = ts
		}
	}

	return totals, nil
}

// Ranking returns all users joined with their running totals, sorted by
// total tokens descending.
func (s *UsageService) Ranking(ctx context.Context) ([]models.UsageRankingEntry, error) {
	if s.mongoDB == nil {
		return nil, fmt.Errorf("MongoDB not available")
	}

	cursor, err := s.mongoDB.Collection(database.CollectionUsers).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.UsageRankingEntry
	for cursor.Next(ctx) {
		var user models.AppUser
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}

		entry := models.UsageRankingEntry{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Company:   user.Company,
			Role:      user.Role,
			AvatarURL: user.AvatarURL,
		}
		if totals, err := s.Totals(ctx, user.ID); err == nil {
			entry.TotalTokens = totals.TotalTokens
			entry.TotalRequests = totals.TotalRequests
		}
		entries = append(entries, entry)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalTokens > entries[j].TotalTokens
	})

	return entries, nil
}

// Report aggregates usage logs in [start, end] by user and by optimizer.
// User rows are enriched from appUsers, optimizer rows from optimizers;
// unknown ids keep the raw id as their display name.
func (s *UsageService) Report(ctx context.Context, start, end time.Time) (*models.UsageReport, error) {
	if s.mongoDB == nil {
		return nil, fmt.Errorf("MongoDB not available")
	}

	filter := bson.M{"createdAt": bson.M{"$gte": start, "$lte": end}}
	cursor, err := s.mongoDB.Collection(database.CollectionUsageLogs).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage logs: %w", err)
	}
	defer cursor.Close(ctx)

	byUser := make(map[string]*models.UsageRankingEntry)
	byOptimizer := make(map[string]*models.OptimizerUsageEntry)

	for cursor.Next(ctx) {
		var entry models.UsageLog
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode usage log: %w", err)
		}

		optimizerID := entry.OptimizerID
		if optimizerID == "" {
			optimizerID = "unknown"
		}

		u, ok := byUser[entry.UserID]
		if !ok {
			u = &models.UsageRankingEntry{ID: entry.UserID}
			byUser[entry.UserID] = u
		}
		u.TotalTokens += entry.Tokens
		u.TotalRequests += entry.Requests

		o, ok := byOptimizer[optimizerID]
		if !ok {
			o = &models.OptimizerUsageEntry{ID: optimizerID, Name: optimizerID}
			byOptimizer[optimizerID] = o
		}
		o.TotalTokens += entry.Tokens
		o.TotalRequests += entry.Requests
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	s.enrichUserEntries(ctx, byUser)
	s.enrichOptimizerEntries(ctx, byOptimizer)

	report := &models.UsageReport{Start: start, End: end}
	for _, u := range byUser {
		report.Ranking = append(report.Ranking, *u)
	}
	for _, o := range byOptimizer {
		report.Optimizers = append(report.Optimizers, *o)
	}
	sort.Slice(report.Ranking, func(i, j int) bool {
		return report.Ranking[i].TotalTokens > report.Ranking[j].TotalTokens
	})
	sort.Slice(report.Optimizers, func(i, j int) bool {
		return report.Optimizers[i].TotalTokens > report.Optimizers[j].TotalTokens
	})

	return report, nil
}

func (s *UsageService) enrichUserEntries(ctx context.Context, byUser map[string]*models.UsageRankingEntry) {
	ids := make([]string, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}

	cursor, err := s.mongoDB.Collection(database.CollectionUsers).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Printf("⚠️  Failed to enrich usage report users: %v", err)
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user models.AppUser
		if err := cursor.Decode(&user); err != nil {
			continue
		}
		if entry, ok := byUser[user.ID]; ok {
			entry.Name = user.Name
			entry.Email = user.Email
			entry.Company = user.Company
			entry.Role = user.Role
			entry.AvatarURL = user.AvatarURL
		}
	}
}

func (s *UsageService) enrichOptimizerEntries(ctx context.Context, byOptimizer map[string]*models.OptimizerUsageEntry) {
	ids := make([]string, 0, len(byOptimizer))
	for id := range byOptimizer {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}

	cursor, err := s.mongoDB.Collection(database.CollectionOptimizers).Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		log.Printf("⚠️  Failed to enrich usage report optimizers: %v", err)
		return
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ID   string `bson:"_id"`
			Name string `bson:"name"`
		}
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		if entry, ok := byOptimizer[doc.ID]; ok && doc.Name != "" {
			entry.Name = doc.Name
		}
	}
}

// Snapshot copies a user's running totals into the Mongo snapshot
// collection. Called by the daily rollup job.
func (s *UsageService) Snapshot(ctx context.Context, userID string) error {
	totals, err := s.Totals(ctx, userID)
	if err != nil {
		return err
	}

	snapshot := models.UsageSnapshot{
		UserID:        userID,
		TotalTokens:   totals.TotalTokens,
		TotalRequests: totals.TotalRequests,
		SnapshotAt:    time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	_, err = s.mongoDB.Collection(database.CollectionUsageSnapshots).
		ReplaceOne(ctx, bson.M{"_id": userID}, snapshot, opts)
	if err != nil {
		return fmt.Errorf("failed to write usage snapshot: %w", err)
	}
	return nil
}

func tokensKey(userID string) string   { return "usage:tokens:" + userID }
func requestsKey(userID string) string { return "usage:requests:" + userID }
func updatedKey(userID string) string  { return "usage:updated:" + userID }
