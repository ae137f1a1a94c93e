package models

import "time"

// UsageLog is a single metering record written after a generation completes
type UsageLog struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"uid" json:"uid"`
	OptimizerID string    `bson:"optimizerId" json:"optimizerId"`
	Tokens      int64     `bson:"tokens" json:"tokens"`
	Requests    int64     `bson:"requests" json:"requests"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// UsageTotals holds a user's running usage counters
type UsageTotals struct {
	TotalTokens   int64     `json:"totalTokens"`
	TotalRequests int64     `json:"totalRequests"`
	LastUpdated   time.Time `json:"lastUpdated,omitempty"`
}

// UsageRankingEntry is one row of the per-user usage ranking
type UsageRankingEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Company       string `json:"company,omitempty"`
	Role          string `json:"role,omitempty"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	TotalTokens   int64  `json:"totalTokens"`
	TotalRequests int64  `json:"totalRequests"`
}

// OptimizerUsageEntry is one row of the per-optimizer usage report
type OptimizerUsageEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TotalTokens   int64  `json:"totalTokens"`
	TotalRequests int64  `json:"totalRequests"`
}

// UsageReport aggregates usage logs over a date range
type UsageReport struct {
	Ranking    []UsageRankingEntry   `json:"ranking"`
	Optimizers []OptimizerUsageEntry `json:"optimizers"`
	Start      time.Time             `json:"start"`
	End        time.Time             `json:"end"`
}

// UsageSnapshot is the per-user rollup document written by the daily job
type UsageSnapshot struct {
	UserID        string    `bson:"_id" json:"user_id"`
	TotalTokens   int64     `bson:"totalTokens" json:"totalTokens"`
	TotalRequests int64     `bson:"totalRequests" json:"totalRequests"`
	SnapshotAt    time.Time `bson:"snapshotAt" json:"snapshotAt"`
}
