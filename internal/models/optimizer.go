package models

import "time"

// Optimizer statuses
const (
	OptimizerStatusPublished = "Published"
	OptimizerStatusDraft     = "Draft"
)

// Optimizer is a reusable AI profile: a system prompt, a model choice with
// sampling parameters, and knowledge-base references. End users select one
// as a chat persona; admins author them.
type Optimizer struct {
	ID           string           `bson:"_id" json:"id"`
	InternalName string           `bson:"internalName" json:"internalName"`
	Name         string           `bson:"name" json:"name"`
	Description  string           `bson:"description" json:"description"`
	Language     string           `bson:"language" json:"language"`
	Status       string           `bson:"status" json:"status"` // "Published" or "Draft"
	Category     string           `bson:"category" json:"category"`
	Organization string           `bson:"organization" json:"organization"`
	Model        ModelConfig      `bson:"model" json:"model"`
	SystemPrompt string           `bson:"systemPrompt" json:"systemPrompt"`
	Knowledge    []KnowledgeRef   `bson:"knowledgeBase" json:"knowledgeBase"`
	Generation   GenerationParams `bson:"generationParams" json:"generationParams"`
	GuidedInputs []GuidedInput    `bson:"guidedInputs,omitempty" json:"guidedInputs,omitempty"`

	// Creator metadata
	CreatedBy      string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedByName  string    `bson:"createdByName,omitempty" json:"createdByName,omitempty"`
	CreatedByEmail string    `bson:"createdByEmail,omitempty" json:"createdByEmail,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updated_at"`
}

// ModelConfig selects the provider, model and sampling parameters for an
// Optimizer. Temperature is normally in [0,1]; MaxTokens is clamped by the
// generation pipeline before any provider call.
type ModelConfig struct {
	Provider    string  `bson:"provider" json:"provider"`
	Model       string  `bson:"model" json:"model"`
	Temperature float64 `bson:"temperature" json:"temperature"`
	MaxTokens   int     `bson:"maxTokens" json:"maxTokens"`
	TopP        float64 `bson:"topP" json:"topP"`
	BackupModel string  `bson:"backupModel,omitempty" json:"backupModel,omitempty"`
}

// KnowledgeRef is a named knowledge-base entry. Only the name is embedded in
// prompts as a reference marker; contents are never fetched at generation time.
type KnowledgeRef struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url,omitempty" json:"url,omitempty"`
}

// GenerationParams holds per-optimizer generation tuning.
type GenerationParams struct {
	Variants        int      `bson:"variants,omitempty" json:"variants,omitempty"`
	PreferredLength string   `bson:"preferredLength,omitempty" json:"preferredLength,omitempty"`
	CreativityLevel string   `bson:"creativityLevel,omitempty" json:"creativityLevel,omitempty"`
	StructureRules  []string `bson:"structureRules,omitempty" json:"structureRules,omitempty"`
	ExplainReason   bool     `bson:"explainReasoning,omitempty" json:"explainReasoning,omitempty"`
	// HistoryMessages bounds how many prior turns are framed into the
	// prompt. Zero means unset; the pipeline applies its default of 10.
	HistoryMessages int `bson:"historyMessages,omitempty" json:"historyMessages,omitempty"`
}

// GuidedInput is an admin-defined input field shown in the chat UI.
type GuidedInput struct {
	ID       string `bson:"id" json:"id"`
	Label    string `bson:"label" json:"label"`
	Required bool   `bson:"required" json:"required"`
}

// CreateOptimizerRequest is the request body for creating or updating an optimizer
type CreateOptimizerRequest struct {
	InternalName string           `json:"internalName"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Language     string           `json:"language"`
	Status       string           `json:"status"`
	Category     string           `json:"category"`
	Organization string           `json:"organization"`
	Model        ModelConfig      `json:"model"`
	SystemPrompt string           `json:"systemPrompt"`
	Knowledge    []KnowledgeRef   `json:"knowledgeBase"`
	Generation   GenerationParams `json:"generationParams"`
	GuidedInputs []GuidedInput    `json:"guidedInputs"`
}
