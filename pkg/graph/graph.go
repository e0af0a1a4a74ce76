// Package graph turns case-file text into knowledge-graph writes. Extraction
// delegates to a generative model behind the Extractor interface; merging and
// persistence are deterministic and idempotent.
package graph

import (
	"context"
)

// ExtractedNode is one entity identified in a case file. ID is the canonical
// name of the entity and doubles as its graph identity within its label.
type ExtractedNode struct {
	ID         string            `json:"id"`
	Label      string            `json:"label"`
	Properties map[string]string `json:"properties,omitempty"`
}

// ExtractedRelationship is a directed edge between two extracted entities,
// referenced by their IDs.
type ExtractedRelationship struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Type     string `json:"type"`
}

// CaseSummary is the case-level classification produced by extraction.
type CaseSummary struct {
	CrimeType string `json:"crime_type"`
	Pattern   string `json:"pattern"`
}

// Extraction is the full model output for one case file.
type Extraction struct {
	Nodes         []ExtractedNode
	Relationships []ExtractedRelationship
	Summary       *CaseSummary
}

// Extractor produces an Extraction from flattened case-file text.
type Extractor interface {
	Extract(ctx context.Context, text string) (*Extraction, error)
}

// StatusStore records the terminal processing state of a case. It is the
// only piece of relational state the builder touches.
type StatusStore interface {
	MarkComplete(ctx context.Context, caseID int64) error
	MarkFailed(ctx context.Context, caseID int64, reason string) error
}
