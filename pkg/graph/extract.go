package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognitive-crime/casegraph/pkg/ai"
	"github.com/cognitive-crime/casegraph/pkg/store"
)

type extractionNode struct {
	ID         string `json:"id" jsonschema_description:"Canonical name of the entity as written in the text"`
	Label      string `json:"label" jsonschema_description:"Entity type from the allowed list"`
	Properties []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"properties" jsonschema_description:"Factual key/value properties stated in the text"`
}

type extractionRelationship struct {
	SourceID string `json:"source_id" jsonschema_description:"ID of the source entity"`
	TargetID string `json:"target_id" jsonschema_description:"ID of the target entity"`
	Type     string `json:"type" jsonschema_description:"Relationship type in UPPERCASE_WITH_UNDERSCORES"`
}

type extractionResponse struct {
	Nodes         []extractionNode         `json:"nodes" jsonschema_description:"Every entity found in the case file"`
	Relationships []extractionRelationship `json:"relationships" jsonschema_description:"Directed relationships between the listed entities"`
	CrimeType     string                   `json:"crime_type" jsonschema_description:"Crime classification, or empty when inconclusive"`
	Pattern       string                   `json:"pattern" jsonschema_description:"Modus operandi in one short phrase, or empty when inconclusive"`
}

// ModelExtractor implements Extractor on top of a structured-output model
// call. The response schema is derived from extractionResponse.
type ModelExtractor struct {
	ai ai.CaseAIClient
}

// NewModelExtractor creates a ModelExtractor backed by the given client.
func NewModelExtractor(client ai.CaseAIClient) *ModelExtractor {
	return &ModelExtractor{ai: client}
}

// Extract runs entity and relationship extraction over flattened case text.
// Relationship types are normalized; label validation is left to the merge
// step so a single bad entity never fails the whole extraction.
func (e *ModelExtractor) Extract(ctx context.Context, text string) (*Extraction, error) {
	prompt := fmt.Sprintf(ai.ExtractPrompt, strings.Join(store.ExtractionLabels(), ", "))
	prompt += "\n# Case File\n" + text

	var response extractionResponse
	err := e.ai.GenerateCompletionWithFormat(
		ctx,
		"case_extraction",
		"Entities, relationships and classification extracted from a police case file",
		prompt,
		&response,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to extract case graph: %w", err)
	}

	extraction := &Extraction{
		Nodes:         make([]ExtractedNode, 0, len(response.Nodes)),
		Relationships: make([]ExtractedRelationship, 0, len(response.Relationships)),
	}

	for _, node := range response.Nodes {
		if strings.TrimSpace(node.ID) == "" {
			continue
		}
		out := ExtractedNode{
			ID:    strings.TrimSpace(node.ID),
			Label: strings.TrimSpace(node.Label),
		}
		if len(node.Properties) > 0 {
			out.Properties = make(map[string]string, len(node.Properties))
			for _, p := range node.Properties {
				if p.Key == "" {
					continue
				}
				out.Properties[p.Key] = p.Value
			}
		}
		extraction.Nodes = append(extraction.Nodes, out)
	}

	for _, rel := range response.Relationships {
		extraction.Relationships = append(extraction.Relationships, ExtractedRelationship{
			SourceID: strings.TrimSpace(rel.SourceID),
			TargetID: strings.TrimSpace(rel.TargetID),
			Type:     store.NormalizeRelType(rel.Type),
		})
	}

	if response.CrimeType != "" || response.Pattern != "" {
		extraction.Summary = &CaseSummary{
			CrimeType: strings.TrimSpace(response.CrimeType),
			Pattern:   strings.TrimSpace(response.Pattern),
		}
	}

	return extraction, nil
}
