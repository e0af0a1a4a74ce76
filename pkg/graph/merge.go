package graph

import (
	"github.com/cognitive-crime/casegraph/pkg/logger"
	"github.com/cognitive-crime/casegraph/pkg/store"
)

// MergePlan is the deterministic, deduplicated write set derived from one
// extraction. Applying the same plan twice leaves the graph unchanged.
type MergePlan struct {
	Nodes   []store.Node
	Edges   []store.Edge
	Summary *CaseSummary

	// Dangling holds relationships whose endpoints did not resolve to an
	// extracted entity. They are reported, never written.
	Dangling []ExtractedRelationship
	// SkippedNodes counts entities dropped for an unknown label.
	SkippedNodes int
	// SkippedEdges counts relationships dropped for an invalid or reserved
	// type.
	SkippedEdges int
}

// Plan deduplicates an extraction into an ordered write set. Entities with
// the same label and name collapse into one node with merged properties,
// later occurrences overwriting earlier ones key by key. Edges collapse by
// their source, type, target triple.
func Plan(extraction *Extraction) *MergePlan {
	plan := &MergePlan{
		Nodes: make([]store.Node, 0, len(extraction.Nodes)),
		Edges: make([]store.Edge, 0, len(extraction.Relationships)),
	}

	labelByID := make(map[string]string, len(extraction.Nodes))
	nodeIndex := make(map[store.EntityKey]int, len(extraction.Nodes))
	for _, node := range extraction.Nodes {
		if err := store.ValidateLabel(node.Label); err != nil {
			logger.Warn("skipping entity with unknown label", "id", node.ID, "label", node.Label)
			plan.SkippedNodes++
			continue
		}
		labelByID[node.ID] = node.Label

		nodeKey := store.EntityKey{Label: node.Label, Name: node.ID}
		idx, ok := nodeIndex[nodeKey]
		if !ok {
			plan.Nodes = append(plan.Nodes, store.Node{Key: nodeKey})
			idx = len(plan.Nodes) - 1
			nodeIndex[nodeKey] = idx
		}
		if len(node.Properties) > 0 {
			if plan.Nodes[idx].Properties == nil {
				plan.Nodes[idx].Properties = make(map[string]any, len(node.Properties))
			}
			for k, v := range node.Properties {
				plan.Nodes[idx].Properties[k] = v
			}
		}
	}

	edgeSeen := make(map[store.Edge]struct{}, len(extraction.Relationships))
	for _, rel := range extraction.Relationships {
		sourceLabel, sourceOK := labelByID[rel.SourceID]
		targetLabel, targetOK := labelByID[rel.TargetID]
		if !sourceOK || !targetOK {
			plan.Dangling = append(plan.Dangling, rel)
			continue
		}
		if err := store.ValidateRelType(rel.Type); err != nil {
			logger.Warn("skipping relationship with invalid type", "type", rel.Type, "source", rel.SourceID)
			plan.SkippedEdges++
			continue
		}

		edge := store.Edge{
			Source: store.EntityKey{Label: sourceLabel, Name: rel.SourceID},
			Type:   rel.Type,
			Target: store.EntityKey{Label: targetLabel, Name: rel.TargetID},
		}
		if _, ok := edgeSeen[edge]; ok {
			continue
		}
		edgeSeen[edge] = struct{}{}
		plan.Edges = append(plan.Edges, edge)
	}

	plan.Summary = extraction.Summary
	return plan
}
