// Package query projects stored graph data into the shapes the HTTP API
// serves, decoupled from the storage backend.
package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cognitive-crime/casegraph/pkg/store"
)

// VizNode is one node of the visualization graph. Group carries the entity
// label so the frontend can color nodes per type; Title is an optional
// tooltip listing the node's properties.
type VizNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
	Title string `json:"title,omitempty"`
}

// VizEdge is one directed edge of the visualization graph.
type VizEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// VizGraph is the visualization payload for one case.
type VizGraph struct {
	Nodes []VizNode `json:"nodes"`
	Edges []VizEdge `json:"edges"`
}

// Service answers read queries against the knowledge graph.
type Service struct {
	store store.GraphStorage
}

// NewService creates a query Service over a graph store.
func NewService(graphStore store.GraphStorage) *Service {
	return &Service{store: graphStore}
}

// CaseGraph returns the visualization graph for one case. A case without
// graph data yields an empty graph, not an error; processing may still be in
// flight.
func (s *Service) CaseGraph(ctx context.Context, caseID int64) (*VizGraph, error) {
	subgraph, err := s.store.CaseSubgraph(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load case subgraph: %w", err)
	}

	viz := &VizGraph{
		Nodes: make([]VizNode, 0, len(subgraph.Nodes)),
		Edges: make([]VizEdge, 0, len(subgraph.Edges)),
	}
	for _, node := range subgraph.Nodes {
		viz.Nodes = append(viz.Nodes, VizNode{
			ID:    node.ID,
			Label: node.Name,
			Group: node.Label,
			Title: nodeTitle(node.Properties),
		})
	}
	for _, edge := range subgraph.Edges {
		viz.Edges = append(viz.Edges, VizEdge{
			From:  edge.From,
			To:    edge.To,
			Label: edge.Type,
		})
	}
	return viz, nil
}

// RelatedCases returns the cases connected to caseID through shared persons
// or shared crime patterns.
func (s *Service) RelatedCases(ctx context.Context, caseID int64) ([]store.RelatedCase, error) {
	related, err := s.store.RelatedCases(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load related cases: %w", err)
	}
	return related, nil
}

func nodeTitle(properties map[string]any) string {
	if len(properties) == 0 {
		return ""
	}
	parts := make([]string, 0, len(properties))
	for k, v := range properties {
		if k == "name" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, "\n")
}
