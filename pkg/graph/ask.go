package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cognitive-crime/casegraph/pkg/ai"
	"github.com/cognitive-crime/casegraph/pkg/store"
)

// Assistant answers free-form questions about a single case, grounded in the
// facts stored in its knowledge graph.
type Assistant struct {
	store store.GraphStorage
	ai    ai.CaseAIClient
}

// NewAssistant creates an Assistant.
func NewAssistant(graphStore store.GraphStorage, client ai.CaseAIClient) *Assistant {
	return &Assistant{store: graphStore, ai: client}
}

// Ask answers the latest user message in messages using only the case graph.
// The full message history is forwarded so follow-up questions keep their
// context.
func (a *Assistant) Ask(ctx context.Context, caseID int64, messages []ai.ChatMessage) (string, error) {
	subgraph, err := a.store.CaseSubgraph(ctx, caseID)
	if err != nil {
		return "", fmt.Errorf("failed to load case graph: %w", err)
	}
	if len(subgraph.Nodes) == 0 {
		return "", ErrNoEntities
	}

	answer, err := a.ai.GenerateChat(ctx, messages,
		ai.WithSystemPrompts(fmt.Sprintf(ai.AskSystemPrompt, factList(subgraph))),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return answer, nil
}

// factList renders a subgraph as plain-text facts, one per line. Node facts
// come first, then relationship facts using node names.
func factList(subgraph *store.Subgraph) string {
	nameByID := make(map[string]string, len(subgraph.Nodes))
	lines := make([]string, 0, len(subgraph.Nodes)+len(subgraph.Edges))

	for _, node := range subgraph.Nodes {
		nameByID[node.ID] = node.Name

		line := fmt.Sprintf("- %s is a %s", node.Name, node.Label)
		if len(node.Properties) > 0 {
			props := make([]string, 0, len(node.Properties))
			for k, v := range node.Properties {
				if k == "name" {
					continue
				}
				props = append(props, fmt.Sprintf("%s: %v", k, v))
			}
			sort.Strings(props)
			if len(props) > 0 {
				line += " (" + strings.Join(props, ", ") + ")"
			}
		}
		lines = append(lines, line)
	}

	for _, edge := range subgraph.Edges {
		from, fromOK := nameByID[edge.From]
		to, toOK := nameByID[edge.To]
		if !fromOK || !toOK {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s %s %s", from, strings.ReplaceAll(edge.Type, "_", " "), to))
	}

	return strings.Join(lines, "\n")
}
