package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cognitive-crime/casegraph/pkg/ai"
	"github.com/cognitive-crime/casegraph/pkg/store"
)

// ErrNoEntities is returned when a case has no graph entities to reason over,
// typically because processing has not completed yet.
var ErrNoEntities = errors.New("case has no extracted entities")

// Simulator generates narrative reconstructions of a case from its graph
// entities.
type Simulator struct {
	store store.GraphStorage
	ai    ai.CaseAIClient
}

// NewSimulator creates a Simulator.
func NewSimulator(graphStore store.GraphStorage, client ai.CaseAIClient) *Simulator {
	return &Simulator{store: graphStore, ai: client}
}

// Simulate produces a step-by-step narrative of how the crime likely
// unfolded, grounded in the entities extracted for the case.
func (s *Simulator) Simulate(ctx context.Context, caseID int64) (string, error) {
	entities, err := s.store.CaseEntities(ctx, caseID)
	if err != nil {
		return "", fmt.Errorf("failed to load case entities: %w", err)
	}
	if len(entities) == 0 {
		return "", ErrNoEntities
	}

	parts := make([]string, 0, len(entities))
	for _, entity := range entities {
		parts = append(parts, fmt.Sprintf("%s (%s)", entity.Name, entity.Label))
	}

	narrative, err := s.ai.GenerateCompletion(ctx, fmt.Sprintf(ai.SimulatePrompt, strings.Join(parts, ", ")))
	if err != nil {
		return "", fmt.Errorf("failed to generate simulation: %w", err)
	}
	return narrative, nil
}
