package graph

import (
	"context"
	"fmt"

	"github.com/cognitive-crime/casegraph/pkg/logger"
	"github.com/cognitive-crime/casegraph/pkg/store"
)

// BuildReport summarizes the graph writes for one processed case file.
type BuildReport struct {
	NodesWritten int
	EdgesWritten int
	Dangling     int
	SkippedNodes int
	SkippedEdges int
}

// Builder runs the extraction pipeline for one case file and persists the
// result. Writes are idempotent, so re-running a build for the same file is
// safe; a failed build leaves its completed writes in place.
type Builder struct {
	extractor Extractor
	store     store.GraphStorage
	status    StatusStore
}

// NewBuilder creates a Builder from its three collaborators.
func NewBuilder(extractor Extractor, graphStore store.GraphStorage, status StatusStore) *Builder {
	return &Builder{
		extractor: extractor,
		store:     graphStore,
		status:    status,
	}
}

// Build extracts entities from text, merges them into the graph anchored to
// caseID, and marks the case complete. On error the case status is left
// untouched so the caller can decide between retrying and failing the case.
func (b *Builder) Build(ctx context.Context, caseID int64, text string) (*BuildReport, error) {
	extraction, err := b.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	plan := Plan(extraction)
	report := &BuildReport{
		Dangling:     len(plan.Dangling),
		SkippedNodes: plan.SkippedNodes,
		SkippedEdges: plan.SkippedEdges,
	}

	if err := b.store.MergeCaseNode(ctx, caseID); err != nil {
		return report, err
	}

	for _, node := range plan.Nodes {
		if err := b.store.MergeEntity(ctx, caseID, node); err != nil {
			return report, fmt.Errorf("failed to write entity %q: %w", node.Key.Name, err)
		}
		report.NodesWritten++
	}

	for _, edge := range plan.Edges {
		if err := b.store.MergeRelationship(ctx, edge); err != nil {
			return report, fmt.Errorf("failed to write relationship %q: %w", edge.Type, err)
		}
		report.EdgesWritten++
	}

	if plan.Summary != nil {
		if err := b.store.MergeSummary(ctx, caseID, plan.Summary.CrimeType, plan.Summary.Pattern); err != nil {
			return report, err
		}
	}

	for _, rel := range plan.Dangling {
		logger.Warn("relationship endpoint not in entity list",
			"case_id", caseID,
			"source", rel.SourceID,
			"target", rel.TargetID,
			"type", rel.Type,
		)
	}

	if err := b.status.MarkComplete(ctx, caseID); err != nil {
		return report, fmt.Errorf("failed to mark case %d complete: %w", caseID, err)
	}

	return report, nil
}
