package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/cognitive-crime/casegraph/pkg/store"
)

type fakeExtractor struct {
	extraction *Extraction
	err        error
	calls      int
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) (*Extraction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.extraction, nil
}

// fakeGraphStore keeps merged state in maps so repeated merges are visible.
type fakeGraphStore struct {
	cases     map[int64]struct{}
	entities  map[store.EntityKey]map[string]any
	edges     map[store.Edge]struct{}
	summaries map[int64][2]string

	failRelationships bool
}

func newFakeGraphStore() *fakeGraphStore {
	return &fakeGraphStore{
		cases:     map[int64]struct{}{},
		entities:  map[store.EntityKey]map[string]any{},
		edges:     map[store.Edge]struct{}{},
		summaries: map[int64][2]string{},
	}
}

func (f *fakeGraphStore) MergeCaseNode(ctx context.Context, caseID int64) error {
	f.cases[caseID] = struct{}{}
	return nil
}

func (f *fakeGraphStore) MergeEntity(ctx context.Context, caseID int64, node store.Node) error {
	if err := store.ValidateLabel(node.Key.Label); err != nil {
		return err
	}
	props := f.entities[node.Key]
	if props == nil {
		props = map[string]any{}
	}
	for k, v := range node.Properties {
		props[k] = v
	}
	f.entities[node.Key] = props
	return nil
}

func (f *fakeGraphStore) MergeRelationship(ctx context.Context, edge store.Edge) error {
	if f.failRelationships {
		return errors.New("relationship write refused")
	}
	f.edges[edge] = struct{}{}
	return nil
}

func (f *fakeGraphStore) MergeSummary(ctx context.Context, caseID int64, crimeType, pattern string) error {
	f.summaries[caseID] = [2]string{crimeType, pattern}
	return nil
}

func (f *fakeGraphStore) CaseEntities(ctx context.Context, caseID int64) ([]store.CaseEntity, error) {
	entities := make([]store.CaseEntity, 0, len(f.entities))
	for key := range f.entities {
		entities = append(entities, store.CaseEntity{Name: key.Name, Label: key.Label})
	}
	return entities, nil
}

func (f *fakeGraphStore) CaseSubgraph(ctx context.Context, caseID int64) (*store.Subgraph, error) {
	sub := &store.Subgraph{Nodes: []store.GraphNode{}, Edges: []store.GraphEdge{}}
	for key, props := range f.entities {
		sub.Nodes = append(sub.Nodes, store.GraphNode{
			ID:         key.Label + "/" + key.Name,
			Name:       key.Name,
			Label:      key.Label,
			Properties: props,
		})
	}
	for edge := range f.edges {
		sub.Edges = append(sub.Edges, store.GraphEdge{
			From: edge.Source.Label + "/" + edge.Source.Name,
			To:   edge.Target.Label + "/" + edge.Target.Name,
			Type: edge.Type,
		})
	}
	return sub, nil
}

func (f *fakeGraphStore) RelatedCases(ctx context.Context, caseID int64) ([]store.RelatedCase, error) {
	return []store.RelatedCase{}, nil
}

type fakeStatusStore struct {
	completed []int64
	failed    map[int64]string
}

func newFakeStatusStore() *fakeStatusStore {
	return &fakeStatusStore{failed: map[int64]string{}}
}

func (f *fakeStatusStore) MarkComplete(ctx context.Context, caseID int64) error {
	f.completed = append(f.completed, caseID)
	return nil
}

func (f *fakeStatusStore) MarkFailed(ctx context.Context, caseID int64, reason string) error {
	f.failed[caseID] = reason
	return nil
}

func testExtraction() *Extraction {
	return &Extraction{
		Nodes: []ExtractedNode{
			{ID: "John Doe", Label: "Person", Properties: map[string]string{"role": "suspect"}},
			{ID: "Main Street", Label: "Location"},
			{ID: "Crowbar", Label: "Weapon"},
		},
		Relationships: []ExtractedRelationship{
			{SourceID: "John Doe", TargetID: "Main Street", Type: "SEEN_AT"},
			{SourceID: "John Doe", TargetID: "Crowbar", Type: "OWNS"},
			{SourceID: "John Doe", TargetID: "Nowhere", Type: "FLED_TOWARDS"},
		},
		Summary: &CaseSummary{CrimeType: "Burglary", Pattern: "rear window entry"},
	}
}

func TestBuildWritesPlanAndMarksComplete(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{extraction: testExtraction()}
	graphStore := newFakeGraphStore()
	status := newFakeStatusStore()
	builder := NewBuilder(extractor, graphStore, status)

	report, err := builder.Build(context.Background(), 7, "case text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.NodesWritten != 3 {
		t.Fatalf("got %d nodes written, want 3", report.NodesWritten)
	}
	if report.EdgesWritten != 2 {
		t.Fatalf("got %d edges written, want 2", report.EdgesWritten)
	}
	if report.Dangling != 1 {
		t.Fatalf("got %d dangling, want 1", report.Dangling)
	}
	if _, ok := graphStore.cases[7]; !ok {
		t.Fatal("case node not merged")
	}
	if got := graphStore.summaries[7]; got != [2]string{"Burglary", "rear window entry"} {
		t.Fatalf("unexpected summary: %v", got)
	}
	if len(status.completed) != 1 || status.completed[0] != 7 {
		t.Fatalf("case not marked complete: %v", status.completed)
	}
	if len(status.failed) != 0 {
		t.Fatalf("unexpected failures: %v", status.failed)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{extraction: testExtraction()}
	graphStore := newFakeGraphStore()
	builder := NewBuilder(extractor, graphStore, newFakeStatusStore())

	if _, err := builder.Build(context.Background(), 7, "case text"); err != nil {
		t.Fatalf("first build: %v", err)
	}
	entitiesAfterFirst := len(graphStore.entities)
	edgesAfterFirst := len(graphStore.edges)

	if _, err := builder.Build(context.Background(), 7, "case text"); err != nil {
		t.Fatalf("second build: %v", err)
	}

	if len(graphStore.entities) != entitiesAfterFirst {
		t.Fatalf("entity count changed: %d -> %d", entitiesAfterFirst, len(graphStore.entities))
	}
	if len(graphStore.edges) != edgesAfterFirst {
		t.Fatalf("edge count changed: %d -> %d", edgesAfterFirst, len(graphStore.edges))
	}
}

func TestBuildPropagatesExtractionError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("model unreachable")
	extractor := &fakeExtractor{err: wantErr}
	graphStore := newFakeGraphStore()
	status := newFakeStatusStore()
	builder := NewBuilder(extractor, graphStore, status)

	_, err := builder.Build(context.Background(), 7, "case text")
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
	if len(graphStore.cases) != 0 {
		t.Fatal("graph written despite extraction failure")
	}
	if len(status.completed) != 0 || len(status.failed) != 0 {
		t.Fatal("status changed despite extraction failure")
	}
}

func TestBuildPartialWritesStand(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{extraction: testExtraction()}
	graphStore := newFakeGraphStore()
	graphStore.failRelationships = true
	status := newFakeStatusStore()
	builder := NewBuilder(extractor, graphStore, status)

	report, err := builder.Build(context.Background(), 7, "case text")
	if err == nil {
		t.Fatal("expected error")
	}
	if report.NodesWritten != 3 {
		t.Fatalf("got %d nodes written, want 3", report.NodesWritten)
	}
	if len(graphStore.entities) != 3 {
		t.Fatalf("entity writes rolled back: %d", len(graphStore.entities))
	}
	if len(status.completed) != 0 {
		t.Fatal("case marked complete despite failure")
	}
}
