package routes

import (
	"context"
	"errors"

	"github.com/cognitive-crime/casegraph/pkg/ai"
	"github.com/cognitive-crime/casegraph/pkg/loader"
	"github.com/cognitive-crime/casegraph/pkg/store"

	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubGraphStore struct {
	subgraph *store.Subgraph
	entities []store.CaseEntity
	related  []store.RelatedCase
	err      error
}

func (s *stubGraphStore) MergeCaseNode(ctx context.Context, caseID int64) error { return nil }

func (s *stubGraphStore) MergeEntity(ctx context.Context, caseID int64, node store.Node) error {
	return nil
}

func (s *stubGraphStore) MergeRelationship(ctx context.Context, edge store.Edge) error { return nil }

func (s *stubGraphStore) MergeSummary(ctx context.Context, caseID int64, crimeType, pattern string) error {
	return nil
}

func (s *stubGraphStore) CaseEntities(ctx context.Context, caseID int64) ([]store.CaseEntity, error) {
	return s.entities, s.err
}

func (s *stubGraphStore) CaseSubgraph(ctx context.Context, caseID int64) (*store.Subgraph, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.subgraph == nil {
		return &store.Subgraph{
			Nodes: []store.GraphNode{},
			Edges: []store.GraphEdge{},
		}, nil
	}
	return s.subgraph, nil
}

func (s *stubGraphStore) RelatedCases(ctx context.Context, caseID int64) ([]store.RelatedCase, error) {
	return s.related, s.err
}

type fakeAIClient struct {
	completion string
	imageCalls int
}

func (f *fakeAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	return f.completion, nil
}

func (f *fakeAIClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	return nil
}

func (f *fakeAIClient) GenerateChat(ctx context.Context, messages []ai.ChatMessage, opts ...ai.GenerateOption) (string, error) {
	return f.completion, nil
}

func (f *fakeAIClient) GenerateImageDescription(ctx context.Context, prompt string, image loader.ImageContent) (string, error) {
	return f.completion, nil
}

func (f *fakeAIClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	f.imageCalls++
	return []byte("image-bytes"), nil
}

func (f *fakeAIClient) ResetMetrics() {}

func (f *fakeAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

// fakeDBTX serves every QueryRow from a canned scan error, enough to drive
// the handlers' row-lookup paths.
type fakeDBTX struct {
	rowErr error
}

func (f fakeDBTX) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f fakeDBTX) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f fakeDBTX) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return fakeRow{err: f.rowErr}
}

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(dest ...any) error { return r.err }

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i any) error { return v.validate.Struct(i) }

func newTestValidator() *testValidator {
	return &testValidator{validate: validator.New()}
}
