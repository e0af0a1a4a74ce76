package neo4j

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cognitive-crime/casegraph/pkg/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// fakeRunner serves canned results for the shared-person and shared-pattern
// queries and fails everything when err is set.
type fakeRunner struct {
	person  []*neo4j.Record
	pattern []*neo4j.Record
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	switch {
	case strings.Contains(query, ":"+store.LabelPerson):
		return &neo4j.EagerResult{Records: f.person}, nil
	case strings.Contains(query, ":"+store.LabelPattern):
		return &neo4j.EagerResult{Records: f.pattern}, nil
	default:
		return &neo4j.EagerResult{}, nil
	}
}

func relatedRecord(caseID int64, detail string) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"case_id", "detail"},
		Values: []any{caseID, detail},
	}
}

func TestRelatedCasesGroupsConnectionsPerCase(t *testing.T) {
	t.Parallel()

	s := NewStore(&fakeRunner{
		person:  []*neo4j.Record{relatedRecord(2, "John Doe")},
		pattern: []*neo4j.Record{relatedRecord(2, "Night Prowler")},
	})

	related, err := s.RelatedCases(context.Background(), 1)
	if err != nil {
		t.Fatalf("RelatedCases returned error: %v", err)
	}
	if len(related) != 1 {
		t.Fatalf("got %d related cases, want 1: %+v", len(related), related)
	}
	if related[0].CaseID != 2 {
		t.Errorf("got case id %d, want 2", related[0].CaseID)
	}
	if len(related[0].Connections) != 2 {
		t.Fatalf("got %d connections, want 2: %+v", len(related[0].Connections), related[0].Connections)
	}

	reasons := map[string]string{}
	for _, conn := range related[0].Connections {
		reasons[conn.Reason] = conn.Detail
	}
	if reasons["shared_person"] != "John Doe" {
		t.Errorf("got shared_person detail %q, want John Doe", reasons["shared_person"])
	}
	if reasons["shared_pattern"] != "Night Prowler" {
		t.Errorf("got shared_pattern detail %q, want Night Prowler", reasons["shared_pattern"])
	}
}

func TestRelatedCasesDeduplicatesRepeatedLinks(t *testing.T) {
	t.Parallel()

	s := NewStore(&fakeRunner{
		person: []*neo4j.Record{
			relatedRecord(2, "John Doe"),
			relatedRecord(2, "John Doe"),
		},
	})

	related, err := s.RelatedCases(context.Background(), 1)
	if err != nil {
		t.Fatalf("RelatedCases returned error: %v", err)
	}
	if len(related) != 1 {
		t.Fatalf("got %d related cases, want 1", len(related))
	}
	if len(related[0].Connections) != 1 {
		t.Errorf("got %d connections, want 1: %+v", len(related[0].Connections), related[0].Connections)
	}
}

func TestRelatedCasesSeparateTargetCases(t *testing.T) {
	t.Parallel()

	s := NewStore(&fakeRunner{
		person:  []*neo4j.Record{relatedRecord(2, "John Doe")},
		pattern: []*neo4j.Record{relatedRecord(3, "Night Prowler")},
	})

	related, err := s.RelatedCases(context.Background(), 1)
	if err != nil {
		t.Fatalf("RelatedCases returned error: %v", err)
	}
	if len(related) != 2 {
		t.Fatalf("got %d related cases, want 2: %+v", len(related), related)
	}
	for _, r := range related {
		if len(r.Connections) != 1 {
			t.Errorf("case %d has %d connections, want 1", r.CaseID, len(r.Connections))
		}
	}
}

func TestRelatedCasesEmpty(t *testing.T) {
	t.Parallel()

	related, err := NewStore(&fakeRunner{}).RelatedCases(context.Background(), 1)
	if err != nil {
		t.Fatalf("RelatedCases returned error: %v", err)
	}
	if related == nil {
		t.Fatal("got nil, want an empty slice")
	}
	if len(related) != 0 {
		t.Errorf("got %d related cases, want 0", len(related))
	}
}

func TestRelatedCasesRunnerError(t *testing.T) {
	t.Parallel()

	runnerErr := errors.New("connection refused")
	_, err := NewStore(&fakeRunner{err: runnerErr}).RelatedCases(context.Background(), 1)
	if !errors.Is(err, runnerErr) {
		t.Fatalf("got err %v, want wrapped %v", err, runnerErr)
	}
}
