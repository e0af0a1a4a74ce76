package neo4j

import (
	"context"
	"fmt"

	"github.com/cognitive-crime/casegraph/pkg/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/sync/errgroup"
)

// Store implements store.GraphStorage on a Neo4j database. Every write is a
// MERGE keyed by entity identity, so repeated builds are idempotent. Labels
// and relationship types are validated against the closed vocabulary before
// they reach a query string; everything else travels as parameters.
type Store struct {
	runner Runner
}

// NewStore creates a Store on top of a Runner.
func NewStore(runner Runner) *Store {
	return &Store{runner: runner}
}

// MergeCaseNode ensures the anchoring Case node exists.
func (s *Store) MergeCaseNode(ctx context.Context, caseID int64) error {
	_, err := s.runner.Run(ctx,
		`MERGE (c:Case {case_id: $case_id})`,
		map[string]any{"case_id": caseID},
	)
	if err != nil {
		return fmt.Errorf("failed to merge case node %d: %w", caseID, err)
	}
	return nil
}

// MergeEntity upserts an entity by its identity key, overwrites its property
// map, and anchors it to the Case node.
func (s *Store) MergeEntity(ctx context.Context, caseID int64, node store.Node) error {
	if err := store.ValidateLabel(node.Key.Label); err != nil {
		return err
	}

	props := node.Properties
	if props == nil {
		props = map[string]any{}
	}

	query := fmt.Sprintf(`
		MERGE (e:%s {name: $name})
		SET e += $props
		WITH e
		MATCH (c:Case {case_id: $case_id})
		MERGE (e)-[:%s]->(c)`,
		node.Key.Label, store.RelBelongsTo,
	)
	_, err := s.runner.Run(ctx, query, map[string]any{
		"name":    node.Key.Name,
		"props":   props,
		"case_id": caseID,
	})
	if err != nil {
		return fmt.Errorf("failed to merge entity %s:%q: %w", node.Key.Label, node.Key.Name, err)
	}
	return nil
}

// MergeRelationship upserts a directed edge between two entity identities.
// The edge triple is the dedup key: merging it twice leaves one edge.
func (s *Store) MergeRelationship(ctx context.Context, edge store.Edge) error {
	if err := store.ValidateLabel(edge.Source.Label); err != nil {
		return err
	}
	if err := store.ValidateLabel(edge.Target.Label); err != nil {
		return err
	}
	if err := store.ValidateRelType(edge.Type); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		MATCH (a:%s {name: $source})
		MATCH (b:%s {name: $target})
		MERGE (a)-[:%s]->(b)`,
		edge.Source.Label, edge.Target.Label, edge.Type,
	)
	_, err := s.runner.Run(ctx, query, map[string]any{
		"source": edge.Source.Name,
		"target": edge.Target.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to merge relationship %q: %w", edge.Type, err)
	}
	return nil
}

// MergeSummary upserts the case-level classification and pattern nodes and
// links them from the Case node. Empty values are skipped.
func (s *Store) MergeSummary(ctx context.Context, caseID int64, crimeType string, pattern string) error {
	if crimeType != "" {
		_, err := s.runner.Run(ctx, fmt.Sprintf(`
			MATCH (c:Case {case_id: $case_id})
			MERGE (t:%s {name: $name})
			MERGE (c)-[:%s]->(t)`,
			store.LabelCrimeType, store.RelIsA,
		), map[string]any{"case_id": caseID, "name": crimeType})
		if err != nil {
			return fmt.Errorf("failed to merge crime type %q: %w", crimeType, err)
		}
	}

	if pattern != "" {
		_, err := s.runner.Run(ctx, fmt.Sprintf(`
			MATCH (c:Case {case_id: $case_id})
			MERGE (p:%s {name: $name})
			MERGE (c)-[:%s]->(p)`,
			store.LabelPattern, store.RelExhibits,
		), map[string]any{"case_id": caseID, "name": pattern})
		if err != nil {
			return fmt.Errorf("failed to merge pattern %q: %w", pattern, err)
		}
	}

	return nil
}

// CaseEntities returns the name and label of every entity anchored to a case.
func (s *Store) CaseEntities(ctx context.Context, caseID int64) ([]store.CaseEntity, error) {
	result, err := s.runner.Run(ctx, fmt.Sprintf(`
		MATCH (e)-[:%s]->(c:Case {case_id: $case_id})
		RETURN e.name AS name, labels(e)[0] AS label`,
		store.RelBelongsTo,
	), map[string]any{"case_id": caseID})
	if err != nil {
		return nil, fmt.Errorf("failed to query case entities: %w", err)
	}

	entities := make([]store.CaseEntity, 0, len(result.Records))
	for _, record := range result.Records {
		entities = append(entities, store.CaseEntity{
			Name:  stringValue(record, "name"),
			Label: stringValue(record, "label"),
		})
	}
	return entities, nil
}

// CaseSubgraph returns all non-Case nodes within two hops of the Case node
// plus every edge strictly between them, excluding the membership edge.
func (s *Store) CaseSubgraph(ctx context.Context, caseID int64) (*store.Subgraph, error) {
	subgraph := &store.Subgraph{
		Nodes: make([]store.GraphNode, 0),
		Edges: make([]store.GraphEdge, 0),
	}

	// Node and edge queries are independent; run them concurrently.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		nodeResult, err := s.runner.Run(gctx, `
			MATCH (c:Case {case_id: $case_id})
			MATCH (c)-[*1..2]-(e)
			WHERE NOT e:Case
			RETURN DISTINCT elementId(e) AS id, e.name AS name, labels(e)[0] AS label, properties(e) AS props`,
			map[string]any{"case_id": caseID})
		if err != nil {
			return fmt.Errorf("failed to query case subgraph nodes: %w", err)
		}
		for _, record := range nodeResult.Records {
			node := store.GraphNode{
				ID:    stringValue(record, "id"),
				Name:  stringValue(record, "name"),
				Label: stringValue(record, "label"),
			}
			if props, ok := record.Get("props"); ok {
				if m, ok := props.(map[string]any); ok {
					node.Properties = m
				}
			}
			subgraph.Nodes = append(subgraph.Nodes, node)
		}
		return nil
	})

	g.Go(func() error {
		edgeResult, err := s.runner.Run(gctx, fmt.Sprintf(`
			MATCH (c:Case {case_id: $case_id})
			MATCH (c)-[*1..2]-(e1)
			WHERE NOT e1:Case
			MATCH (c)-[*1..2]-(e2)
			WHERE NOT e2:Case
			MATCH (e1)-[r]->(e2)
			WHERE type(r) <> '%s'
			RETURN DISTINCT elementId(e1) AS from, elementId(e2) AS to, type(r) AS label`,
			store.RelBelongsTo,
		), map[string]any{"case_id": caseID})
		if err != nil {
			return fmt.Errorf("failed to query case subgraph edges: %w", err)
		}
		for _, record := range edgeResult.Records {
			subgraph.Edges = append(subgraph.Edges, store.GraphEdge{
				From: stringValue(record, "from"),
				To:   stringValue(record, "to"),
				Type: stringValue(record, "label"),
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return subgraph, nil
}

// RelatedCases finds other cases sharing a Person (two hops through the
// membership edge) or a Pattern (EXHIBITS out, then in). Results are merged
// per target case and deduplicated.
func (s *Store) RelatedCases(ctx context.Context, caseID int64) ([]store.RelatedCase, error) {
	type link struct {
		caseID int64
		conn   store.Connection
	}
	links := make([]link, 0)

	personResult, err := s.runner.Run(ctx, fmt.Sprintf(`
		MATCH (c:Case {case_id: $case_id})<-[:%[1]s]-(p:%[2]s)-[:%[1]s]->(o:Case)
		WHERE o.case_id <> $case_id
		RETURN DISTINCT o.case_id AS case_id, p.name AS detail`,
		store.RelBelongsTo, store.LabelPerson,
	), map[string]any{"case_id": caseID})
	if err != nil {
		return nil, fmt.Errorf("failed to query shared persons: %w", err)
	}
	for _, record := range personResult.Records {
		links = append(links, link{
			caseID: intValue(record, "case_id"),
			conn:   store.Connection{Reason: "shared_person", Detail: stringValue(record, "detail")},
		})
	}

	patternResult, err := s.runner.Run(ctx, fmt.Sprintf(`
		MATCH (c:Case {case_id: $case_id})-[:%[1]s]->(p:%[2]s)<-[:%[1]s]-(o:Case)
		WHERE o.case_id <> $case_id
		RETURN DISTINCT o.case_id AS case_id, p.name AS detail`,
		store.RelExhibits, store.LabelPattern,
	), map[string]any{"case_id": caseID})
	if err != nil {
		return nil, fmt.Errorf("failed to query shared patterns: %w", err)
	}
	for _, record := range patternResult.Records {
		links = append(links, link{
			caseID: intValue(record, "case_id"),
			conn:   store.Connection{Reason: "shared_pattern", Detail: stringValue(record, "detail")},
		})
	}

	related := make([]store.RelatedCase, 0)
	index := make(map[int64]int)
	seen := make(map[string]struct{})
	for _, l := range links {
		key := fmt.Sprintf("%d/%s/%s", l.caseID, l.conn.Reason, l.conn.Detail)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		idx, ok := index[l.caseID]
		if !ok {
			related = append(related, store.RelatedCase{CaseID: l.caseID})
			idx = len(related) - 1
			index[l.caseID] = idx
		}
		related[idx].Connections = append(related[idx].Connections, l.conn)
	}

	return related, nil
}

func stringValue(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

func intValue(record *neo4j.Record, key string) int64 {
	value, ok := record.Get(key)
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
