package store

import (
	"context"
	"errors"
)

// Node labels of the case knowledge graph. LabelCase anchors all entities of
// one case; the others form the closed entity vocabulary.
const (
	LabelCase         = "Case"
	LabelPerson       = "Person"
	LabelLocation     = "Location"
	LabelOrganization = "Organization"
	LabelDate         = "Date"
	LabelTime         = "Time"
	LabelEvidence     = "Evidence"
	LabelWeapon       = "Weapon"
	LabelVehicle      = "Vehicle"
	LabelCrimeType    = "CrimeType"
	LabelPattern      = "Pattern"
)

// Reserved edge types. RelBelongsTo anchors entities to their Case node and
// must never be used as a domain relationship; RelIsA and RelExhibits carry
// the case-level summary.
const (
	RelBelongsTo = "BELONGS_TO"
	RelIsA       = "IS_A"
	RelExhibits  = "EXHIBITS"
)

var (
	ErrInvalidLabel   = errors.New("entity label not in the allowed set")
	ErrInvalidRelType = errors.New("relationship type failed validation")
	ErrReservedType   = errors.New("relationship type is reserved")
)

// EntityKey is the identity of a graph node: its label plus its canonical
// name. At most one node exists per key.
type EntityKey struct {
	Label string
	Name  string
}

// Node is an entity to merge into the graph. Properties overwrite on repeated
// merges (last writer wins).
type Node struct {
	Key        EntityKey
	Properties map[string]any
}

// Edge is a directed, typed relationship between two entity identities.
// Merging the same triple twice leaves a single edge.
type Edge struct {
	Source EntityKey
	Type   string
	Target EntityKey
}

// CaseEntity is one entity anchored to a case, as returned by CaseEntities.
type CaseEntity struct {
	Name  string
	Label string
}

// GraphNode is one node of a case subgraph projection.
type GraphNode struct {
	ID         string
	Name       string
	Label      string
	Properties map[string]any
}

// GraphEdge is one edge of a case subgraph projection. From and To reference
// GraphNode IDs.
type GraphEdge struct {
	From string
	To   string
	Type string
}

// Subgraph is the case-scoped projection: all non-Case nodes within two hops
// of the Case node, and all edges strictly between them (the membership edge
// excluded).
type Subgraph struct {
	Nodes []GraphNode
	Edges []GraphEdge
}

// Connection explains why another case is related to the queried one.
type Connection struct {
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// RelatedCase groups every connection to one other case.
type RelatedCase struct {
	CaseID      int64        `json:"case_id"`
	Connections []Connection `json:"connections"`
}

// GraphStorage exposes idempotent merge primitives and the read projections
// over the case knowledge graph. Implementations must never blind-insert.
type GraphStorage interface {
	MergeCaseNode(ctx context.Context, caseID int64) error
	MergeEntity(ctx context.Context, caseID int64, node Node) error
	MergeRelationship(ctx context.Context, edge Edge) error
	MergeSummary(ctx context.Context, caseID int64, crimeType string, pattern string) error

	CaseEntities(ctx context.Context, caseID int64) ([]CaseEntity, error)
	CaseSubgraph(ctx context.Context, caseID int64) (*Subgraph, error)
	RelatedCases(ctx context.Context, caseID int64) ([]RelatedCase, error)
}
