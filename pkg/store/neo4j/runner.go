package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner executes a Cypher query with parameters and returns a fully-buffered
// result. The Store depends on this interface so tests can substitute a fake
// executor.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// Executor is the production Runner backed by the official Neo4j driver.
type Executor struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewExecutor creates a driver for the given connection details. Close must
// be called when the executor is no longer needed.
func NewExecutor(uri, username, password, database string) (*Executor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Executor{driver: driver, database: database}, nil
}

// Verify checks connectivity to the database.
func (e *Executor) Verify(ctx context.Context) error {
	return e.driver.VerifyConnectivity(ctx)
}

// Close releases the underlying driver.
func (e *Executor) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

// Run executes a query through neo4j.ExecuteQuery, which manages sessions and
// transactions, and buffers all records before returning.
func (e *Executor) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		e.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.database),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute neo4j query: %w", err)
	}
	return result, nil
}
