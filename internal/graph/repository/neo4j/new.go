package neo4j

import (
	"context"
	"fmt"

	driver "github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"cyber-doctor/internal/graph"
	"cyber-doctor/internal/graph/repository"
	pkgLog "cyber-doctor/pkg/log"
)

type implRepository struct {
	driver    driver.DriverWithContext
	database  string
	searchKey string
	l         pkgLog.Logger
}

// Ensure implRepository implements repository.GraphRepository
var _ repository.GraphRepository = (*implRepository)(nil)

// Connect opens a driver and verifies the server is reachable.
func Connect(ctx context.Context, uri, username, password string) (driver.DriverWithContext, error) {
	if uri == "" {
		return nil, graph.ErrNotConfigured
	}
	d, err := driver.NewDriverWithContext(uri, driver.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j: create driver: %w", err)
	}
	if err := d.VerifyConnectivity(ctx); err != nil {
		_ = d.Close(ctx)
		return nil, fmt.Errorf("neo4j: verify connectivity: %w", err)
	}
	return d, nil
}

// New creates a new Neo4j repository. searchKey is the node property holding
// the entity name.
func New(d driver.DriverWithContext, database, searchKey string, l pkgLog.Logger) *implRepository {
	return &implRepository{
		driver:    d,
		database:  database,
		searchKey: searchKey,
		l:         l,
	}
}
