package neo4j

import (
	"context"
	"fmt"
	"strings"

	driver "github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"cyber-doctor/internal/graph"
)

// ListEntities loads nodes label by label.
func (r *implRepository) ListEntities(ctx context.Context, labels []string) ([]graph.Entity, error) {
	var entities []graph.Entity
	for _, label := range labels {
		res, err := driver.ExecuteQuery(ctx, r.driver,
			fmt.Sprintf("MATCH (n:%s) RETURN n", quoteIdent(label)),
			nil,
			driver.EagerResultTransformer,
			r.queryOptions()...,
		)
		if err != nil {
			return nil, fmt.Errorf("list %s nodes: %w", label, err)
		}

		for _, record := range res.Records {
			node, _, err := driver.GetRecordValue[driver.Node](record, "n")
			if err != nil {
				r.l.Warnf(ctx, "neo4j repository: bad %s record: %v", label, err)
				continue
			}
			if e, ok := toEntity(label, node, r.searchKey); ok {
				entities = append(entities, e)
			}
		}
	}

	r.l.Infof(ctx, "neo4j repository: loaded %d entities from %d labels", len(entities), len(labels))
	return entities, nil
}

// Relationships returns every a-r-b edge where a is named name.
func (r *implRepository) Relationships(ctx context.Context, name string) ([]graph.Relation, error) {
	res, err := driver.ExecuteQuery(ctx, r.driver,
		fmt.Sprintf("MATCH (a)-[r]-(b) WHERE a.%s = $name RETURN a, r, b", quoteIdent(r.searchKey)),
		map[string]any{"name": name},
		driver.EagerResultTransformer,
		r.queryOptions()...,
	)
	if err != nil {
		return nil, fmt.Errorf("relationships of %s: %w", name, err)
	}
	return toRelations(res.Records, r.searchKey), nil
}

func (r *implRepository) queryOptions() []driver.ExecuteQueryConfigurationOption {
	opts := []driver.ExecuteQueryConfigurationOption{driver.ExecuteQueryWithReadersRouting()}
	if r.database != "" {
		opts = append(opts, driver.ExecuteQueryWithDatabase(r.database))
	}
	return opts
}

func toEntity(label string, node driver.Node, searchKey string) (graph.Entity, bool) {
	raw, ok := node.Props[searchKey]
	if !ok {
		return graph.Entity{}, false
	}
	name := fmt.Sprint(raw)
	if name == "" {
		return graph.Entity{}, false
	}

	props := make(map[string]any, len(node.Props)+1)
	props["label"] = label
	for k, v := range node.Props {
		props[k] = v
	}
	return graph.Entity{Label: label, Name: name, Props: props}, true
}

// toRelations resolves each edge's endpoints against the a and b nodes of
// its record, so direction follows the stored relationship.
func toRelations(records []*driver.Record, searchKey string) []graph.Relation {
	relations := make([]graph.Relation, 0, len(records))
	for _, record := range records {
		a, _, errA := driver.GetRecordValue[driver.Node](record, "a")
		rel, _, errR := driver.GetRecordValue[driver.Relationship](record, "r")
		b, _, errB := driver.GetRecordValue[driver.Node](record, "b")
		if errA != nil || errR != nil || errB != nil || rel.Type == "" {
			continue
		}

		names := map[string]string{
			a.ElementId: fmt.Sprint(a.Props[searchKey]),
			b.ElementId: fmt.Sprint(b.Props[searchKey]),
		}
		start, okS := names[rel.StartElementId]
		end, okE := names[rel.EndElementId]
		if !okS || !okE {
			continue
		}
		relations = append(relations, graph.Relation{Start: start, Type: rel.Type, End: end})
	}
	return relations
}

// quoteIdent backtick-quotes a label or property name for interpolation.
func quoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}
