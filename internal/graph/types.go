package graph

// Entity is a graph node with its label and properties.
type Entity struct {
	Label string
	Name  string
	Props map[string]any
}

// Relation is one edge between two named nodes.
type Relation struct {
	Start string
	Type  string
	End   string
}
