package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	ahocorasick "github.com/BobuSumisu/aho-corasick"

	"cyber-doctor/internal/graph"
)

// Refresh rebuilds the entity matcher from the graph.
func (uc *implUseCase) Refresh(ctx context.Context) error {
	if uc.repo == nil {
		return graph.ErrNotConfigured
	}

	entities, err := uc.repo.ListEntities(ctx, uc.labels)
	if err != nil {
		return fmt.Errorf("graph.Refresh: %w", err)
	}

	byName := make(map[string][]graph.Entity)
	var patterns []string
	for _, e := range entities {
		if _, seen := byName[e.Name]; !seen {
			patterns = append(patterns, e.Name)
		}
		byName[e.Name] = append(byName[e.Name], e)
	}
	trie := ahocorasick.NewTrieBuilder().AddStrings(patterns).Build()

	uc.mu.Lock()
	uc.trie, uc.patterns, uc.byName = trie, patterns, byName
	uc.mu.Unlock()

	uc.l.Infof(ctx, "graph.Refresh: matcher built over %d names", len(patterns))
	return nil
}

// Lookup spots entity names in question and returns their attributes and
// relationships. Graph failures are logged and treated as nothing found.
func (uc *implUseCase) Lookup(ctx context.Context, question string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if uc.repo == nil {
		return "", false, nil
	}

	if !uc.ready() {
		if err := uc.Refresh(ctx); err != nil {
			uc.l.Warnf(ctx, "graph.Lookup: matcher unavailable: %v", err)
			return "", false, nil
		}
	}

	entities := uc.match(question)
	if len(entities) == 0 {
		return "", false, nil
	}

	facts := newFactSet()
	for _, e := range entities {
		keys := make([]string, 0, len(e.Props))
		for k := range e.Props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			facts.add(fmt.Sprintf("%s %s: %v", e.Name, k, e.Props[k]))
		}
	}

	queried := make(map[string]bool)
	for _, e := range entities {
		if queried[e.Name] {
			continue
		}
		queried[e.Name] = true

		relations, err := uc.repo.Relationships(ctx, e.Name)
		if err != nil {
			uc.l.Warnf(ctx, "graph.Lookup: relationships of %s: %v", e.Name, err)
			continue
		}
		for _, r := range relations {
			facts.add(fmt.Sprintf("%s %s %s", r.Start, r.Type, r.End))
		}
	}

	if facts.empty() {
		return "", false, nil
	}
	return facts.join(factSeparator), true, nil
}

func (uc *implUseCase) ready() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.trie != nil
}

// match returns the entities whose names occur in text, in order of first
// occurrence.
func (uc *implUseCase) match(text string) []graph.Entity {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	var out []graph.Entity
	seen := make(map[string]bool)
	for _, m := range uc.trie.MatchString(text) {
		name := uc.patterns[m.Pattern()]
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, uc.byName[name]...)
	}
	return out
}

// factSet keeps insertion order and drops duplicates.
type factSet struct {
	seen  map[string]bool
	items []string
}

func newFactSet() *factSet {
	return &factSet{seen: make(map[string]bool)}
}

func (s *factSet) add(fact string) {
	if s.seen[fact] {
		return
	}
	s.seen[fact] = true
	s.items = append(s.items, fact)
}

func (s *factSet) empty() bool { return len(s.items) == 0 }

func (s *factSet) join(sep string) string { return strings.Join(s.items, sep) }
