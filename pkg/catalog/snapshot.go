package catalog

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"mercator-hq/promptfactory/pkg/rules"
	"mercator-hq/promptfactory/pkg/tagspec"
	"mercator-hq/promptfactory/pkg/variables"
)

// Snapshot is one fully loaded catalog. It is never modified after Load
// returns it and may be shared by concurrent builds.
type Snapshot struct {
	// ID identifies this load in logs and metrics.
	ID       uuid.UUID
	LoadedAt time.Time

	// Nodes are sorted by ID.
	Nodes   []*tagspec.Node
	Globals []tagspec.NamedVariable
	Rules   *rules.Book

	// Raw holds the decoded node documents keyed by node ID. Rule config
	// paths are evaluated against it.
	Raw map[string]any

	// Tags indexes every node tag for use as a variable.
	Tags *variables.TagIndex

	// Files is the number of documents read.
	Files int

	query *rules.ConfigQuerier
}

// Node returns the node with the given ID.
func (s *Snapshot) Node(id string) (*tagspec.Node, bool) {
	i := sort.Search(len(s.Nodes), func(i int) bool { return s.Nodes[i].ID >= id })
	if i < len(s.Nodes) && s.Nodes[i].ID == id {
		return s.Nodes[i], true
	}
	return nil, false
}

// Visible returns the nodes not marked hidden.
func (s *Snapshot) Visible() []*tagspec.Node {
	out := make([]*tagspec.Node, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		if !n.Hide {
			out = append(out, n)
		}
	}
	return out
}

// Querier returns the config path querier over Raw.
func (s *Snapshot) Querier() *rules.ConfigQuerier {
	if s.query == nil {
		return rules.NewConfigQuerier(s.Raw)
	}
	return s.query
}

// Version returns a printable identifier of the snapshot.
func (s *Snapshot) Version() string {
	return s.ID.String()
}
