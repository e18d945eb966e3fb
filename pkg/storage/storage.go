// Package storage persists rendered diagrams for the HTTP API.
//
// A [Diagram] bundles the input graph, its computed layout and the SVG
// rendered from it. Diagrams are immutable once saved; the API only
// creates, reads, lists and deletes them.
//
// Two backends implement [Store]: [MemoryStore] for tests and single-node
// servers, and [MongoStore] for persistent deployments.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sankey/pkg/graph"
)

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when no diagram has the requested id.
	ErrNotFound = errors.New("diagram not found")

	// ErrDuplicate is returned when saving a diagram whose id is taken.
	ErrDuplicate = errors.New("diagram already exists")
)

// Diagram is a stored render.
type Diagram struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name,omitempty" bson:"name,omitempty"`
	GraphHash string       `json:"graph_hash" bson:"graph_hash"`
	NodeCount int          `json:"node_count" bson:"node_count"`
	EdgeCount int          `json:"edge_count" bson:"edge_count"`
	Graph     graph.Graph  `json:"graph" bson:"graph"`
	Layout    graph.Layout `json:"layout" bson:"layout"`
	SVG       []byte       `json:"-" bson:"svg,omitempty"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}

// Summary is the listing form of a Diagram, without payloads.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	NodeCount int       `json:"node_count" bson:"node_count"`
	EdgeCount int       `json:"edge_count" bson:"edge_count"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Summary returns the listing form of d.
func (d *Diagram) Summary() Summary {
	return Summary{ID: d.ID, Name: d.Name, NodeCount: d.NodeCount, EdgeCount: d.EdgeCount, CreatedAt: d.CreatedAt}
}

// ListOptions pages through diagrams, newest first.
type ListOptions struct {
	Limit  int // 0 means DefaultListLimit
	Offset int
}

// DefaultListLimit and MaxListLimit bound a List page.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

func (o ListOptions) limit() int {
	switch {
	case o.Limit <= 0:
		return DefaultListLimit
	case o.Limit > MaxListLimit:
		return MaxListLimit
	}
	return o.Limit
}

// Store persists diagrams.
type Store interface {
	// Save stores d. An empty ID is filled with a new UUID and a zero
	// CreatedAt with the current time; both are written back to d.
	Save(ctx context.Context, d *Diagram) error
	Get(ctx context.Context, id string) (*Diagram, error)
	List(ctx context.Context, opts ListOptions) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// prepare assigns the id and timestamp of a diagram about to be saved.
func prepare(d *Diagram, now time.Time) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now.UTC().Truncate(time.Millisecond)
	}
}
