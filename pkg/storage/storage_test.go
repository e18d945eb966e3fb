package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sankey/pkg/graph"
)

func sample(name string) *Diagram {
	return &Diagram{
		Name:      name,
		NodeCount: 2,
		EdgeCount: 1,
		Graph: graph.Graph{
			Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
			Edges: []graph.Edge{{From: "a", To: "b", Value: 1}},
		},
		Layout: graph.Layout{VizType: graph.VizTypeSankey, Width: 800, Height: 600},
		SVG:    []byte("<svg/>"),
	}
}

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	d := sample("first")
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := uuid.Parse(d.ID); err != nil {
		t.Errorf("Save() assigned id %q, want a UUID", d.ID)
	}
	if d.CreatedAt.IsZero() {
		t.Error("Save() should set CreatedAt")
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "first" || string(got.SVG) != "<svg/>" || len(got.Graph.Nodes) != 2 {
		t.Errorf("Get() = %+v", got)
	}

	dup := sample("dup")
	dup.ID = d.ID
	if err := s.Save(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Save(duplicate) error = %v, want ErrDuplicate", err)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.Delete(ctx, d.ID); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
	if err := s.Delete(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_List(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, name := range []string{"one", "two", "three"} {
		if err := s.Save(ctx, sample(name)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"all newest first", ListOptions{}, []string{"three", "two", "one"}},
		{"limit", ListOptions{Limit: 2}, []string{"three", "two"}},
		{"offset", ListOptions{Offset: 1}, []string{"two", "one"}},
		{"past end", ListOptions{Offset: 5}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() = %d items, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Errorf("List()[%d] = %s, want %s", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	d := sample("x")
	s.Save(ctx, d)
	d.Name = "changed"

	got, _ := s.Get(ctx, d.ID)
	if got.Name != "x" {
		t.Errorf("stored diagram changed through caller's pointer: %q", got.Name)
	}
}

func TestListOptionsLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultListLimit},
		{-3, DefaultListLimit},
		{10, 10},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tt := range tests {
		if got := (ListOptions{Limit: tt.in}).limit(); got != tt.want {
			t.Errorf("limit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("SANKEY_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SANKEY_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoOptions{URI: uri, Database: "sankey_test", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewMongoStore() error: %v", err)
	}
	defer s.Close(ctx)
	exerciseStore(t, s)
}
