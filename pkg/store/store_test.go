package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/corral/pkg/bipartite"
	"github.com/matzehuels/corral/pkg/topology"
)

func record(t *testing.T, spec string, created time.Time) *Record {
	t.Helper()
	g, err := topology.Parse(spec)
	if err != nil {
		t.Fatal(err)
	}
	cfg := bipartite.Config{MaxQubitDegree: 4, MaxCouplerDegree: 2}
	res, err := bipartite.Realize(g, cfg)
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecord(spec, "hash-"+spec, g, res, cfg)
	rec.CreatedAt = created
	return rec
}

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first := record(t, "ring:4", base)
	second := record(t, "path:3", base.Add(time.Minute))
	third := record(t, "star:3", base.Add(2*time.Minute))
	for _, rec := range []*Record{first, second, third} {
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save(%s) error = %v", rec.Source, err)
		}
	}

	got, err := s.Get(ctx, second.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Source != "path:3" || got.PatternHash != "hash-path:3" {
		t.Errorf("Get() = %+v", got)
	}
	res, cfg, err := got.Result()
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if !res.Feasible() || cfg.MaxQubitDegree != 4 {
		t.Errorf("Result() = feasible %v, cfg %+v", res.Feasible(), cfg)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 || list[0].ID != third.ID || list[2].ID != first.ID {
		t.Errorf("List() order = %v, want newest first", sources(list))
	}

	list, _ = s.List(ctx, 2)
	if len(list) != 2 || list[0].ID != third.ID {
		t.Errorf("List(2) = %v", sources(list))
	}

	if err := s.Delete(ctx, second.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, second.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, second.ID); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func sources(recs []*Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Source
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	rec := record(t, "ring:4", time.Now())
	if err := s.Save(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	rec.Source = "changed"
	got, _ := s.Get(context.Background(), rec.ID)
	if got.Source != "ring:4" {
		t.Errorf("stored record changed with caller copy: %q", got.Source)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rec := record(t, "ring:4", time.Now())
	rec.ID = "../escape"
	if err := s.Save(context.Background(), rec); err == nil {
		t.Error("Save() should reject a non-UUID id")
	}
	if _, err := s.Get(context.Background(), "../escape"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestInfeasibleRecord(t *testing.T) {
	g, _ := topology.Parse("star:3")
	cfg := bipartite.Config{MaxQubitDegree: 2, MaxCouplerDegree: 2}
	res, err := bipartite.Realize(g, cfg)
	if err != nil {
		t.Fatal(err)
	}
	rec := NewRecord("star:3", "h", g, res, cfg)
	if rec.Realization.Feasible || rec.Realization.Blocked == nil {
		t.Fatalf("record = %+v, want infeasible", rec.Realization)
	}
	back, _, err := rec.Result()
	if err != nil {
		t.Fatal(err)
	}
	if back.Feasible() || back.Blocked.String() != "q0-q3" {
		t.Errorf("Result() blocked = %v", back.Blocked)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("CORRAL_MONGO_URI")
	if uri == "" {
		t.Skip("CORRAL_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "corral_test_"+time.Now().Format("150405"))
	if err != nil {
		t.Fatalf("NewMongoStore() error = %v", err)
	}
	t.Cleanup(func() {
		_ = s.coll.Database().Drop(ctx)
		s.Close()
	})
	exerciseStore(t, s)
}
