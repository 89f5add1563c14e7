package repositories

import (
	"context"
	"errors"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/platform/db"
	"fleet-route-optimizer/internal/ports"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *SQLInstanceRepository {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := InitSchema(context.Background(), conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return NewSQLInstanceRepository(conn, SQLite)
}

func sampleInstance(t *testing.T, name string) *domain.ProblemInstance {
	t.Helper()
	inst, err := domain.NewProblemInstance(
		name,
		domain.Coordinates{X: 50, Y: 50},
		[]domain.Coordinates{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}},
		[]int{2, 7, 1},
		5,
	)
	if err != nil {
		t.Fatalf("build instance: %v", err)
	}
	return inst
}

func TestSQLInstanceRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	want := sampleInstance(t, "alpha")
	if err := repo.SaveInstance(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetInstance(ctx, "alpha")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Depot != want.Depot || got.Capacity != want.Capacity || len(got.Customers) != 3 {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want.Customers {
		if got.Customers[i] != want.Customers[i] {
			t.Fatalf("customer %d = %+v, want %+v", i, got.Customers[i], want.Customers[i])
		}
	}

	// Replacing shrinks the customer list.
	smaller, _ := domain.NewProblemInstance("alpha", domain.Coordinates{}, []domain.Coordinates{{X: 9, Y: 9}}, []int{1}, 3)
	if err := repo.SaveInstance(ctx, smaller); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err = repo.GetInstance(ctx, "alpha")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Customers) != 1 || got.Capacity != 3 {
		t.Fatalf("replace not applied: %+v", got)
	}

	if err := repo.SaveInstance(ctx, sampleInstance(t, "beta")); err != nil {
		t.Fatalf("save beta: %v", err)
	}
	list, err := repo.ListInstances(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "beta" {
		t.Fatalf("list = %v", list)
	}

	if _, err := repo.GetInstance(ctx, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLRunRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	instances := openTestDB(t)
	runs := NewSQLRunRepository(instances.DB, SQLite)

	created := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	run := &domain.OptimizationRun{
		RunID:               "run-1",
		InstanceName:        "alpha",
		Fingerprint:         "abc",
		InstanceFingerprint: "def",
		Seed:                42,
		PopulationSize:      10,
		Generations:         2,
		BestOrder:           []int{2, 0, 1},
		BestDistance:        12.5,
		Evaluations:         17,
		Duration:            1500 * time.Millisecond,
		CreatedAt:           created,
		History: []domain.GenerationRecord{
			{Generation: 0, BestFitness: 13, MinFitness: 13, MeanFitness: 20, Best: []int{0, 1, 2}},
			{Generation: 1, BestFitness: 12.5, MinFitness: 12.5, MeanFitness: 18, Best: []int{2, 0, 1}},
		},
	}
	if err := runs.SaveRun(ctx, run); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Saving the same id again is a no-op.
	if err := runs.SaveRun(ctx, run); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := runs.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BestDistance != 12.5 || got.Evaluations != 17 || got.Seed != 42 {
		t.Fatalf("got %+v", got)
	}
	if got.InstanceFingerprint != "def" {
		t.Fatalf("instance fingerprint = %q, want def", got.InstanceFingerprint)
	}
	if !got.CreatedAt.Equal(created) || got.Duration != run.Duration {
		t.Fatalf("times = %v / %v", got.CreatedAt, got.Duration)
	}
	if len(got.History) != 2 || got.History[1].Best[0] != 2 || got.History[0].MeanFitness != 20 {
		t.Fatalf("history = %+v", got.History)
	}

	if _, err := runs.GetRun(ctx, "nope"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSeedFromJSON(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	path := filepath.Join(t.TempDir(), "instances.json")
	data := `[
		{"name": "tiny", "depot": [0, 0], "capacity": 5, "locations": [[10, 0], [0, 10]], "demands": [1, 1]}
	]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := SeedFromJSON(ctx, repo, path); err != nil {
		t.Fatalf("seed: %v", err)
	}
	inst, err := repo.GetInstance(ctx, "tiny")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inst.Size() != 2 || inst.Customers[0].Location.X != 10 {
		t.Fatalf("inst = %+v", inst)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"name":"x","capacity":5,"locations":[[1,1]],"demands":[]}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := SeedFromJSON(ctx, repo, bad); !errors.Is(err, domain.ErrInvalidInstance) {
		t.Fatalf("err = %v, want ErrInvalidInstance", err)
	}
}

func TestDialectRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ?"
	if got := SQLite.rebind(q); got != q {
		t.Fatalf("sqlite rebind = %q", got)
	}
	if got := Postgres.rebind(q); got != "SELECT * FROM t WHERE a = $1 AND b = $2" {
		t.Fatalf("postgres rebind = %q", got)
	}
}

func TestOpenStoreSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	store, err := OpenStore(ctx, "", path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if store.Dialect != SQLite {
		t.Fatalf("dialect = %v, want sqlite", store.Dialect)
	}
	if err := store.Instances.SaveInstance(ctx, sampleInstance(t, "persisted")); err != nil {
		t.Fatal(err)
	}
	store.Close()

	// reopening runs the schema again and keeps existing rows
	store, err = OpenStore(ctx, "", path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store.Close()
	if _, err := store.Instances.GetInstance(ctx, "persisted"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}
