package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	inputs := []Result{
		{Score: 10, Outcome: OutcomeGameOver, Ticks: 400, BallsSpawned: 1},
		{Score: 5, Outcome: OutcomeGameOver, Ticks: 120, BallsSpawned: 1},
		{Score: 84, Outcome: OutcomeClear, Ticks: 5000, BallsSpawned: 9, Player: "alice"},
	}
	for _, r := range inputs {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	results, err := store.TopResults(10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	// Should be sorted descending
	if results[0].Score != 84 || results[1].Score != 10 || results[2].Score != 5 {
		t.Errorf("Results not in expected order: %v", results)
	}

	top := results[0]
	if top.Player != "alice" || top.Outcome != OutcomeClear || top.Ticks != 5000 || top.BallsSpawned != 9 {
		t.Errorf("Top result fields not round-tripped: %+v", top)
	}
	if results[1].Player != DefaultPlayer {
		t.Errorf("Empty player should be stored as %q, got %q", DefaultPlayer, results[1].Player)
	}
	if top.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestStoreRejectsUnknownOutcome(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveResult(Result{Score: 1, Outcome: "paused"}); err == nil {
		t.Error("SaveResult() should reject an unknown outcome")
	}
}

func TestStoreTopResultsLimit(t *testing.T) {
	store := openTestStore(t)

	// Save 5 results
	for i := 0; i < 5; i++ {
		store.SaveResult(Result{Score: (i + 1) * 10, Outcome: OutcomeGameOver})
	}

	// Request only top 3
	results, err := store.TopResults(3)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("Expected 3 results with limit, got %d", len(results))
	}

	// Should be 50, 40, 30 (top 3)
	if results[0].Score != 50 || results[1].Score != 40 || results[2].Score != 30 {
		t.Errorf("Results not in expected order: %v", results)
	}
}

func TestStoreRecentResults(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{30, 10, 20} {
		store.SaveResult(Result{Score: score, Outcome: OutcomeGameOver})
	}

	results, err := store.RecentResults(2)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(results) != 2 || results[0].Score != 20 || results[1].Score != 10 {
		t.Errorf("RecentResults(2) = %v, expected scores 20, 10", results)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	// No results yet
	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty store, got %d", high)
	}

	store.SaveResult(Result{Score: 10, Outcome: OutcomeGameOver})
	store.SaveResult(Result{Score: 30, Outcome: OutcomeClear})
	store.SaveResult(Result{Score: 20, Outcome: OutcomeGameOver})

	high, err = store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 30 {
		t.Errorf("Expected high score of 30, got %d", high)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Games != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Empty store stats = %+v", stats)
	}

	store.SaveResult(Result{Score: 10, Outcome: OutcomeGameOver, Ticks: 100})
	store.SaveResult(Result{Score: 84, Outcome: OutcomeClear, Ticks: 900})

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Games != 2 || stats.Clears != 1 || stats.HighScore != 84 || stats.TotalTicks != 1000 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.AvgScore != 47 {
		t.Errorf("AvgScore = %v, expected 47", stats.AvgScore)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(Result{Score: 10, Outcome: OutcomeGameOver})
	store.SaveResult(Result{Score: 20, Outcome: OutcomeClear})

	if err := store.ClearResults(); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	results, _ := store.TopResults(10)
	if len(results) != 0 {
		t.Errorf("Expected 0 results after clear, got %d", len(results))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := Open("~/.breaking/scores.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	home, _ := os.UserHomeDir()
	if _, err := os.Stat(filepath.Join(home, ".breaking", "scores.db")); os.IsNotExist(err) {
		t.Error("Database file was not created under the home directory")
	}
}
