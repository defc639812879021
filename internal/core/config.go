package core

// RuntimeConfig contains configuration passed to a game at construction.
type RuntimeConfig struct {
	Seed    int64 // RNG seed for deterministic gameplay (0 = time-based, resolved by the platform)
	Workers int   // Goroutines running the entity update phase
}
