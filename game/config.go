package game

// Options holds per-run settings that live outside the simulation config.
type Options struct {
	Seed        int64
	LogStats    bool   // log window stats and bookmarks via slog
	OutputDir   string // CSV output directory (empty = disabled)
	StatsWindow int    // ticks per stats window (0 = use config)
}
