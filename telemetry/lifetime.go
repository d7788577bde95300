package telemetry

import "github.com/pthm-cable/terrarium/components"

// LifetimeStats tracks per-organism statistics over its lifetime.
type LifetimeStats struct {
	BirthTick int32
	Kind      components.Kind
	Diet      components.Diet

	Children  int
	Attacks   int
	Kills     int
	MassEaten float64
}

// LifetimeTracker manages per-organism lifetime statistics, keyed by
// entity ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a newly spawned organism.
func (lt *LifetimeTracker) Register(entityID uint32, birthTick int32, kind components.Kind, diet components.Diet) {
	lt.stats[entityID] = &LifetimeStats{
		BirthTick: birthTick,
		Kind:      kind,
		Diet:      diet,
	}
}

// Get returns the lifetime stats for an entity, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *LifetimeStats {
	return lt.stats[entityID]
}

// Remove removes an entity's stats and returns them. The second result
// is false if the entity was never registered.
func (lt *LifetimeTracker) Remove(entityID uint32) (LifetimeStats, bool) {
	s, ok := lt.stats[entityID]
	if !ok {
		return LifetimeStats{}, false
	}
	delete(lt.stats, entityID)
	return *s, true
}

// Observe folds an event into the stats of the organisms it names.
func (lt *LifetimeTracker) Observe(ev Event) {
	switch ev.Type {
	case EventBirth:
		if s := lt.stats[ev.TargetID]; s != nil {
			s.Children++
		}
	case EventAttack:
		if s := lt.stats[ev.EntityID]; s != nil {
			s.Attacks++
		}
	case EventKill:
		if s := lt.stats[ev.EntityID]; s != nil {
			s.Kills++
		}
	case EventMeal:
		if s := lt.stats[ev.EntityID]; s != nil {
			s.MassEaten += ev.Amount
		}
	}
}

// Lifespan returns the number of ticks since birth.
func (s LifetimeStats) Lifespan(currentTick int32) int32 {
	return currentTick - s.BirthTick
}

// Count returns the number of tracked organisms.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
