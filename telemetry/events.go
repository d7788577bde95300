// Package telemetry provides simulation events, window statistics, bookmarks and CSV output.
package telemetry

import "github.com/pthm-cable/terrarium/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventBirth EventType = iota
	EventDeath
	EventAttack
	EventKill
	EventMating
	EventMeal
	EventDecayed
)

// String returns the snake_case name of an event type.
func (t EventType) String() string {
	names := [...]string{"birth", "death", "attack", "kill", "mating", "meal", "decayed"}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID uint32
	Kind     components.Kind

	// Optional fields depending on event type
	TargetID uint32                 // victim, partner, parent or carcass
	Amount   float64                // damage, mass eaten, or mass at death
	Cause    components.DamageCause // death events only
}

// NewBirthEvent creates a birth event. The first parent is stored in TargetID.
func NewBirthEvent(tick int32, childID, parentID uint32, kind components.Kind) Event {
	return Event{
		Type:     EventBirth,
		Tick:     tick,
		EntityID: childID,
		Kind:     kind,
		TargetID: parentID,
	}
}

// NewDeathEvent creates a death event with the remaining mass.
func NewDeathEvent(tick int32, entityID uint32, kind components.Kind, cause components.DamageCause, mass float64) Event {
	return Event{
		Type:     EventDeath,
		Tick:     tick,
		EntityID: entityID,
		Kind:     kind,
		Cause:    cause,
		Amount:   mass,
	}
}

// NewAttackEvent creates an attack event.
func NewAttackEvent(tick int32, attackerID, victimID uint32, damage float64) Event {
	return Event{
		Type:     EventAttack,
		Tick:     tick,
		EntityID: attackerID,
		Kind:     components.KindAnimal,
		TargetID: victimID,
		Amount:   damage,
	}
}

// NewKillEvent creates a kill event (victim died from an attack).
func NewKillEvent(tick int32, attackerID, victimID uint32) Event {
	return Event{
		Type:     EventKill,
		Tick:     tick,
		EntityID: attackerID,
		Kind:     components.KindAnimal,
		TargetID: victimID,
	}
}

// NewMatingEvent creates a mating event for either kind.
func NewMatingEvent(tick int32, parent1, parent2 uint32, kind components.Kind) Event {
	return Event{
		Type:     EventMating,
		Tick:     tick,
		EntityID: parent1,
		Kind:     kind,
		TargetID: parent2,
	}
}

// NewMealEvent creates a carcass feeding event.
func NewMealEvent(tick int32, eaterID, carcassID uint32, mass float64) Event {
	return Event{
		Type:     EventMeal,
		Tick:     tick,
		EntityID: eaterID,
		Kind:     components.KindAnimal,
		TargetID: carcassID,
		Amount:   mass,
	}
}

// NewDecayedEvent creates an event for a carcass that rotted away.
func NewDecayedEvent(tick int32, carcassID uint32, kind components.Kind) Event {
	return Event{
		Type:     EventDecayed,
		Tick:     tick,
		EntityID: carcassID,
		Kind:     kind,
	}
}

// EventRecord is a flat struct for CSV export of events.
type EventRecord struct {
	Tick     int32   `csv:"tick"`
	Type     string  `csv:"type"`
	EntityID uint32  `csv:"entity"`
	Kind     string  `csv:"kind"`
	TargetID uint32  `csv:"target"`
	Amount   float64 `csv:"amount"`
	Cause    string  `csv:"cause"`
}

// Record converts an event to its CSV form.
func (e Event) Record() EventRecord {
	r := EventRecord{
		Tick:     e.Tick,
		Type:     e.Type.String(),
		EntityID: e.EntityID,
		Kind:     e.Kind.String(),
		TargetID: e.TargetID,
		Amount:   e.Amount,
	}
	if e.Type == EventDeath {
		r.Cause = e.Cause.String()
	}
	return r
}
