package components

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := [...]string{"Plant", "Animal"}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// String returns the display name for a Diet.
func (d Diet) String() string {
	names := [...]string{"Herbivore", "Carnivore", "Omnivore"}
	if int(d) < len(names) {
		return names[d]
	}
	return "Unknown"
}

// String returns the display name for an ActionKind.
func (a ActionKind) String() string {
	names := ActionKindNames()
	if int(a) < len(names) {
		return names[a]
	}
	return "Unknown"
}

// ActionKindNames returns the display names for all action kinds.
// The order matches the ActionKind constants.
func ActionKindNames() []string {
	return []string{"DoingNothing", "GoingTo", "Eating", "Attacking", "Mating"}
}

// String returns the display name for a HungerLevel.
func (h HungerLevel) String() string {
	if h == Satiated {
		return "Satiated"
	}
	return "Hungry"
}

// String returns the display name for a MaturityLevel.
func (m MaturityLevel) String() string {
	if m == Adult {
		return "Adult"
	}
	return "Young"
}

// String returns the display name for a DamageCause.
func (c DamageCause) String() string {
	names := [...]string{"None", "Starvation", "Killed", "Reproduction"}
	if int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// String returns the display name for a Biome.
func (b Biome) String() string {
	names := [...]string{"Water", "Sand", "Grass", "Forest", "Rock"}
	if int(b) < len(names) {
		return names[b]
	}
	return "Unknown"
}

// String returns the display name for an OccupantKind.
func (o OccupantKind) String() string {
	names := [...]string{"Plants", "Animals", "PlantCarcasses", "AnimalCarcasses"}
	if int(o) < len(names) {
		return names[o]
	}
	return "Unknown"
}
