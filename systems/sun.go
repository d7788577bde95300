package systems

import "github.com/pthm-cable/terrarium/config"

// Sun is the environmental light source for photosynthesis.
// The first half of each day is daylight.
type Sun struct {
	Output          float64
	NightRatio      float64
	TimeUnitsPerDay int

	timeUnit int // units elapsed in the current day
	day      int
}

// NewSun creates a sun at the start of day zero.
func NewSun(sun config.SunConfig, time config.TimeConfig) *Sun {
	return &Sun{
		Output:          sun.Output,
		NightRatio:      sun.NightRatio,
		TimeUnitsPerDay: time.TimeUnitsPerDay,
	}
}

// Advance moves the sun one time unit and reports whether a new day began.
func (s *Sun) Advance() bool {
	s.timeUnit++
	if s.timeUnit >= s.TimeUnitsPerDay {
		s.timeUnit = 0
		s.day++
		return true
	}
	return false
}

// Day returns the number of completed days.
func (s *Sun) Day() int { return s.day }

// TimeOfDay returns the time unit within the current day.
func (s *Sun) TimeOfDay() int { return s.timeUnit }

// IsDay reports whether the sun is up.
func (s *Sun) IsDay() bool {
	return s.timeUnit < (s.TimeUnitsPerDay+1)/2
}

// DayNightEnergyRatio returns the fraction of full output available now.
func (s *Sun) DayNightEnergyRatio() float64 {
	if s.IsDay() {
		return 1
	}
	return s.NightRatio
}

// EnergyForPlant returns the energy per unit leaf area for this time unit.
func (s *Sun) EnergyForPlant() float64 {
	return s.Output * s.DayNightEnergyRatio()
}
