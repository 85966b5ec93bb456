// Package fan maps detected person counts to discrete fan speeds.
package fan

// Speed is a discrete fan-speed level.
type Speed int

const (
	// Off means nobody is in the room.
	Off Speed = iota
	// Low is used for a single person.
	Low
	// Medium is used for two people.
	Medium
	// High is used for three or more people.
	High
)

var speedNames = [...]string{
	Off:    "Off",
	Low:    "Low",
	Medium: "Medium",
	High:   "High",
}

// FromCount returns the fan speed for the given number of detected persons.
// Every frame is evaluated on its own: there is no hysteresis or smoothing.
// Negative counts are treated as an empty room.
func FromCount(persons int) Speed {
	switch {
	case persons <= 0:
		return Off
	case persons == 1:
		return Low
	case persons == 2:
		return Medium
	default:
		return High
	}
}

// String returns the display label of the speed.
func (s Speed) String() string {
	if s < Off || s > High {
		return "Unknown"
	}
	return speedNames[s]
}

// Level returns the ordinal of the speed, 0 (Off) through 3 (High).
func (s Speed) Level() int {
	return int(s)
}

// Parse converts a label produced by String back into a Speed.
func Parse(label string) (Speed, bool) {
	for i, name := range speedNames {
		if name == label {
			return Speed(i), true
		}
	}
	return Off, false
}
