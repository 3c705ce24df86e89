// Package units provides shared constants and conversions for speed and
// distance units used across the tracking and flight-prediction pipeline.
// Internal computation is always SI (metres, seconds, m/s); golf-facing
// summaries are reported in yards and mph.
package units

// Speed unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// Conversion factors.
const (
	MetersPerSecondToMPH = 2.2369362920544
	MPHToMetersPerSecond = 0.44704
	MetersToYardsFactor  = 1.09361
	FeetPerMeter         = 3.28084
)

// ValidUnits contains all valid speed unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

// ConvertSpeed converts a speed from meters per second to the target units.
// Simulation and tracking state hold speeds in m/s (meters per second).
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPS:
		return speedMPS
	case MPH:
		return speedMPS * MetersPerSecondToMPH
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// MPHToMPS converts miles per hour to meters per second.
func MPHToMPS(mph float64) float64 {
	return mph * MPHToMetersPerSecond
}

// MPSToMPH converts meters per second to miles per hour.
func MPSToMPH(mps float64) float64 {
	return mps * MetersPerSecondToMPH
}

// MetersToYards converts a distance in metres to yards.
func MetersToYards(m float64) float64 {
	return m * MetersToYardsFactor
}

// MetersToFeet converts a distance in metres to feet.
func MetersToFeet(m float64) float64 {
	return m * FeetPerMeter
}
