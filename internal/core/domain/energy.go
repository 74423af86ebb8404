package domain

type EnergyBand string

const (
	EnergyLow    EnergyBand = "low"
	EnergyMedium EnergyBand = "medium"
	EnergyHigh   EnergyBand = "high"
	EnergyMax    EnergyBand = "max"
)

// Banding thresholds, ascending. A potential-points value below the first
// threshold is low, below the second medium, below the third high, else max.
const (
	energyMediumAt = 40
	energyHighAt   = 60
	energyMaxAt    = 80
)

// EnergyState is the presentational derivation of a potential-points value.
// It carries no logic of its own; clients render it verbatim.
type EnergyState struct {
	Band      EnergyBand `json:"band"`
	Fill      float64    `json:"fill"`
	Breathing bool       `json:"breathing"`
	Pulsing   bool       `json:"pulsing"`
	Particles bool       `json:"particles"`
	Glow      float64    `json:"glow"`
}

func EnergyForPoints(points int) EnergyState {
	switch {
	case points < energyMediumAt:
		return EnergyState{Band: EnergyLow, Fill: 0.25, Glow: 0.2}
	case points < energyHighAt:
		return EnergyState{Band: EnergyMedium, Fill: 0.5, Breathing: true, Glow: 0.45}
	case points < energyMaxAt:
		return EnergyState{Band: EnergyHigh, Fill: 0.75, Breathing: true, Pulsing: true, Glow: 0.7}
	default:
		return EnergyState{Band: EnergyMax, Fill: 1.0, Breathing: true, Pulsing: true, Particles: true, Glow: 1.0}
	}
}
