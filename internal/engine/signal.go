package engine

import (
	"math"
	"math/rand"

	"fibersense/internal/models"
)

// First-order low-pass weights. Sensors keep 68% of the previous reading so a
// breach plume ramps in over 3-4 ticks instead of stepping.
const (
	sensorBlend   = 0.68
	pressureBlend = 0.58
	rackBlend     = 0.03
)

func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// newThermalBaseline builds the immutable reference profile: the configured
// floor temperature with a gentle sinusoidal variation along the fiber plus
// fixed per-sensor noise.
func newThermalBaseline(rng *rand.Rand, n int, base float64) []float64 {
	profile := make([]float64, n)
	for i := range profile {
		profile[i] = base + 0.4*math.Sin(float64(i)/7.5) + uniform(rng, -0.15, 0.15)
	}
	return profile
}

func newPressureBaseline(rng *rand.Rand, zones int, base float64) []float64 {
	profile := make([]float64, zones)
	for j := range profile {
		profile[j] = base + uniform(rng, -0.4, 0.4)
	}
	return profile
}

// plume returns the thermal contribution of breach b at sensor index i: a
// Gaussian centered on the breach position, truncated at twice the width.
func plume(b models.Breach, i int) float64 {
	d := float64(i - b.Position)
	if math.Abs(d) >= 2*b.Width {
		return 0
	}
	s := d / (0.5 * b.Width)
	return b.Intensity * math.Exp(-0.5*s*s)
}

func (e *Engine) stepSensors() {
	for i := range e.sensors {
		target := e.baseline[i] + uniform(e.rng, -0.1, 0.1)
		for _, b := range e.breaches {
			target += plume(b, i)
		}
		e.sensors[i] = sensorBlend*e.sensors[i] + (1-sensorBlend)*target
	}
}

func (e *Engine) zoneCenter(j int) float64 {
	size := len(e.sensors) / len(e.pressure)
	return float64(j*size) + float64(size)/2
}

// stepPressure evolves the per-quadrant differential pressure. An active
// breach draws pressure down in every zone within a third of the fiber
// length, proportional to its intensity and proximity.
func (e *Engine) stepPressure() {
	reach := float64(len(e.sensors)) / 3
	for j := range e.pressure {
		target := e.basePressure[j] + uniform(e.rng, -0.35, 0.35)
		for _, b := range e.breaches {
			dist := math.Abs(float64(b.Position) - e.zoneCenter(j))
			if prox := 1 - dist/reach; prox > 0 {
				target -= prox * (b.Intensity / 14) * 9
			}
		}
		e.pressure[j] = pressureBlend*e.pressure[j] + (1-pressureBlend)*target
	}
}

// stepRackPower walks each rack's draw toward a freshly sampled target in the
// 65-93 kW band. Cosmetic only; rack power never feeds the risk score.
func (e *Engine) stepRackPower() {
	for k := range e.rackPower {
		target := 65 + uniform(e.rng, 0, 28)
		e.rackPower[k] += rackBlend * (target - e.rackPower[k])
	}
}
