package engine

import (
	"math"
	"testing"
	"time"

	"fibersense/internal/models"
)

func TestNoDriftWithoutBreaches(t *testing.T) {
	e := newTestEngine(t)
	t0 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	var snap models.Snapshot
	for i := 1; i <= 60; i++ {
		snap, _ = e.tick(t0.Add(time.Duration(i) * 500 * time.Millisecond))
	}

	for i := range snap.Sensors {
		if d := math.Abs(snap.Sensors[i] - snap.Baseline[i]); d > 0.5 {
			t.Fatalf("sensor %d drifted %.2f°C from baseline without breaches", i, d)
		}
	}
	for j := range snap.Pressure {
		if d := math.Abs(snap.Pressure[j] - e.basePressure[j]); d > 1.5 {
			t.Fatalf("zone %d pressure drifted %.2f Pa without breaches", j, d)
		}
	}
}

func TestBreachScenarioPosition32(t *testing.T) {
	e := newTestEngine(t)
	t0 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	cur := pinClock(e, t0)

	if _, err := e.InduceBreach(models.InduceBreachRequest{
		Position: 32, Intensity: 12, Width: 5, Label: "Hot-aisle panel lift",
	}); err != nil {
		t.Fatalf("induce: %v", err)
	}

	var snap models.Snapshot
	for i := 1; i <= 5; i++ {
		*cur = t0.Add(time.Duration(i) * 500 * time.Millisecond)
		snap, _ = e.tick(*cur)
	}

	if snap.Sensors[32] <= 23 {
		t.Fatalf("sensor 32 = %.2f°C after 5 ticks, want > 23", snap.Sensors[32])
	}
	if snap.Risk.Thermal <= 0 {
		t.Fatalf("thermal score = %.3f, want > 0", snap.Risk.Thermal)
	}
	if snap.Risk.Classification == models.ClassAllClear {
		t.Fatalf("classification = %s, want at least %s", snap.Risk.Classification, models.ClassElevated)
	}
}

func TestBreachRiseThenRelax(t *testing.T) {
	e := newTestEngine(t)
	t0 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	cur := pinClock(e, t0)

	if _, err := e.InduceBreach(models.InduceBreachRequest{Position: 80, DurationMS: 300000}); err != nil {
		t.Fatalf("induce: %v", err)
	}

	// Readings at the breach position must rise strictly while the low-pass
	// filter converges on the plume target.
	prev := e.Snapshot().Sensors[80]
	for i := 1; i <= 4; i++ {
		*cur = t0.Add(time.Duration(i) * 500 * time.Millisecond)
		snap, _ := e.tick(*cur)
		if snap.Sensors[80] <= prev {
			t.Fatalf("tick %d: sensor 80 did not rise (%.2f -> %.2f)", i, prev, snap.Sensors[80])
		}
		prev = snap.Sensors[80]
	}

	e.ClearBreaches()

	// After clearing, readings relax back toward baseline.
	var snap models.Snapshot
	for i := 5; i <= 50; i++ {
		*cur = t0.Add(time.Duration(i) * 500 * time.Millisecond)
		snap, _ = e.tick(*cur)
	}
	if d := math.Abs(snap.Sensors[80] - snap.Baseline[80]); d > 0.5 {
		t.Fatalf("sensor 80 still %.2f°C off baseline after relaxation", d)
	}
}

func TestPlumeShape(t *testing.T) {
	b := models.Breach{Position: 50, Width: 5, Intensity: 12}

	if got := plume(b, 50); math.Abs(got-12) > 1e-9 {
		t.Fatalf("plume at center = %.3f, want 12", got)
	}
	if l, r := plume(b, 47), plume(b, 53); math.Abs(l-r) > 1e-9 {
		t.Fatalf("plume not symmetric: %.4f vs %.4f", l, r)
	}
	if got := plume(b, 60); got != 0 {
		t.Fatalf("plume beyond 2x width = %.4f, want 0", got)
	}
	if in, out := plume(b, 51), plume(b, 55); in <= out {
		t.Fatalf("plume must decay with distance: %.4f then %.4f", in, out)
	}
}

func TestPressureDrawdownUnderBreach(t *testing.T) {
	e := newTestEngine(t)
	t0 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	cur := pinClock(e, t0)

	// Sensor 15 sits at the center of the first quadrant.
	if _, err := e.InduceBreach(models.InduceBreachRequest{Position: 15, DurationMS: 300000}); err != nil {
		t.Fatalf("induce: %v", err)
	}

	var snap models.Snapshot
	for i := 1; i <= 10; i++ {
		*cur = t0.Add(time.Duration(i) * 500 * time.Millisecond)
		snap, _ = e.tick(*cur)
	}

	if snap.Pressure[0] >= e.basePressure[0]-2 {
		t.Fatalf("zone 0 pressure %.2f did not drop under a centered breach (base %.2f)",
			snap.Pressure[0], e.basePressure[0])
	}
	if snap.Risk.Pressure <= 0 {
		t.Fatalf("pressure score = %.3f, want > 0", snap.Risk.Pressure)
	}
}
