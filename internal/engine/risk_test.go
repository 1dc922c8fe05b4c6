package engine

import (
	"testing"
)

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		bari float64
		want string
	}{
		{0, "ALL_CLEAR"},
		{0.299, "ALL_CLEAR"},
		{0.30, "ELEVATED"},
		{0.549, "ELEVATED"},
		{0.55, "HIGH_RISK"},
		{0.799, "HIGH_RISK"},
		{0.80, "CRITICAL"},
		{1.0, "CRITICAL"},
	}
	for _, tc := range cases {
		if got := classify(tc.bari); got != tc.want {
			t.Fatalf("classify(%.3f) = %s, want %s", tc.bari, got, tc.want)
		}
	}
}

func TestBariMonotonicInMaxDelta(t *testing.T) {
	e := newTestEngine(t)

	prev := -1.0
	for _, delta := range []float64{0, 2, 4, 6, 8, 12, 20} {
		copy(e.sensors, e.baseline)
		e.sensors[60] = e.baseline[60] + delta

		score := e.computeRisk()
		if score.BARI < 0 || score.BARI > 1 {
			t.Fatalf("bari = %.3f out of [0,1] at delta %.1f", score.BARI, delta)
		}
		if score.BARI < prev {
			t.Fatalf("bari decreased (%.3f -> %.3f) as maxDelta grew to %.1f", prev, score.BARI, delta)
		}
		prev = score.BARI
	}
}

func TestRiskScoresClamped(t *testing.T) {
	e := newTestEngine(t)

	// An absurd excursion must still clamp every score to 1.
	for i := range e.sensors {
		e.sensors[i] = e.baseline[i] + 500
	}
	for j := range e.pressure {
		e.pressure[j] = e.basePressure[j] - 500
	}

	score := e.computeRisk()
	if score.Thermal != 1 || score.Pressure != 1 || score.Rack != 1 || score.BARI != 1 {
		t.Fatalf("scores not clamped: %+v", score)
	}
}

func TestAshraeClass(t *testing.T) {
	cases := []struct {
		mean float64
		want string
	}{
		{21.0, "A1-Recommended"},
		{27.0, "A1-Recommended"},
		{30.0, "A1-Allowable"},
		{33.5, "A2"},
		{38.0, "A3"},
		{44.0, "Out-of-Envelope"},
	}
	for _, tc := range cases {
		if got := ashraeClass(tc.mean); got != tc.want {
			t.Fatalf("ashraeClass(%.1f) = %s, want %s", tc.mean, got, tc.want)
		}
	}
}

func TestTimeToLimit(t *testing.T) {
	e := newTestEngine(t)

	if got := e.timeToLimit(20); got != -1 {
		t.Fatalf("time-to-limit before first tick = %.1f, want -1", got)
	}

	e.haveRackMean = true
	e.lastRackMean = 20

	// Warming 0.5°C per tick from 20.5°C: 23 ticks to the 32°C limit at
	// 500ms each.
	if got := e.timeToLimit(20.5); got != 11.5 {
		t.Fatalf("time-to-limit while warming = %.2f, want 11.50", got)
	}

	e.lastRackMean = 21
	if got := e.timeToLimit(20.5); got != -1 {
		t.Fatalf("time-to-limit while cooling = %.1f, want -1", got)
	}

	if got := e.timeToLimit(33); got != 0 {
		t.Fatalf("time-to-limit past the limit = %.1f, want 0", got)
	}
}

func TestZoneAndLocationLabels(t *testing.T) {
	e := newTestEngine(t)

	cases := []struct {
		position int
		zone     string
	}{
		{0, "Quadrant A"},
		{29, "Quadrant A"},
		{30, "Quadrant B"},
		{119, "Quadrant D"},
	}
	for _, tc := range cases {
		if got := e.zoneLabel(tc.position); got != tc.zone {
			t.Fatalf("zoneLabel(%d) = %s, want %s", tc.position, got, tc.zone)
		}
	}

	if got := e.locationLabel(0); got != "Rack R01, 0m along containment fiber" {
		t.Fatalf("locationLabel(0) = %q", got)
	}
	if got := e.locationLabel(119); got != "Rack R08, 119m along containment fiber" {
		t.Fatalf("locationLabel(119) = %q", got)
	}
}
