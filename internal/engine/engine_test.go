package engine

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"fibersense/internal/config"
	"fibersense/internal/logger"
	"fibersense/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	log, err := logger.New(logger.Config{Level: logger.FATAL})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	e := New(config.SimulationConfig{}, log)
	e.rng = rand.New(rand.NewSource(7))
	return e
}

// pinClock fixes the engine clock to a settable instant.
func pinClock(e *Engine, start time.Time) *time.Time {
	cur := start
	e.now = func() time.Time { return cur }
	return &cur
}

func TestBreachExpiryBoundary(t *testing.T) {
	e := newTestEngine(t)
	t0 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	pinClock(e, t0)

	if _, err := e.InduceBreach(models.InduceBreachRequest{Position: 60, DurationMS: 60000}); err != nil {
		t.Fatalf("induce: %v", err)
	}

	snap, _ := e.tick(t0.Add(59*time.Second + 999*time.Millisecond))
	if len(snap.ActiveBreaches) != 1 {
		t.Fatalf("breach should be active just before expiry, got %d active", len(snap.ActiveBreaches))
	}

	snap, _ = e.tick(t0.Add(60 * time.Second))
	if len(snap.ActiveBreaches) != 0 {
		t.Fatalf("breach should be expired at createdAt+duration, got %d active", len(snap.ActiveBreaches))
	}
}

func TestClearAllEmitsSingleClear(t *testing.T) {
	e := newTestEngine(t)
	t0 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	pinClock(e, t0)

	for _, pos := range []int{10, 60, 110} {
		if _, err := e.InduceBreach(models.InduceBreachRequest{Position: pos}); err != nil {
			t.Fatalf("induce at %d: %v", pos, err)
		}
	}

	e.ClearBreaches()

	snap := e.Snapshot()
	if len(snap.ActiveBreaches) != 0 {
		t.Fatalf("active breaches after clear = %d, want 0", len(snap.ActiveBreaches))
	}
	if snap.Alerts[0].Level != models.LevelClear {
		t.Fatalf("head of alert log = %s, want %s", snap.Alerts[0].Level, models.LevelClear)
	}
	clears := 0
	for _, a := range snap.Alerts {
		if a.Level == models.LevelClear {
			clears++
		}
	}
	if clears != 1 {
		t.Fatalf("CLEAR alerts = %d, want 1", clears)
	}
}

func TestAutoAlertSuppression(t *testing.T) {
	e := newTestEngine(t)
	t0 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	cur := pinClock(e, t0)

	// The BREACH alert raised here at t0 starts the suppression window.
	if _, err := e.InduceBreach(models.InduceBreachRequest{Position: 40, DurationMS: 120000}); err != nil {
		t.Fatalf("induce: %v", err)
	}

	autoAt := []time.Duration{}
	for i := 1; i <= 36; i++ {
		offset := time.Duration(i) * 500 * time.Millisecond
		*cur = t0.Add(offset)
		_, emitted := e.tick(*cur)
		for _, a := range emitted {
			if a.Level == models.LevelWarning || a.Level == models.LevelCritical {
				autoAt = append(autoAt, offset)
			}
		}
	}

	if len(autoAt) != 2 {
		t.Fatalf("auto-alerts over 18s = %d (%v), want exactly 2", len(autoAt), autoAt)
	}
	if autoAt[0] != 9*time.Second || autoAt[1] != 18*time.Second {
		t.Fatalf("auto-alerts at %v, want [9s 18s]", autoAt)
	}
}

func TestInduceValidation(t *testing.T) {
	e := newTestEngine(t)

	cases := []models.InduceBreachRequest{
		{Position: -1},
		{Position: 120},
		{Position: 50, Intensity: -3},
		{Position: 50, DurationMS: -1},
	}
	for _, req := range cases {
		if _, err := e.InduceBreach(req); !errors.Is(err, ErrValidation) {
			t.Fatalf("InduceBreach(%+v) err = %v, want ErrValidation", req, err)
		}
	}

	snap := e.Snapshot()
	if len(snap.ActiveBreaches) != 0 || len(snap.Alerts) != 0 {
		t.Fatalf("rejected requests must leave engine state unchanged, got %d breaches %d alerts",
			len(snap.ActiveBreaches), len(snap.Alerts))
	}
}

func TestInduceDefaults(t *testing.T) {
	e := newTestEngine(t)

	b, err := e.InduceBreach(models.InduceBreachRequest{Position: 32})
	if err != nil {
		t.Fatalf("induce: %v", err)
	}
	if b.Width != defaultBreachWidth || b.Intensity != defaultBreachIntensity || b.DurationMS != defaultBreachDurationMS {
		t.Fatalf("defaults not applied: %+v", b)
	}
	if b.Label == "" {
		t.Fatal("default label not applied")
	}
}

func TestAlertLogBoundedAndMonotonic(t *testing.T) {
	e := newTestEngine(t)
	t0 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	pinClock(e, t0)

	for i := 0; i < 40; i++ {
		if _, err := e.InduceBreach(models.InduceBreachRequest{Position: i}); err != nil {
			t.Fatalf("induce %d: %v", i, err)
		}
	}

	alerts := e.Alerts()
	if len(alerts) != 30 {
		t.Fatalf("alert log length = %d, want 30", len(alerts))
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i-1].ID <= alerts[i].ID {
			t.Fatalf("alert ids must strictly increase toward the head: %d then %d",
				alerts[i].ID, alerts[i-1].ID)
		}
	}
	if alerts[0].ID != 40 {
		t.Fatalf("newest alert id = %d, want 40", alerts[0].ID)
	}
}

func TestAcknowledgeAlert(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.InduceBreach(models.InduceBreachRequest{Position: 5}); err != nil {
		t.Fatalf("induce: %v", err)
	}

	id := e.Alerts()[0].ID
	if err := e.AcknowledgeAlert(id); err != nil {
		t.Fatalf("acknowledge %d: %v", id, err)
	}
	if !e.Alerts()[0].Acknowledged {
		t.Fatal("alert not marked acknowledged")
	}

	if err := e.AcknowledgeAlert(9999); err == nil {
		t.Fatal("acknowledging an unknown id should fail")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	e := newTestEngine(t)

	snap := e.Snapshot()
	snap.Sensors[0] = 999
	snap.Pressure[0] = 999
	snap.Baseline[0] = 999

	fresh := e.Snapshot()
	if fresh.Sensors[0] == 999 || fresh.Pressure[0] == 999 || fresh.Baseline[0] == 999 {
		t.Fatal("snapshot slices must not alias engine state")
	}
}

func TestSessionIdentity(t *testing.T) {
	e := newTestEngine(t)
	if e.SessionID() == "" {
		t.Fatal("session id must be set at construction")
	}
	if got := e.Snapshot().Site.SessionID; got != e.SessionID() {
		t.Fatalf("snapshot session id = %q, want %q", got, e.SessionID())
	}
}
