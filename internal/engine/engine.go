// Package engine implements the simulated sensing-and-alerting core: it
// synthesizes per-sensor temperature and per-zone pressure readings, evolves
// presenter-induced breaches over time, derives the composite BARI risk
// score and maintains the bounded alert log.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"fibersense/internal/config"
	"fibersense/internal/logger"
	"fibersense/internal/metrics"
	"fibersense/internal/models"

	"github.com/google/uuid"
)

// ErrValidation marks synchronously rejected inputs; engine state is
// unchanged when it is returned.
var ErrValidation = errors.New("invalid input")

// Demo defaults applied when a breach request leaves them zero.
const (
	defaultBreachWidth      = 5.0
	defaultBreachIntensity  = 12.0
	defaultBreachDurationMS = 60000
)

// Sink receives the per-tick snapshot and every raised alert. Sinks are
// attached before Run and must not block.
type Sink interface {
	OnTick(snap models.Snapshot)
	OnAlert(alert models.Alert)
}

// Engine owns all simulation state. One ticker goroutine drives Tick; HTTP
// callers serialize with it on the engine mutex, so every reader sees a
// consistent snapshot and mutators never interleave with an in-progress tick.
type Engine struct {
	cfg       config.SimulationConfig
	log       *logger.Logger
	sessionID string

	mu  sync.Mutex
	now func() time.Time
	rng *rand.Rand

	baseline     []float64
	basePressure []float64
	sensors      []float64
	pressure     []float64
	rackPower    []float64

	breaches []models.Breach
	alerts   []models.Alert
	risk     models.RiskScore

	nextBreachID int64
	nextAlertID  int64

	lastRackMean float64
	haveRackMean bool
	lastTick     time.Time

	sinks []Sink
}

func New(cfg config.SimulationConfig, log *logger.Logger) *Engine {
	if cfg.SensorCount <= 0 {
		cfg.SensorCount = 120
	}
	if cfg.ZoneCount <= 0 {
		cfg.ZoneCount = 4
	}
	if cfg.RackCount <= 0 {
		cfg.RackCount = 8
	}
	if cfg.BaselineTemp == 0 {
		cfg.BaselineTemp = 19.2
	}
	if cfg.BaselinePressure == 0 {
		cfg.BaselinePressure = 12.5
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 500 * time.Millisecond
	}

	e := &Engine{
		cfg:       cfg,
		log:       log,
		sessionID: uuid.NewString(),
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	e.baseline = newThermalBaseline(e.rng, cfg.SensorCount, cfg.BaselineTemp)
	e.basePressure = newPressureBaseline(e.rng, cfg.ZoneCount, cfg.BaselinePressure)

	e.sensors = append([]float64(nil), e.baseline...)
	e.pressure = append([]float64(nil), e.basePressure...)
	e.rackPower = make([]float64, cfg.RackCount)
	for k := range e.rackPower {
		e.rackPower[k] = 65 + uniform(e.rng, 0, 28)
	}

	return e
}

// AttachSink registers a fan-out target. Not safe to call once Run started.
func (e *Engine) AttachSink(s Sink) {
	e.sinks = append(e.sinks, s)
}

func (e *Engine) SessionID() string {
	return e.sessionID
}

// Run drives the simulation at the configured cadence until ctx is done.
func (e *Engine) Run(ctx context.Context) {
	e.log.Info("Engine started: session %s, %d sensors, tick %s",
		e.sessionID, e.cfg.SensorCount, e.cfg.TickInterval)

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("Engine stopped")
			return
		case <-ticker.C:
			e.Step()
		}
	}
}

// Step evaluates one tick at the current clock and fans the results out.
func (e *Engine) Step() {
	snap, emitted := e.tick(e.now())
	for _, s := range e.sinks {
		s.OnTick(snap)
	}
	for _, a := range emitted {
		e.fanOutAlert(a)
	}
}

// tick is the single writer of engine state: expire breaches, evolve the
// arrays, recompute risk, then evaluate the threshold detector.
func (e *Engine) tick(now time.Time) (models.Snapshot, []models.Alert) {
	e.mu.Lock()

	e.pruneExpired(now)
	e.stepSensors()
	e.stepPressure()
	e.stepRackPower()
	e.risk = e.computeRisk()

	var emitted []models.Alert
	if a := e.evaluateAutoAlert(now); a != nil {
		e.appendAlert(*a)
		e.countAlert(*a)
		emitted = append(emitted, *a)
	}

	e.lastTick = now
	snap := e.snapshotLocked(now)
	e.mu.Unlock()

	metrics.TicksTotal.Inc()
	metrics.BARIScore.Set(snap.Risk.BARI)
	metrics.ThermalScore.Set(snap.Risk.Thermal)
	metrics.PressureScore.Set(snap.Risk.Pressure)
	metrics.ActiveBreaches.Set(float64(len(snap.ActiveBreaches)))

	for _, a := range emitted {
		e.log.Warn("Auto-alert [%s] %s", a.Level, a.Message)
	}

	return snap, emitted
}

// pruneExpired drops breaches past their lifetime. No end event is emitted;
// absence from the active set is the signal.
func (e *Engine) pruneExpired(now time.Time) {
	kept := e.breaches[:0]
	for _, b := range e.breaches {
		if now.Before(b.ExpiresAt()) {
			kept = append(kept, b)
		}
	}
	e.breaches = kept
}

// InduceBreach injects a containment failure at the given sensor position and
// unconditionally raises a BREACH alert; explicit presenter action bypasses
// the suppression window.
func (e *Engine) InduceBreach(req models.InduceBreachRequest) (models.Breach, error) {
	if req.Position < 0 || req.Position >= e.cfg.SensorCount {
		return models.Breach{}, fmt.Errorf("%w: position %d outside [0,%d)",
			ErrValidation, req.Position, e.cfg.SensorCount)
	}
	if req.Width < 0 || req.Intensity < 0 || req.DurationMS < 0 {
		return models.Breach{}, fmt.Errorf("%w: width, intensity and duration must not be negative", ErrValidation)
	}

	if req.Width == 0 {
		req.Width = defaultBreachWidth
	}
	if req.Intensity == 0 {
		req.Intensity = defaultBreachIntensity
	}
	if req.DurationMS == 0 {
		req.DurationMS = defaultBreachDurationMS
	}
	if req.Label == "" {
		req.Label = fmt.Sprintf("Manual breach @ sensor %d", req.Position)
	}

	e.mu.Lock()
	now := e.now()
	e.nextBreachID++
	b := models.Breach{
		ID:         e.nextBreachID,
		Position:   req.Position,
		Width:      req.Width,
		Intensity:  req.Intensity,
		DurationMS: req.DurationMS,
		CreatedAt:  now,
		Label:      req.Label,
	}
	e.breaches = append(e.breaches, b)

	a := e.newAlert(now, models.LevelBreach,
		fmt.Sprintf("Containment breach induced: %s", b.Label), b.Position)
	e.appendAlert(a)
	e.countAlert(a)
	active := len(e.breaches)
	e.mu.Unlock()

	metrics.ActiveBreaches.Set(float64(active))
	e.log.Warn("Breach %d induced at sensor %d (width %.1f, intensity %.1f)",
		b.ID, b.Position, b.Width, b.Intensity)
	e.fanOutAlert(a)

	return b, nil
}

// ClearBreaches removes every active breach and raises a single CLEAR alert.
func (e *Engine) ClearBreaches() {
	e.mu.Lock()
	now := e.now()
	cleared := len(e.breaches)
	e.breaches = nil

	a := e.newAlert(now, models.LevelClear,
		fmt.Sprintf("All breaches cleared (%d were active)", cleared), 0)
	a.Zone = "All zones"
	a.Location = "Site-wide"
	e.appendAlert(a)
	e.countAlert(a)
	e.mu.Unlock()

	metrics.ActiveBreaches.Set(0)
	e.log.Info("Cleared %d active breaches", cleared)
	e.fanOutAlert(a)
}

// AcknowledgeAlert marks an alert as seen. Display state only; it affects
// neither the risk score nor breach lifecycle.
func (e *Engine) AcknowledgeAlert(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.alerts {
		if e.alerts[i].ID == id {
			e.alerts[i].Acknowledged = true
			return nil
		}
	}
	return fmt.Errorf("alert %d not found", id)
}

// Snapshot returns a deep-copied view of current state; callers own the
// returned slices.
func (e *Engine) Snapshot() models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.now())
}

// Alerts returns a copy of the bounded alert log, newest first.
func (e *Engine) Alerts() []models.Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyAlerts(e.alerts)
}

// LastTick reports when the ticker last advanced the simulation; zero before
// the first tick.
func (e *Engine) LastTick() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastTick
}

func (e *Engine) TickInterval() time.Duration {
	return e.cfg.TickInterval
}

func (e *Engine) snapshotLocked(now time.Time) models.Snapshot {
	return models.Snapshot{
		Timestamp:      now,
		Sensors:        append([]float64(nil), e.sensors...),
		Baseline:       append([]float64(nil), e.baseline...),
		Pressure:       append([]float64(nil), e.pressure...),
		RackPower:      append([]float64(nil), e.rackPower...),
		ActiveBreaches: copyBreaches(e.breaches),
		Alerts:         copyAlerts(e.alerts),
		Risk:           e.risk,
		Site: models.Site{
			SessionID:  e.sessionID,
			Name:       e.cfg.SiteName,
			CO2Factor:  e.cfg.CO2Factor,
			EnergyRate: e.cfg.EnergyRate,
		},
	}
}

// Copies are never nil so the serving layer marshals empty lists as [].
func copyAlerts(in []models.Alert) []models.Alert {
	out := make([]models.Alert, len(in))
	copy(out, in)
	return out
}

func copyBreaches(in []models.Breach) []models.Breach {
	out := make([]models.Breach, len(in))
	copy(out, in)
	return out
}

func (e *Engine) countAlert(a models.Alert) {
	metrics.AlertsTotal.WithLabelValues(a.Level).Inc()
}

func (e *Engine) fanOutAlert(a models.Alert) {
	for _, s := range e.sinks {
		s.OnAlert(a)
	}
}
