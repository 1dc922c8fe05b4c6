package engine

import (
	"fmt"
	"math"
	"time"

	"fibersense/internal/models"
)

const (
	// Auto-alert thresholds on the peak delta above baseline.
	warningDelta  = 4.5
	criticalDelta = 7.0

	// Minimum spacing between consecutive alerts; a sustained excursion
	// raises one alert per window, not one per tick.
	suppressionWindow = 9 * time.Second

	maxAlerts = 30

	// ASHRAE A1 allowable inlet limit used for the time-to-limit trend.
	ashraeAllowableLimit = 32.0
)

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// maxDelta returns the largest positive excursion above baseline and the
// sensor index where it occurs.
func (e *Engine) maxDelta() (float64, int) {
	maxD, peak := 0.0, 0
	for i := range e.sensors {
		if d := e.sensors[i] - e.baseline[i]; d > maxD {
			maxD, peak = d, i
		}
	}
	return maxD, peak
}

// computeRisk derives the composite score block from the current arrays. It
// is a pure function of current state except for the warming trend, which
// compares the rack-inlet mean against the previous tick.
func (e *Engine) computeRisk() models.RiskScore {
	maxD, _ := e.maxDelta()
	thermal := clamp01((maxD - 1) / 10)

	drop := 0.0
	for j := range e.pressure {
		drop += e.basePressure[j] - e.pressure[j]
	}
	drop /= float64(len(e.pressure))
	pressure := clamp01(drop / 16)

	// Rack-inlet mean over the central span; the end segments sit near the
	// containment doors and would bias the average.
	margin := len(e.sensors) / 12
	sum := 0.0
	for i := margin; i < len(e.sensors)-margin; i++ {
		sum += e.sensors[i]
	}
	rackMean := sum / float64(len(e.sensors)-2*margin)
	rack := clamp01((rackMean - e.cfg.BaselineTemp - 1) / 6)

	bari := clamp01(0.5*thermal + 0.3*pressure + 0.2*rack)

	score := models.RiskScore{
		Thermal:        thermal,
		Pressure:       pressure,
		Rack:           rack,
		BARI:           bari,
		Classification: classify(bari),
		ASHRAEClass:    ashraeClass(rackMean),
		TimeToLimitSec: e.timeToLimit(rackMean),
	}

	e.lastRackMean = rackMean
	e.haveRackMean = true
	return score
}

// Classification bands are inclusive-lower, exclusive-upper; the final band
// includes 1.0.
func classify(bari float64) string {
	switch {
	case bari < 0.30:
		return models.ClassAllClear
	case bari < 0.55:
		return models.ClassElevated
	case bari < 0.80:
		return models.ClassHighRisk
	default:
		return models.ClassCritical
	}
}

func ashraeClass(rackMean float64) string {
	switch {
	case rackMean <= 27:
		return "A1-Recommended"
	case rackMean <= 32:
		return "A1-Allowable"
	case rackMean <= 35:
		return "A2"
	case rackMean <= 40:
		return "A3"
	default:
		return "Out-of-Envelope"
	}
}

// timeToLimit extrapolates the current per-tick warming slope of the
// rack-inlet mean out to the A1 allowable limit. Returns -1 when flat or
// cooling, 0 once the limit is passed.
func (e *Engine) timeToLimit(rackMean float64) float64 {
	if rackMean >= ashraeAllowableLimit {
		return 0
	}
	if !e.haveRackMean {
		return -1
	}
	slope := rackMean - e.lastRackMean
	if slope < 1e-4 {
		return -1
	}
	ticks := (ashraeAllowableLimit - rackMean) / slope
	return ticks * e.cfg.TickInterval.Seconds()
}

// evaluateAutoAlert raises a threshold alert for a sustained thermal
// excursion, unless any alert was raised within the suppression window.
func (e *Engine) evaluateAutoAlert(now time.Time) *models.Alert {
	maxD, peak := e.maxDelta()
	if maxD <= warningDelta {
		return nil
	}
	if len(e.alerts) > 0 && now.Sub(e.alerts[0].Timestamp) < suppressionWindow {
		return nil
	}

	level := models.LevelWarning
	if maxD > criticalDelta {
		level = models.LevelCritical
	}
	a := e.newAlert(now, level,
		fmt.Sprintf("Sustained thermal excursion: +%.1f°C above baseline at sensor %d", maxD, peak), peak)
	return &a
}

func (e *Engine) newAlert(now time.Time, level, message string, position int) models.Alert {
	e.nextAlertID++
	return models.Alert{
		ID:                e.nextAlertID,
		Timestamp:         now,
		Level:             level,
		Message:           message,
		Zone:              e.zoneLabel(position),
		Location:          e.locationLabel(position),
		RecommendedAction: recommendedAction(level),
	}
}

// appendAlert inserts at the head and truncates the log to the retention cap.
func (e *Engine) appendAlert(a models.Alert) {
	e.alerts = append([]models.Alert{a}, e.alerts...)
	if len(e.alerts) > maxAlerts {
		e.alerts = e.alerts[:maxAlerts]
	}
}

func (e *Engine) zoneLabel(position int) string {
	size := len(e.sensors) / len(e.pressure)
	zone := position / size
	if zone >= len(e.pressure) {
		zone = len(e.pressure) - 1
	}
	return fmt.Sprintf("Quadrant %c", rune('A'+zone))
}

func (e *Engine) locationLabel(position int) string {
	span := len(e.sensors) / e.cfg.RackCount
	rack := position / span
	if rack >= e.cfg.RackCount {
		rack = e.cfg.RackCount - 1
	}
	return fmt.Sprintf("Rack R%02d, %dm along containment fiber", rack+1, position)
}

func recommendedAction(level string) string {
	switch level {
	case models.LevelCritical:
		return "Dispatch facilities team and verify aisle containment integrity"
	case models.LevelBreach:
		return "Isolate the affected aisle and check blanking panels"
	case models.LevelClear:
		return "No action required; resume normal monitoring"
	default:
		return "Inspect containment panels in the affected quadrant"
	}
}
