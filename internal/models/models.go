// internal/models/models.go

package models

import (
	"time"
)

// Alert severity levels.
const (
	LevelWarning  = "WARNING"
	LevelCritical = "CRITICAL"
	LevelBreach   = "BREACH"
	LevelClear    = "CLEAR"
)

// Composite risk classifications, thresholded on the BARI score.
const (
	ClassAllClear = "ALL_CLEAR"
	ClassElevated = "ELEVATED"
	ClassHighRisk = "HIGH_RISK"
	ClassCritical = "CRITICAL"
)

// Breach is a simulated containment failure injected by the presenter.
// Its thermal plume is centered on Position and decays over Width sensors;
// the breach expires DurationMS after CreatedAt.
type Breach struct {
	ID         int64     `json:"id"`
	Position   int       `json:"position"`
	Width      float64   `json:"width"`
	Intensity  float64   `json:"intensity"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
	Label      string    `json:"label"`
}

// ExpiresAt returns the instant the breach leaves the active set.
func (b Breach) ExpiresAt() time.Time {
	return b.CreatedAt.Add(time.Duration(b.DurationMS) * time.Millisecond)
}

type Alert struct {
	ID                int64     `json:"id"`
	Timestamp         time.Time `json:"timestamp"`
	Level             string    `json:"level"`
	Message           string    `json:"message"`
	Zone              string    `json:"zone"`
	Location          string    `json:"location"`
	RecommendedAction string    `json:"recommended_action"`
	Acknowledged      bool      `json:"acknowledged"`
}

// RiskScore holds the derived scores recomputed on every tick. All sub-scores
// and BARI are in [0,1]; the UI renders BARI as 0-100.
type RiskScore struct {
	Thermal        float64 `json:"thermal_score"`
	Pressure       float64 `json:"pressure_score"`
	Rack           float64 `json:"rack_score"`
	BARI           float64 `json:"bari"`
	Classification string  `json:"classification"`
	ASHRAEClass    string  `json:"ashrae_class"`
	// TimeToLimitSec estimates seconds until the rack-inlet mean reaches the
	// ASHRAE A1 allowable limit at the current warming rate; -1 when flat or
	// cooling, 0 when already past the limit.
	TimeToLimitSec float64 `json:"time_to_limit_sec"`
}

// Site carries the per-run identity and the rate constants the presentation
// layer needs for its ROI derivations.
type Site struct {
	SessionID  string  `json:"session_id"`
	Name       string  `json:"name"`
	CO2Factor  float64 `json:"co2_factor_kg_per_kwh"`
	EnergyRate float64 `json:"energy_rate_per_kwh"`
}

// Snapshot is the consistent per-tick view handed to external readers. All
// slices are copies owned by the caller.
type Snapshot struct {
	Timestamp      time.Time `json:"timestamp"`
	Sensors        []float64 `json:"sensors"`
	Baseline       []float64 `json:"baseline"`
	Pressure       []float64 `json:"pressure"`
	RackPower      []float64 `json:"rack_power"`
	ActiveBreaches []Breach  `json:"active_breaches"`
	Alerts         []Alert   `json:"alerts"`
	Risk           RiskScore `json:"risk"`
	Site           Site      `json:"site"`
}

// InduceBreachRequest is the body of POST /breaches. Width, Intensity and
// DurationMS are optional; zero values select the demo defaults.
type InduceBreachRequest struct {
	Position   int     `json:"position"`
	Label      string  `json:"label"`
	Width      float64 `json:"width"`
	Intensity  float64 `json:"intensity"`
	DurationMS int64   `json:"duration_ms"`
}

type TokenRequest struct {
	Passphrase string `json:"passphrase"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  struct {
		Engine bool `json:"engine"`
		MQTT   bool `json:"mqtt"`
	} `json:"services"`
}
