package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Engine metrics
	TicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fibersense_engine_ticks_total",
			Help: "Total number of simulation ticks evaluated",
		},
	)

	BARIScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fibersense_bari_score",
			Help: "Current composite BARI risk score (0-1)",
		},
	)

	ThermalScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fibersense_thermal_score",
			Help: "Current thermal sub-score (0-1)",
		},
	)

	PressureScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fibersense_pressure_score",
			Help: "Current differential-pressure sub-score (0-1)",
		},
	)

	ActiveBreaches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fibersense_active_breaches",
			Help: "Number of currently active simulated breaches",
		},
	)

	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibersense_alerts_total",
			Help: "Total alerts raised, by severity level",
		},
		[]string{"level"},
	)

	// Transport metrics
	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fibersense_ws_clients",
			Help: "Connected WebSocket dashboard clients",
		},
	)

	MQTTPublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fibersense_mqtt_publish_total",
			Help: "Messages published to the facility MQTT bridge",
		},
		[]string{"status"}, // status: success, failed
	)
)
