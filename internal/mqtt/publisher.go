// Package mqtt bridges the demo engine to a facility broker for DCIM
// integration demos. Outbound only: alerts and the per-tick risk block are
// published; nothing is ever consumed.
package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"fibersense/internal/config"
	"fibersense/internal/logger"
	"fibersense/internal/metrics"
	"fibersense/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Publisher struct {
	client    mqtt.Client
	cfg       *config.MQTTConfig
	log       *logger.Logger
	mu        sync.RWMutex
	connected bool
}

type PublisherConfig struct {
	MQTT   *config.MQTTConfig
	Logger *logger.Logger
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	p := &Publisher{
		cfg: cfg.MQTT,
		log: cfg.Logger,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Broker, cfg.MQTT.Port))
	opts.SetClientID(cfg.MQTT.ClientID)
	opts.SetKeepAlive(cfg.MQTT.KeepAlive)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(cfg.MQTT.ConnectTimeout)
	opts.SetAutoReconnect(cfg.MQTT.AutoReconnect)
	opts.SetCleanSession(true)

	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}

	opts.SetOnConnectHandler(p.onConnect)
	opts.SetConnectionLostHandler(p.onConnectionLost)

	p.client = mqtt.NewClient(opts)

	return p, nil
}

func (p *Publisher) Connect() error {
	p.log.Info("Connecting to MQTT broker: %s:%d", p.cfg.Broker, p.cfg.Port)

	token := p.client.Connect()
	if !token.WaitTimeout(p.cfg.ConnectTimeout) {
		return fmt.Errorf("connection timeout after %v", p.cfg.ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	p.mu.Lock()
	p.connected = true
	p.mu.Unlock()

	p.log.Info("Connected to MQTT broker")
	return nil
}

func (p *Publisher) Disconnect() {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()

	p.client.Disconnect(250)
	p.log.Info("Disconnected from MQTT broker")
}

func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connected && p.client.IsConnected()
}

func (p *Publisher) publishJSON(topic string, data interface{}) error {
	if !p.IsConnected() {
		return fmt.Errorf("not connected to broker")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	token := p.client.Publish(topic, p.cfg.QoS, p.cfg.RetainMessages, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout for topic: %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish failed for topic %s: %w", topic, err)
	}

	return nil
}

// OnTick mirrors the derived risk block to the facility broker.
func (p *Publisher) OnTick(snap models.Snapshot) {
	if err := p.publishJSON(p.cfg.RiskTopic, snap.Risk); err != nil {
		metrics.MQTTPublishTotal.WithLabelValues("failed").Inc()
		p.log.Debug("Risk publish skipped: %v", err)
		return
	}
	metrics.MQTTPublishTotal.WithLabelValues("success").Inc()
}

// OnAlert mirrors each raised alert to the facility broker.
func (p *Publisher) OnAlert(alert models.Alert) {
	if err := p.publishJSON(p.cfg.AlertTopic, alert); err != nil {
		metrics.MQTTPublishTotal.WithLabelValues("failed").Inc()
		p.log.Error("Alert publish failed: %v", err)
		return
	}
	metrics.MQTTPublishTotal.WithLabelValues("success").Inc()
}

func (p *Publisher) onConnect(client mqtt.Client) {
	p.mu.Lock()
	p.connected = true
	p.mu.Unlock()
	p.log.Info("MQTT connection established")
}

func (p *Publisher) onConnectionLost(client mqtt.Client, err error) {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()
	p.log.Error("MQTT connection lost: %v", err)
}
