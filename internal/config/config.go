package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fibersense/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	MQTT       MQTTConfig
	Security   SecurityConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	Environment     string
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxHeaderBytes  int
}

// SimulationConfig holds the engine construction parameters. Defaults match
// the reference demo site: a 120-sensor fiber loop, four containment
// quadrants and eight monitored racks.
type SimulationConfig struct {
	SiteName         string
	SensorCount      int
	ZoneCount        int
	RackCount        int
	BaselineTemp     float64
	BaselinePressure float64
	TickInterval     time.Duration
	CO2Factor        float64
	EnergyRate       float64
}

// MQTTConfig configures the optional outbound bridge to a facility broker.
// The bridge is disabled unless Broker is set.
type MQTTConfig struct {
	Broker         string
	Port           int
	ClientID       string
	Username       string
	Password       string
	AlertTopic     string
	RiskTopic      string
	QoS            byte
	RetainMessages bool
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	AutoReconnect  bool
}

type SecurityConfig struct {
	PresenterPassphrase string
	JWTSecret           string
	JWTExpirationHours  int
	CORSAllowedOrigins  []string
	CORSAllowedMethods  []string
	RateLimitPerMinute  int
	EnableRateLimit     bool
}

type LoggingConfig struct {
	Level     logger.Level
	Mode      logger.Mode
	FilePath  string
	UseColors bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server:     loadServerConfig(),
		Simulation: loadSimulationConfig(),
		MQTT:       loadMQTTConfig(),
		Security:   loadSecurityConfig(),
		Logging:    loadLoggingConfig(),
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Port:            getEnvAsInt("SERVER_PORT", 8080),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", "15s"),
		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", "10s"),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", "10s"),
		MaxHeaderBytes:  getEnvAsInt("MAX_HEADER_BYTES", 1048576),
	}
}

func loadSimulationConfig() SimulationConfig {
	return SimulationConfig{
		SiteName:         getEnv("SITE_NAME", "Demo Data Hall A"),
		SensorCount:      getEnvAsInt("SIM_SENSOR_COUNT", 120),
		ZoneCount:        getEnvAsInt("SIM_ZONE_COUNT", 4),
		RackCount:        getEnvAsInt("SIM_RACK_COUNT", 8),
		BaselineTemp:     getEnvAsFloat("SIM_BASELINE_TEMP", 19.2),
		BaselinePressure: getEnvAsFloat("SIM_BASELINE_PRESSURE", 12.5),
		TickInterval:     getEnvAsDuration("SIM_TICK_INTERVAL", "500ms"),
		CO2Factor:        getEnvAsFloat("SIM_CO2_FACTOR", 0.39),
		EnergyRate:       getEnvAsFloat("SIM_ENERGY_RATE", 0.12),
	}
}

func loadMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Broker:         getEnv("MQTT_BROKER", ""),
		Port:           getEnvAsInt("MQTT_PORT", 1883),
		ClientID:       getEnv("MQTT_CLIENT_ID", "fibersense-demo"),
		Username:       getEnv("MQTT_USERNAME", ""),
		Password:       getEnv("MQTT_PASSWORD", ""),
		AlertTopic:     getEnv("MQTT_ALERT_TOPIC", "fibersense/demo/alerts"),
		RiskTopic:      getEnv("MQTT_RISK_TOPIC", "fibersense/demo/risk"),
		QoS:            byte(getEnvAsInt("MQTT_QOS", 1)),
		RetainMessages: getEnvAsBool("MQTT_RETAIN", false),
		KeepAlive:      getEnvAsDuration("MQTT_KEEP_ALIVE", "60s"),
		ConnectTimeout: getEnvAsDuration("MQTT_CONNECT_TIMEOUT", "10s"),
		AutoReconnect:  getEnvAsBool("MQTT_AUTO_RECONNECT", true),
	}
}

func loadSecurityConfig() SecurityConfig {
	origins := getEnv("CORS_ALLOWED_ORIGINS", "*")
	methods := getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")

	return SecurityConfig{
		PresenterPassphrase: getEnv("PRESENTER_PASSPHRASE", ""),
		JWTSecret:           getEnv("JWT_SECRET", "fibersense_demo_secret_change_in_production"),
		JWTExpirationHours:  getEnvAsInt("JWT_EXPIRATION_HOURS", 8),
		CORSAllowedOrigins:  strings.Split(origins, ","),
		CORSAllowedMethods:  strings.Split(methods, ","),
		RateLimitPerMinute:  getEnvAsInt("RATE_LIMIT_PER_MINUTE", 300),
		EnableRateLimit:     getEnvAsBool("ENABLE_RATE_LIMIT", true),
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:     logger.ParseLevel(getEnv("LOG_LEVEL", "info")),
		Mode:      logger.ParseMode(getEnv("LOG_MODE", "normal")),
		FilePath:  getEnv("LOG_FILE_PATH", ""),
		UseColors: getEnvAsBool("LOG_USE_COLORS", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

// MQTTEnabled reports whether the outbound facility bridge is configured.
func (c *Config) MQTTEnabled() bool {
	return c.MQTT.Broker != ""
}

func (c *Config) GetMQTTBroker() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTT.Broker, c.MQTT.Port)
}

func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}

	if c.Simulation.SensorCount < 8 {
		errors = append(errors, "SIM_SENSOR_COUNT must be at least 8")
	}

	if c.Simulation.ZoneCount < 1 || c.Simulation.SensorCount%c.Simulation.ZoneCount != 0 {
		errors = append(errors, "SIM_ZONE_COUNT must evenly divide SIM_SENSOR_COUNT")
	}

	if c.Simulation.RackCount < 1 {
		errors = append(errors, "SIM_RACK_COUNT must be at least 1")
	}

	if c.Simulation.TickInterval < 50*time.Millisecond {
		errors = append(errors, "SIM_TICK_INTERVAL must be at least 50ms")
	}

	if c.MQTTEnabled() && (c.MQTT.Port < 1 || c.MQTT.Port > 65535) {
		errors = append(errors, "MQTT_PORT must be between 1 and 65535")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func (c *Config) Print() {
	fmt.Println("╔══════════════════════════════════════════════════════════╗")
	fmt.Println("║           FiberSense Demo - Configuration                ║")
	fmt.Println("╚══════════════════════════════════════════════════════════╝")
	fmt.Printf("Environment:     %s\n", c.Server.Environment)
	fmt.Printf("Server:          %s:%d\n", c.Server.Host, c.Server.Port)
	fmt.Printf("Site:            %s (%d sensors, %d zones, %d racks)\n",
		c.Simulation.SiteName, c.Simulation.SensorCount, c.Simulation.ZoneCount, c.Simulation.RackCount)
	fmt.Printf("Tick interval:   %s\n", c.Simulation.TickInterval)
	if c.MQTTEnabled() {
		fmt.Printf("MQTT Bridge:     %s:%d\n", c.MQTT.Broker, c.MQTT.Port)
	} else {
		fmt.Println("MQTT Bridge:     disabled")
	}
	fmt.Println("──────────────────────────────────────────────────────────")
}
