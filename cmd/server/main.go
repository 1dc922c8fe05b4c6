package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fibersense/internal/auth"
	"fibersense/internal/config"
	"fibersense/internal/engine"
	"fibersense/internal/handler"
	"fibersense/internal/logger"
	"fibersense/internal/mqtt"
	"fibersense/internal/server"
	"fibersense/internal/websocket"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		// Fallback logger since main logger isn't ready
		panic("Failed to load configuration: " + err.Error())
	}

	// 2. Initialize Logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Mode:        cfg.Logging.Mode,
		LogFilePath: cfg.Logging.FilePath,
		UseColors:   cfg.Logging.UseColors,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Close()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration validation failed: %v", err)
	}

	cfg.Print()
	log.Info("Starting FiberSense demo server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Simulation Engine
	eng := engine.New(cfg.Simulation, log)
	log.Info("Engine session: %s", eng.SessionID())

	// 4. WebSocket Hub
	hub := websocket.NewHub(log)
	go hub.Run(ctx)
	eng.AttachSink(hub)

	// 5. Optional MQTT Bridge
	var publisher *mqtt.Publisher
	if cfg.MQTTEnabled() {
		publisher, err = mqtt.NewPublisher(mqtt.PublisherConfig{
			MQTT:   &cfg.MQTT,
			Logger: log,
		})
		if err != nil {
			log.Fatal("Failed to create MQTT publisher: %v", err)
		}
		if err := publisher.Connect(); err != nil {
			log.Fatal("Failed to connect to MQTT broker: %v", err)
		}
		defer publisher.Disconnect()
		eng.AttachSink(publisher)
	}

	// 6. Start Ticking
	go eng.Run(ctx)

	// 7. Presenter Auth
	authMgr := auth.NewManager(&cfg.Security)
	if authMgr.Enabled() {
		log.Info("Presenter token auth enabled for demo controls")
	} else {
		log.Warn("PRESENTER_PASSPHRASE not set; demo controls are open")
	}

	// 8. Handlers
	snapshotHandler := handler.NewSnapshotHandler(eng, log)
	breachHandler := handler.NewBreachHandler(eng, log)
	alertHandler := handler.NewAlertHandler(eng, log)
	sessionHandler := handler.NewSessionHandler(authMgr, log)
	reportHandler := handler.NewReportHandler(eng, log)
	healthHandler := handler.NewHealthHandler(eng, publisher, log)

	// 9. Start HTTP Server
	srv := server.New(cfg, log)
	srv.RegisterHandlers(snapshotHandler, breachHandler, alertHandler,
		sessionHandler, reportHandler, healthHandler, authMgr, hub)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("Server failed: %v", err)
		}
	}()

	log.Info("Demo server ready on http://%s:%d", cfg.Server.Host, cfg.Server.Port)

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("Shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error: %v", err)
	}

	log.Info("Shutdown complete")
}
