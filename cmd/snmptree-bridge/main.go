// Command snmptree-bridge polls an SNMP device and republishes its
// values as a typed parameter tree.
//
// Usage:
//
//	snmptree-bridge [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-device string     Device address (host or host:port)
//	-community string  SNMP community string (default "public")
//	-interval int      Poll interval in milliseconds (default 5000)
//	-port int          TCP port to serve the tree on, 0 disables (default 7654)
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-event-log string  Append CBOR events to this file
//	-advertise         Advertise the tree service via mDNS
//	-version           Print version and exit
//
// Examples:
//
//	# Poll a UPS every 5 seconds and serve the tree on the default port
//	snmptree-bridge -device 192.168.1.50 -community public
//
//	# Run from a config file with debug logging
//	snmptree-bridge -config /etc/snmptree/bridge.yaml -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/snmptree/snmptree-go/pkg/bridge"
	"github.com/snmptree/snmptree-go/pkg/config"
	"github.com/snmptree/snmptree-go/pkg/log"
	"github.com/snmptree/snmptree-go/pkg/poll"
	"github.com/snmptree/snmptree-go/pkg/registry"
	"github.com/snmptree/snmptree-go/pkg/serve"
	"github.com/snmptree/snmptree-go/pkg/tree"
	"github.com/snmptree/snmptree-go/pkg/version"
)

var (
	configFile   string
	device       string
	community    string
	intervalMS   int
	port         int
	logLevel     string
	eventLogPath string
	advertise    bool
	showVersion  bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&device, "device", "", "Device address (host or host:port)")
	flag.StringVar(&community, "community", "", "SNMP community string")
	flag.IntVar(&intervalMS, "interval", 0, "Poll interval in milliseconds")
	flag.IntVar(&port, "port", -1, "TCP port to serve the tree on, 0 disables")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&eventLogPath, "event-log", "", "Append CBOR events to this file")
	flag.BoolVar(&advertise, "advertise", false, "Advertise the tree service via mDNS")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogging(cfg.LogLevel)
	logger.Info(version.String())
	logger.Info("configuration",
		"device", cfg.DeviceAddress,
		"interval", cfg.PollInterval(),
		"port", cfg.ListenPort,
		"advertise", cfg.Advertise)

	if err := run(cfg, logger); err != nil {
		logger.Error("bridge failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig merges the config file with command line flags; flags win.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if device != "" {
		cfg.DeviceAddress = device
	}
	if community != "" {
		cfg.Community = community
	}
	if intervalMS != 0 {
		cfg.PollIntervalMS = intervalMS
	}
	if port >= 0 {
		cfg.ListenPort = port
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if eventLogPath != "" {
		cfg.EventLogPath = eventLogPath
	}
	if advertise {
		cfg.Advertise = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func buildEventLogger(cfg *config.Config, logger *slog.Logger) (log.Logger, func(), error) {
	slogAdapter := log.NewSlogAdapter(logger)
	if cfg.EventLogPath == "" {
		return slogAdapter, func() {}, nil
	}

	fileLogger, err := log.NewFileLogger(cfg.EventLogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening event log: %w", err)
	}
	closer := func() {
		if err := fileLogger.Close(); err != nil {
			logger.Warn("closing event log", "error", err)
		}
	}
	return log.NewMultiLogger(slogAdapter, fileLogger), closer, nil
}

func run(cfg *config.Config, logger *slog.Logger) error {
	eventLogger, closeEvents, err := buildEventLogger(cfg, logger)
	if err != nil {
		return err
	}
	defer closeEvents()

	quantities := registry.Default()
	deviceTree, err := tree.Build(quantities)
	if err != nil {
		return fmt.Errorf("building tree: %w", err)
	}

	serveCfg := serve.Config{
		Advertise:    cfg.Advertise,
		InstanceName: serve.DefaultInstanceName,
		Logger:       eventLogger,
	}
	if cfg.ListenPort > 0 {
		serveCfg.ListenAddress = fmt.Sprintf(":%d", cfg.ListenPort)
	}
	publisher := serve.NewPublisher(serveCfg)
	if err := publisher.Publish(deviceTree); err != nil {
		return fmt.Errorf("publishing tree: %w", err)
	}
	defer publisher.Close()
	if addr := publisher.Addr(); addr != nil {
		logger.Info("serving tree", "address", addr.String())
	}

	reader, err := poll.NewSNMPReader(poll.SNMPConfig{
		Target:    cfg.DeviceAddress,
		Community: cfg.Community,
	})
	if err != nil {
		return fmt.Errorf("connecting to device: %w", err)
	}
	defer reader.Close()

	mapper := bridge.NewMapper(quantities, reader, publisher, eventLogger)
	availability := bridge.NewAvailability(publisher, eventLogger)

	scheduler, err := bridge.NewScheduler(cfg.PollInterval(), mapper, availability)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	logger.Info("polling started", "interval", scheduler.Interval())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	if err := scheduler.Stop(); err != nil {
		logger.Warn("stopping scheduler", "error", err)
	}
	return nil
}
