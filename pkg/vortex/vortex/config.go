package vortex

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vortexhttp/vortex/pkg/vortex/timing"
)

// timingConfig projects the subset of Config the timeout/validation
// engine needs into a timing.Config.
func timingConfig(c Config) timing.Config {
	return timing.Config{
		EnableTimeoutProtection: c.EnableTimeoutProtection,
		ConnectionTimeoutMS:     c.ConnectionTimeoutMS,
		IdleTimeoutMS:           c.IdleTimeoutMS,
		HeaderTimeoutMS:         c.HeaderTimeoutMS,
		BodyTimeoutMS:           c.BodyTimeoutMS,
		BodyReadThresholdPct:    int64(c.BodyReadThresholdPercent),
	}
}

// Config holds the full validated set of numeric limits, timeouts, and
// feature flags the connection engine consults. Config is deeply
// immutable once the server is listening.
type Config struct {
	Port    int
	Address string

	MaxConnections int

	ReadTimeoutMS      int64
	WriteTimeoutMS     int64
	KeepaliveTimeoutMS int64 // reserved: this engine closes after one request

	BufferSize int
	MaxBuffers int

	MaxRoutes         int
	MaxRouteParams    int
	MaxMiddlewares    int

	ConnectionTimeoutMS int64
	RequestTimeoutMS    int64 // surfaced; not consulted by the timeout rules directly
	HeaderTimeoutMS     int64
	BodyTimeoutMS       int64
	IdleTimeoutMS       int64

	MaxRequestSize int
	MaxHeaderCount int
	MaxHeaderSize  int
	MaxURILength   int
	MaxBodySize    int

	BodyReadThresholdPercent int

	EnableRequestValidation bool
	EnableTimeoutProtection bool

	EnableKeepAlive   bool
	EnableCompression bool
	EnableCORS        bool

	LogLevel string // one of debug, info, warning, error, critical

	ErrorHandler    ErrorHandler
	ShutdownContext context.Context
}

// DefaultConfig matches the reference default for every option in §6.
func DefaultConfig() Config {
	return Config{
		Port:    8080,
		Address: "127.0.0.1",

		MaxConnections: 1000,

		ReadTimeoutMS:      30000,
		WriteTimeoutMS:     30000,
		KeepaliveTimeoutMS: 60000,

		BufferSize: 8192,
		MaxBuffers: 200,

		MaxRoutes:      100,
		MaxRouteParams: 20,
		MaxMiddlewares: 50,

		ConnectionTimeoutMS: 30000,
		RequestTimeoutMS:    30000,
		HeaderTimeoutMS:     10000,
		BodyTimeoutMS:       60000,
		IdleTimeoutMS:       5000,

		MaxRequestSize: 1 << 20,
		MaxHeaderCount: 100,
		MaxHeaderSize:  8192,
		MaxURILength:   2048,
		MaxBodySize:    10 << 20,

		BodyReadThresholdPercent: 10,

		EnableRequestValidation: true,
		EnableTimeoutProtection: true,

		EnableKeepAlive:   false,
		EnableCompression: false,
		EnableCORS:        false,

		LogLevel: "info",

		ErrorHandler: DefaultErrorHandler,
	}
}

// BasicConfig is DefaultConfig with nothing further tightened; it exists
// so the CLI's three modes are each an explicit named preset rather than
// "basic" silently meaning "whatever the library defaults to today".
func BasicConfig() Config {
	return DefaultConfig()
}

// SecureConfig tightens timeouts and size limits for an internet-facing
// deployment and forces timeout protection on regardless of caller intent.
func SecureConfig() Config {
	c := DefaultConfig()
	c.MaxConnections = 500
	c.ReadTimeoutMS = 10000
	c.WriteTimeoutMS = 10000
	c.ConnectionTimeoutMS = 15000
	c.HeaderTimeoutMS = 5000
	c.BodyTimeoutMS = 20000
	c.IdleTimeoutMS = 3000
	c.MaxRequestSize = 256 << 10
	c.MaxBodySize = 1 << 20
	c.MaxHeaderCount = 50
	c.MaxURILength = 1024
	c.EnableTimeoutProtection = true
	c.EnableRequestValidation = true
	c.LogLevel = "warning"
	return c
}

// DevConfig relaxes timeouts for manual curl-style testing and turns on
// debug logging.
func DevConfig() Config {
	c := DefaultConfig()
	c.ConnectionTimeoutMS = 300000
	c.HeaderTimeoutMS = 300000
	c.BodyTimeoutMS = 300000
	c.IdleTimeoutMS = 300000
	c.LogLevel = "debug"
	return c
}

// ConfigForMode resolves one of the CLI's named presets. An unrecognized
// mode is an error so the driver can exit nonzero with a usage message.
func ConfigForMode(mode string) (Config, error) {
	switch mode {
	case "basic", "":
		return BasicConfig(), nil
	case "secure":
		return SecureConfig(), nil
	case "dev":
		return DevConfig(), nil
	default:
		return Config{}, fmt.Errorf("vortex: unrecognized mode %q (want basic, secure, or dev)", mode)
	}
}

// zerologLevel maps Config.LogLevel's five-level enum onto zerolog's
// levels: "critical" maps to zerolog's Fatal level, used non-fatally
// here (it never calls os.Exit — that's zerolog.Logger.Fatal()'s doing,
// not this level-filter value's).
func zerologLevel(logLevel string) zerolog.Level {
	switch logLevel {
	case "debug":
		return zerolog.DebugLevel
	case "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "critical":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Validate checks the option set for internally-consistent values.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("vortex: port must be in 1..65535")
	}
	if c.MaxConnections <= 0 {
		return errors.New("vortex: max_connections must be positive")
	}
	if c.BufferSize <= 0 {
		return errors.New("vortex: buffer_size must be positive")
	}
	if c.MaxBodySize < 0 || c.MaxHeaderSize < 0 || c.MaxURILength < 0 || c.MaxRequestSize < 0 {
		return errors.New("vortex: size limits must be non-negative")
	}
	if c.BodyReadThresholdPercent < 0 || c.BodyReadThresholdPercent > 100 {
		return errors.New("vortex: body_read_threshold_percent must be in 0..100")
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error", "critical":
	default:
		return fmt.Errorf("vortex: unrecognized log_level %q", c.LogLevel)
	}
	return nil
}
