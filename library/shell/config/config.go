package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix      = "LIBRARY"
	configFileName = "library"

	keyDatabaseURL          = "database_url"
	keyReplicaDatabaseURL   = "replica_database_url"
	keyDBAdapter            = "db_adapter"
	keyEventsTable          = "events_table"
	keyHTTPAddr             = "http_addr"
	keyLogMode              = "log_mode"
	keyLoanPeriodDays       = "loan_period_days"
	keyMaxConcurrentLoans   = "max_concurrent_loans"
	keyObservabilityEnabled = "observability_enabled"
	keyOTLPEndpoint         = "otlp_endpoint"
	keyServiceName          = "service_name"
	keyTraceSampleRatio     = "trace_sample_ratio"
)

// Supported values for DB_ADAPTER.
const (
	AdapterPGX    = "pgx"
	AdapterSQL    = "sql"
	AdapterSQLX   = "sqlx"
	AdapterMemory = "memory"
)

var (
	// ErrInvalidConfig is returned by Load when a value is missing or out of range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrReadingConfigFileFailed is returned when library.yaml exists but cannot be parsed.
	ErrReadingConfigFileFailed = errors.New("reading config file failed")
)

// Config is the runtime configuration of the library service.
type Config struct {
	DatabaseURL          string
	ReplicaDatabaseURL   string
	DBAdapter            string
	EventsTable          string
	HTTPAddr             string
	LogMode              string
	LoanPeriodDays       int
	MaxConcurrentLoans   int
	ObservabilityEnabled bool
	OTLPEndpoint         string
	ServiceName          string
	TraceSampleRatio     float64
}

// Load reads the configuration from LIBRARY_* environment variables and an optional library.yaml
// in the working directory. Environment variables win over the file.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(keyDBAdapter, AdapterPGX)
	v.SetDefault(keyEventsTable, "events")
	v.SetDefault(keyHTTPAddr, ":8080")
	v.SetDefault(keyLogMode, "prod")
	v.SetDefault(keyLoanPeriodDays, 14)
	v.SetDefault(keyMaxConcurrentLoans, 3)
	v.SetDefault(keyObservabilityEnabled, false)
	v.SetDefault(keyServiceName, "library-lending")
	v.SetDefault(keyTraceSampleRatio, 0.1)

	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Join(ErrReadingConfigFileFailed, err)
		}
	}

	cfg := Config{
		DatabaseURL:          strings.TrimSpace(v.GetString(keyDatabaseURL)),
		ReplicaDatabaseURL:   strings.TrimSpace(v.GetString(keyReplicaDatabaseURL)),
		DBAdapter:            strings.ToLower(strings.TrimSpace(v.GetString(keyDBAdapter))),
		EventsTable:          strings.TrimSpace(v.GetString(keyEventsTable)),
		HTTPAddr:             strings.TrimSpace(v.GetString(keyHTTPAddr)),
		LogMode:              strings.ToLower(strings.TrimSpace(v.GetString(keyLogMode))),
		LoanPeriodDays:       v.GetInt(keyLoanPeriodDays),
		MaxConcurrentLoans:   v.GetInt(keyMaxConcurrentLoans),
		ObservabilityEnabled: v.GetBool(keyObservabilityEnabled),
		OTLPEndpoint:         strings.TrimSpace(v.GetString(keyOTLPEndpoint)),
		ServiceName:          strings.TrimSpace(v.GetString(keyServiceName)),
		TraceSampleRatio:     v.GetFloat64(keyTraceSampleRatio),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the values Load cannot default.
func (c Config) Validate() error {
	switch c.DBAdapter {
	case AdapterPGX, AdapterSQL, AdapterSQLX:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: LIBRARY_DATABASE_URL is required for db adapter %q", ErrInvalidConfig, c.DBAdapter)
		}
	case AdapterMemory:
	default:
		return fmt.Errorf("%w: unknown db adapter %q", ErrInvalidConfig, c.DBAdapter)
	}

	if c.ReplicaDatabaseURL != "" && c.DBAdapter != AdapterPGX {
		return fmt.Errorf("%w: a read replica is only supported with the %q adapter", ErrInvalidConfig, AdapterPGX)
	}

	if c.EventsTable == "" {
		return fmt.Errorf("%w: events table must not be empty", ErrInvalidConfig)
	}

	if c.LoanPeriodDays <= 0 {
		return fmt.Errorf("%w: loan period days must be positive, got %d", ErrInvalidConfig, c.LoanPeriodDays)
	}

	if c.MaxConcurrentLoans <= 0 {
		return fmt.Errorf("%w: max concurrent loans must be positive, got %d", ErrInvalidConfig, c.MaxConcurrentLoans)
	}

	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		return fmt.Errorf("%w: trace sample ratio must be between 0 and 1, got %v", ErrInvalidConfig, c.TraceSampleRatio)
	}

	return nil
}
