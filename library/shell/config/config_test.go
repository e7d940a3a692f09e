package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/shell/config"
)

func Test_Load_UsesDefaults_WithMemoryAdapter(t *testing.T) {
	// arrange
	t.Setenv("LIBRARY_DB_ADAPTER", "memory")

	// act
	cfg, err := config.Load()

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.AdapterMemory, cfg.DBAdapter)
	assert.Equal(t, 14, cfg.LoanPeriodDays)
	assert.Equal(t, 3, cfg.MaxConcurrentLoans)
	assert.Equal(t, "events", cfg.EventsTable)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.ObservabilityEnabled)
}

func Test_Load_ReadsEnvironment(t *testing.T) {
	// arrange
	t.Setenv("LIBRARY_DB_ADAPTER", "SQLX")
	t.Setenv("LIBRARY_DATABASE_URL", "postgres://lib:secret@db:5432/library?sslmode=disable")
	t.Setenv("LIBRARY_LOAN_PERIOD_DAYS", "21")
	t.Setenv("LIBRARY_MAX_CONCURRENT_LOANS", "5")
	t.Setenv("LIBRARY_EVENTS_TABLE", "loan_events")
	t.Setenv("LIBRARY_OBSERVABILITY_ENABLED", "true")

	// act
	cfg, err := config.Load()

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.AdapterSQLX, cfg.DBAdapter)
	assert.Equal(t, "postgres://lib:secret@db:5432/library?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, 21, cfg.LoanPeriodDays)
	assert.Equal(t, 5, cfg.MaxConcurrentLoans)
	assert.Equal(t, "loan_events", cfg.EventsTable)
	assert.True(t, cfg.ObservabilityEnabled)
}

func Test_Load_Fails_WhenDatabaseURLMissingForPostgresAdapter(t *testing.T) {
	// arrange
	t.Setenv("LIBRARY_DB_ADAPTER", "pgx")
	t.Setenv("LIBRARY_DATABASE_URL", "")

	// act
	_, err := config.Load()

	// assert
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func Test_Validate_RejectsInvalidValues(t *testing.T) {
	valid := config.Config{
		DBAdapter:          config.AdapterMemory,
		EventsTable:        "events",
		LoanPeriodDays:     14,
		MaxConcurrentLoans: 3,
		TraceSampleRatio:   0.1,
	}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{name: "unknown adapter", mutate: func(c *config.Config) { c.DBAdapter = "mongo" }},
		{name: "replica without pgx", mutate: func(c *config.Config) { c.ReplicaDatabaseURL = "postgres://replica" }},
		{name: "empty events table", mutate: func(c *config.Config) { c.EventsTable = "" }},
		{name: "zero loan period", mutate: func(c *config.Config) { c.LoanPeriodDays = 0 }},
		{name: "negative loan limit", mutate: func(c *config.Config) { c.MaxConcurrentLoans = -1 }},
		{name: "sample ratio above one", mutate: func(c *config.Config) { c.TraceSampleRatio = 1.5 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			cfg := valid
			tc.mutate(&cfg)

			// act
			err := cfg.Validate()

			// assert
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func Test_NewObservabilityProviders_WithoutEndpoint_UsesStdoutExporters(t *testing.T) {
	// arrange
	cfg := config.Config{ServiceName: "library-lending-test", TraceSampleRatio: 1}

	// act
	providers, err := config.NewObservabilityProviders(t.Context(), cfg)

	// assert
	require.NoError(t, err)
	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.LoggerProvider)
	assert.NoError(t, providers.Shutdown(t.Context()))
}
